package git

import "errors"

var (
	ErrNotRepository  = errors.New("source folder is not a git repository")
	ErrNoOrigin       = errors.New("repository has no origin remote")
	ErrUnsupportedURL = errors.New("unable to parse repository URL")
)
