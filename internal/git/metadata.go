package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// RepositoryURL is a repository location split into tracker coordinates.
type RepositoryURL struct {
	Host       string
	Namespace  string
	Repository string
}

// RepositoryMetadata describes the git repository around a folder.
type RepositoryMetadata struct {
	RepoRootFolder string
	RemoteURL      string
	RepositoryURL
}

// CollectRepositoryMetadata finds the repository containing sourceFolder and
// reads its origin remote.
func CollectRepositoryMetadata(sourceFolder string) (*RepositoryMetadata, error) {
	if sourceFolder == "" {
		return nil, fmt.Errorf("source folder is not set")
	}
	if absSource, err := filepath.Abs(sourceFolder); err == nil {
		sourceFolder = absSource
	}

	repoRootFolder, err := findGitRepositoryPath(sourceFolder)
	if err != nil {
		return nil, err
	}
	md := &RepositoryMetadata{RepoRootFolder: filepath.Clean(repoRootFolder)}

	repo, err := git.PlainOpen(repoRootFolder)
	if err != nil {
		return md, fmt.Errorf("failed to open repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return md, ErrNoOrigin
	}
	cfg := remote.Config()
	if cfg == nil || len(cfg.URLs) == 0 {
		return md, ErrNoOrigin
	}
	md.RemoteURL = cfg.URLs[0]

	parsed, err := ParseRepositoryURL(md.RemoteURL)
	if err != nil {
		return md, err
	}
	md.RepositoryURL = parsed
	return md, nil
}

// ParseRepositoryURL extracts host, namespace and repository from an HTTPS or
// SSH repository URL. github.com and gitlab.com URLs go through go-vcsurl,
// which also understands browser links such as /tree/<branch>; other hosts
// are split on the last path segment of the git endpoint.
func ParseRepositoryURL(raw string) (RepositoryURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RepositoryURL{}, fmt.Errorf("repository URL is empty")
	}

	ep, err := transport.NewEndpoint(raw)
	if err != nil {
		return RepositoryURL{}, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	host := strings.ToLower(ep.Host)

	if host == "github.com" || host == "gitlab.com" {
		if info, err := vcsurl.Parse(raw); err == nil && info.Name != "" {
			namespace := strings.TrimSuffix(info.FullName, "/"+info.Name)
			if namespace == "" || namespace == info.FullName {
				namespace = info.Username
			}
			return RepositoryURL{Host: host, Namespace: namespace, Repository: info.Name}, nil
		}
	}

	p := strings.Trim(strings.TrimSuffix(ep.Path, ".git"), "/")
	i := strings.LastIndex(p, "/")
	if host == "" || i <= 0 || i == len(p)-1 {
		return RepositoryURL{}, fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
	}
	return RepositoryURL{Host: host, Namespace: p[:i], Repository: p[i+1:]}, nil
}
