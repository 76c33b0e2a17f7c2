// Package tracker is the issue-tracker capability used by the importer:
// create a label, create an issue and list issues by label, page by page.
package tracker

import (
	"context"
	"errors"
	"fmt"
)

// DefaultPerPage is the page size requested when listing issues.
const DefaultPerPage = 100

// ErrLabelExists is returned by CreateLabel when the label is already defined.
var ErrLabelExists = errors.New("label already exists")

// Label is a label definition. Color is a hex RGB value without '#'.
type Label struct {
	Name        string
	Color       string
	Description string
}

// IssueRequest describes an issue to create.
type IssueRequest struct {
	Title  string
	Body   string
	Labels []string
}

// ListIssuesRequest selects open issues carrying all of Labels.
type ListIssuesRequest struct {
	Labels  []string
	Page    int
	PerPage int
}

// Issue is the part of a remote issue the importer needs.
type Issue struct {
	Number int
	Title  string
}

// IssuePage is one page of a listing.
type IssuePage struct {
	Issues      []Issue
	HasNextPage bool
}

// Tracker is implemented by each issue tracker backend.
type Tracker interface {
	CreateLabel(ctx context.Context, label Label) error
	CreateIssue(ctx context.Context, req IssueRequest) (int, error)
	ListIssues(ctx context.Context, req ListIssuesRequest) (IssuePage, error)
}

// StatusError is a failed tracker call.
type StatusError struct {
	StatusCode  int
	Message     string
	RateLimited bool
}

func (e *StatusError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// AsStatusError returns the StatusError in err's chain, if any.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsRateLimited reports whether err is a rate-limit rejection.
func IsRateLimited(err error) bool {
	se, ok := AsStatusError(err)
	return ok && se.RateLimited
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if se, ok := AsStatusError(err); ok {
		return se.StatusCode
	}
	return 0
}
