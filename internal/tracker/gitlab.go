package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xanzy/go-gitlab"
)

// GitLab creates and lists issues in one GitLab project.
type GitLab struct {
	client  *gitlab.Client
	project string
}

// NewGitLab returns a GitLab tracker for the project namespace/repo. baseURL
// selects a self-hosted instance and may be empty for gitlab.com. The
// client's own retry loop is disabled so a rate limit surfaces to the caller.
func NewGitLab(httpClient *http.Client, baseURL, token, namespace, repo string) (*GitLab, error) {
	opts := []gitlab.ClientOptionFunc{gitlab.WithoutRetries()}
	if httpClient != nil {
		opts = append(opts, gitlab.WithHTTPClient(httpClient))
	}
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(baseURL))
	}

	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}
	return &GitLab{client: client, project: namespace + "/" + repo}, nil
}

// CreateLabel creates a project label. GitLab answers 409 for a name that is taken.
func (g *GitLab) CreateLabel(ctx context.Context, label Label) error {
	color := label.Color
	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}
	_, _, err := g.client.Labels.CreateLabel(g.project, &gitlab.CreateLabelOptions{
		Name:        gitlab.Ptr(label.Name),
		Color:       gitlab.Ptr(color),
		Description: gitlab.Ptr(label.Description),
	}, gitlab.WithContext(ctx))
	if err == nil {
		return nil
	}

	converted := convertGitLabError(err)
	if StatusCode(converted) == http.StatusConflict {
		return fmt.Errorf("%w: %v", ErrLabelExists, converted)
	}
	return converted
}

// CreateIssue opens an issue and returns its project-scoped IID.
func (g *GitLab) CreateIssue(ctx context.Context, req IssueRequest) (int, error) {
	labels := gitlab.LabelOptions(req.Labels)
	iss, _, err := g.client.Issues.CreateIssue(g.project, &gitlab.CreateIssueOptions{
		Title:       gitlab.Ptr(req.Title),
		Description: gitlab.Ptr(req.Body),
		Labels:      &labels,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return 0, convertGitLabError(err)
	}
	return iss.IID, nil
}

// ListIssues returns one page of opened issues carrying all requested labels.
func (g *GitLab) ListIssues(ctx context.Context, req ListIssuesRequest) (IssuePage, error) {
	labels := gitlab.LabelOptions(req.Labels)
	opts := &gitlab.ListProjectIssuesOptions{
		ListOptions: gitlab.ListOptions{
			Page:    req.Page,
			PerPage: perPage(req.PerPage),
		},
		State:  gitlab.Ptr("opened"),
		Labels: &labels,
	}

	issues, resp, err := g.client.Issues.ListProjectIssues(g.project, opts, gitlab.WithContext(ctx))
	if err != nil {
		return IssuePage{}, convertGitLabError(err)
	}

	page := IssuePage{Issues: make([]Issue, 0, len(issues))}
	for _, iss := range issues {
		if iss == nil {
			continue
		}
		page.Issues = append(page.Issues, Issue{Number: iss.IID, Title: iss.Title})
	}
	page.HasNextPage = resp != nil && resp.NextPage != 0
	return page, nil
}

func convertGitLabError(err error) error {
	var respErr *gitlab.ErrorResponse
	if !errors.As(err, &respErr) {
		return err
	}
	status := responseStatus(respErr.Response)
	return &StatusError{
		StatusCode:  status,
		Message:     respErr.Message,
		RateLimited: status == http.StatusTooManyRequests,
	}
}
