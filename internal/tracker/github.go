package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v47/github"
	"golang.org/x/oauth2"
)

// GitHub creates and lists issues in one GitHub repository.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHub returns a GitHub tracker for owner/repo. baseURL selects a GitHub
// Enterprise server and may be empty for github.com. The token is attached to
// every request by an oauth2 transport layered over httpClient.
func NewGitHub(httpClient *http.Client, baseURL, token, owner, repo string) (*GitHub, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = &http.Client{
			Transport: &oauth2.Transport{Source: ts, Base: httpClient.Transport},
			Timeout:   httpClient.Timeout,
		}
	}

	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = github.NewEnterpriseClient(baseURL, baseURL, httpClient)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", baseURL, err)
		}
	}

	return &GitHub{client: client, owner: owner, repo: repo}, nil
}

// CreateLabel creates a repository label. GitHub answers 422 for a name that is taken.
func (g *GitHub) CreateLabel(ctx context.Context, label Label) error {
	_, _, err := g.client.Issues.CreateLabel(ctx, g.owner, g.repo, &github.Label{
		Name:        github.String(label.Name),
		Color:       github.String(label.Color),
		Description: github.String(label.Description),
	})
	if err == nil {
		return nil
	}

	converted := convertGitHubError(err)
	if StatusCode(converted) == http.StatusUnprocessableEntity {
		return fmt.Errorf("%w: %v", ErrLabelExists, converted)
	}
	return converted
}

// CreateIssue opens an issue and returns its number.
func (g *GitHub) CreateIssue(ctx context.Context, req IssueRequest) (int, error) {
	labels := req.Labels
	iss, _, err := g.client.Issues.Create(ctx, g.owner, g.repo, &github.IssueRequest{
		Title:  github.String(req.Title),
		Body:   github.String(req.Body),
		Labels: &labels,
	})
	if err != nil {
		return 0, convertGitHubError(err)
	}
	return iss.GetNumber(), nil
}

// ListIssues returns one page of open issues carrying all requested labels.
// The issues endpoint also returns pull requests; their titles carry no
// identity token so the importer ignores them.
func (g *GitHub) ListIssues(ctx context.Context, req ListIssuesRequest) (IssuePage, error) {
	opts := &github.IssueListByRepoOptions{
		State:  "open",
		Labels: req.Labels,
		ListOptions: github.ListOptions{
			Page:    req.Page,
			PerPage: perPage(req.PerPage),
		},
	}

	issues, resp, err := g.client.Issues.ListByRepo(ctx, g.owner, g.repo, opts)
	if err != nil {
		return IssuePage{}, convertGitHubError(err)
	}

	page := IssuePage{Issues: make([]Issue, 0, len(issues))}
	for _, iss := range issues {
		if iss == nil {
			continue
		}
		page.Issues = append(page.Issues, Issue{Number: iss.GetNumber(), Title: iss.GetTitle()})
	}
	page.HasNextPage = resp != nil && resp.NextPage != 0
	return page, nil
}

// convertGitHubError maps go-github errors to StatusError and flags primary
// and secondary (abuse detection) rate limits.
func convertGitHubError(err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse

	switch {
	case errors.As(err, &rateErr):
		return &StatusError{StatusCode: responseStatus(rateErr.Response), Message: rateErr.Message, RateLimited: true}
	case errors.As(err, &abuseErr):
		return &StatusError{StatusCode: responseStatus(abuseErr.Response), Message: abuseErr.Message, RateLimited: true}
	case errors.As(err, &respErr):
		status := responseStatus(respErr.Response)
		return &StatusError{
			StatusCode:  status,
			Message:     respErr.Message,
			RateLimited: isRateLimitMessage(status, respErr.Message),
		}
	default:
		return err
	}
}

func isRateLimitMessage(status int, message string) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	if status != http.StatusForbidden {
		return false
	}
	msg := strings.ToLower(message)
	return strings.Contains(msg, "abuse detection") || strings.Contains(msg, "secondary rate limit")
}

func responseStatus(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func perPage(n int) int {
	if n <= 0 {
		return DefaultPerPage
	}
	return n
}
