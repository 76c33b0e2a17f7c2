package importer

import (
	"context"

	"github.com/scan-io-git/flaw-importer/internal/tracker"
	errs "github.com/scan-io-git/flaw-importer/pkg/shared/errors"
)

// Issue is a formatted issue ready for submission.
type Issue struct {
	Heading string
	Token   string
	Body    string
	Labels  []string
}

// Title joins the heading and the identity token.
func (i Issue) Title() string {
	return i.Heading + " " + i.Token
}

// Submitter creates one issue per call and classifies failures.
type Submitter struct {
	tracker tracker.Tracker
}

// NewSubmitter returns a Submitter that creates issues through t.
func NewSubmitter(t tracker.Tracker) *Submitter {
	return &Submitter{tracker: t}
}

// Submit creates the issue and returns its number. It never retries.
func (s *Submitter) Submit(ctx context.Context, issue Issue) (int, error) {
	title := issue.Title()
	num, err := s.tracker.CreateIssue(ctx, tracker.IssueRequest{
		Title:  title,
		Body:   issue.Body,
		Labels: issue.Labels,
	})
	if err == nil {
		return num, nil
	}

	status := tracker.StatusCode(err)
	if tracker.IsRateLimited(err) {
		return 0, errs.Wrap(errs.KindRateLimit, status, err, "rate limited while creating issue %q", title)
	}
	return 0, errs.Wrap(errs.KindSubmission, status, err, "failed to create issue %q", title)
}
