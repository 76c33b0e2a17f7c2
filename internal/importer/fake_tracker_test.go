package importer

import (
	"context"
	"fmt"

	"github.com/scan-io-git/flaw-importer/internal/tracker"
)

type fakeIssue struct {
	number int
	title  string
	body   string
	labels []string
}

// fakeTracker is an in-memory project. Listing pages through issues that
// carry every requested label, pageSize at a time.
type fakeTracker struct {
	labels     map[string]tracker.Label
	issues     []fakeIssue
	pageSize   int
	alwaysNext bool

	labelErr   error
	listErr    error
	createErrs []error

	labelCalls  int
	createCalls int
	listCalls   []tracker.ListIssuesRequest
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{labels: make(map[string]tracker.Label)}
}

func (f *fakeTracker) seed(title string, labels ...string) {
	f.issues = append(f.issues, fakeIssue{number: len(f.issues) + 1, title: title, labels: labels})
}

func (f *fakeTracker) CreateLabel(_ context.Context, label tracker.Label) error {
	f.labelCalls++
	if f.labelErr != nil {
		return f.labelErr
	}
	if _, ok := f.labels[label.Name]; ok {
		return fmt.Errorf("%w: %s", tracker.ErrLabelExists, label.Name)
	}
	f.labels[label.Name] = label
	return nil
}

func (f *fakeTracker) CreateIssue(_ context.Context, req tracker.IssueRequest) (int, error) {
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	num := len(f.issues) + 1
	f.issues = append(f.issues, fakeIssue{number: num, title: req.Title, body: req.Body, labels: req.Labels})
	return num, nil
}

func (f *fakeTracker) ListIssues(_ context.Context, req tracker.ListIssuesRequest) (tracker.IssuePage, error) {
	f.listCalls = append(f.listCalls, req)
	if f.listErr != nil {
		return tracker.IssuePage{}, f.listErr
	}

	var matching []tracker.Issue
	for _, iss := range f.issues {
		if hasAll(iss.labels, req.Labels) {
			matching = append(matching, tracker.Issue{Number: iss.number, Title: iss.title})
		}
	}

	size := f.pageSize
	if size <= 0 {
		size = req.PerPage
	}
	start := (req.Page - 1) * size
	if start >= len(matching) {
		return tracker.IssuePage{HasNextPage: f.alwaysNext}, nil
	}
	end := start + size
	if end > len(matching) {
		end = len(matching)
	}
	return tracker.IssuePage{Issues: matching[start:end], HasNextPage: f.alwaysNext || end < len(matching)}, nil
}

func hasAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
