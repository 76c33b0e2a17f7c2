package importer

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/flaw-importer/internal/flaws"
	"github.com/scan-io-git/flaw-importer/internal/tracker"
	errs "github.com/scan-io-git/flaw-importer/pkg/shared/errors"
)

// populateIndex records every open issue matching one of the label filters.
// Titles without a token, or with a token of another scheme, are skipped.
func populateIndex(ctx context.Context, t tracker.Tracker, idx flaws.Index, filters [][]string, logger hclog.Logger) error {
	for _, filter := range filters {
		page := 1
		for {
			res, err := t.ListIssues(ctx, tracker.ListIssuesRequest{
				Labels:  filter,
				Page:    page,
				PerPage: tracker.DefaultPerPage,
			})
			if err != nil {
				return errs.Wrap(errs.KindListing, tracker.StatusCode(err), err,
					"failed to list issues labelled %q (page %d)", strings.Join(filter, ","), page)
			}

			for _, iss := range res.Issues {
				token, ok := flaws.ExtractIdentity(iss.Title)
				if !ok {
					logger.Warn("issue has no flaw identity, ignoring", "number", iss.Number, "title", iss.Title)
					continue
				}
				if err := idx.Record(token); err != nil {
					logger.Warn("unable to parse flaw identity, ignoring", "number", iss.Number, "token", token, "error", err)
				}
			}

			if !res.HasNextPage || len(res.Issues) == 0 {
				break
			}
			page++
		}
	}
	logger.Info("existing issues indexed", "count", idx.Len())
	return nil
}
