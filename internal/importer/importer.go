// Package importer turns a scan results file into tracker issues, skipping
// findings that were imported by an earlier run.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/flaw-importer/internal/flaws"
	"github.com/scan-io-git/flaw-importer/internal/labels"
	"github.com/scan-io-git/flaw-importer/internal/tracker"
	errs "github.com/scan-io-git/flaw-importer/pkg/shared/errors"
)

// DefaultRateLimitBackoff is the first delay before retrying a rate-limited issue.
const DefaultRateLimitBackoff = 30 * time.Second

// Options configures one import run.
type Options struct {
	ResultsFile      string        `json:"results_file,omitempty"`
	Namespace        string        `json:"namespace,omitempty"`
	Repository       string        `json:"repository,omitempty"`
	Token            string        `json:"-"`
	WaitTime         time.Duration `json:"wait_time,omitempty"`
	RateLimitRetries int           `json:"rate_limit_retries,omitempty"`
	RateLimitBackoff time.Duration `json:"rate_limit_backoff,omitempty"`
}

// Validate checks that every required option is present.
func (o Options) Validate() error {
	var missing []string
	if strings.TrimSpace(o.ResultsFile) == "" {
		missing = append(missing, "results file")
	}
	if strings.TrimSpace(o.Namespace) == "" {
		missing = append(missing, "namespace")
	}
	if strings.TrimSpace(o.Repository) == "" {
		missing = append(missing, "repository")
	}
	if strings.TrimSpace(o.Token) == "" {
		missing = append(missing, "token")
	}
	if len(missing) > 0 {
		return errs.New(errs.KindConfiguration, "missing required options: %s", strings.Join(missing, ", "))
	}
	if o.WaitTime < 0 {
		return errs.New(errs.KindConfiguration, "wait time must not be negative")
	}
	if o.RateLimitRetries < 0 {
		return errs.New(errs.KindConfiguration, "rate limit retries must not be negative")
	}
	return nil
}

// Summary reports the outcome of a run.
type Summary struct {
	ScanType  flaws.ScanType `json:"scan_type"`
	Processed int            `json:"processed"`
	Created   int            `json:"created"`
	Skipped   int            `json:"skipped"`
}

// Importer runs imports against one tracker.
type Importer struct {
	tracker tracker.Tracker
	logger  hclog.Logger
	sleep   SleepFunc
}

// New returns an Importer that writes to t.
func New(t tracker.Tracker, logger hclog.Logger) *Importer {
	return &Importer{tracker: t, logger: logger, sleep: SleepContext}
}

// Import validates opts, reads the results file, provisions labels and
// processes every finding. The returned Summary is meaningful even when
// err is not nil and counts the findings handled before the failure.
func (im *Importer) Import(ctx context.Context, opts Options) (Summary, error) {
	if err := opts.Validate(); err != nil {
		return Summary{}, err
	}
	if opts.RateLimitBackoff <= 0 {
		opts.RateLimitBackoff = DefaultRateLimitBackoff
	}

	data, err := os.ReadFile(opts.ResultsFile)
	if err != nil {
		return Summary{}, errs.Wrap(errs.KindInput, 0, err, "failed to read results file %q", opts.ResultsFile)
	}

	scanType, err := flaws.DetectScanType(data)
	if err != nil {
		return Summary{}, errs.Wrap(errs.KindInput, 0, err, "failed to detect scan type of %q", opts.ResultsFile)
	}
	im.logger.Info("results file loaded", "path", opts.ResultsFile, "scan_type", scanType)

	mapper := labels.NewSeverityMapper()
	run := &runner{
		submitter: NewSubmitter(im.tracker),
		logger:    im.logger,
		waitTime:  opts.WaitTime,
		retries:   opts.RateLimitRetries,
		backoff:   opts.RateLimitBackoff,
		sleep:     im.sleep,
	}

	var proc Processor
	switch scanType {
	case flaws.ScanTypePipeline:
		var report flaws.PipelineReport
		if err := json.Unmarshal(data, &report); err != nil {
			return Summary{}, errs.Wrap(errs.KindInput, 0, err, "failed to parse pipeline results")
		}
		proc, err = newPipelineProcessor(report.Findings, im.tracker, mapper, run)
	case flaws.ScanTypePolicy:
		var report flaws.PolicyReport
		if err := json.Unmarshal(data, &report); err != nil {
			return Summary{}, errs.Wrap(errs.KindInput, 0, err, "failed to parse policy results")
		}
		proc, err = newPolicyProcessor(report.Embedded.Findings, im.tracker, mapper, run)
	default:
		err = errs.New(errs.KindInput, "unsupported scan type %q", scanType)
	}
	if err != nil {
		return Summary{ScanType: scanType}, err
	}

	if err := labels.NewProvisioner(im.tracker, im.logger).EnsureLabels(ctx); err != nil {
		return Summary{ScanType: scanType}, err
	}

	summary, err := proc.Process(ctx)
	if err != nil {
		return summary, err
	}
	im.logger.Info("import finished", "scan_type", summary.ScanType, "processed", summary.Processed,
		"created", summary.Created, "skipped", summary.Skipped)
	return summary, nil
}

func findingRef(i int, issueID flaws.ID) string {
	return fmt.Sprintf("#%d (issue_id %s)", i, issueID)
}
