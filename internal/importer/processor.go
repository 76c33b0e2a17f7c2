package importer

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/flaw-importer/internal/flaws"
	errs "github.com/scan-io-git/flaw-importer/pkg/shared/errors"
)

const (
	progressEvery = 25
	maxBackoff    = 10 * time.Minute
	// waitTimeStep is added to the wait time after each rate-limit retry.
	waitTimeStep = 2 * time.Second
)

// Processor imports the findings of one scan type.
type Processor interface {
	Process(ctx context.Context) (Summary, error)
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepContext waits for d unless ctx is cancelled first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// step is one finding as seen by the loop.
type step struct {
	ref       string
	duplicate bool
	issue     Issue
}

// runner owns the loop shared by both processors: skip or submit each
// finding, throttle after every created issue and retry rate limits when
// configured.
type runner struct {
	submitter *Submitter
	logger    hclog.Logger
	waitTime  time.Duration
	retries   int
	backoff   time.Duration
	sleep     SleepFunc
}

func (r *runner) run(ctx context.Context, scanType flaws.ScanType, total int, next func(i int) step) (Summary, error) {
	summary := Summary{ScanType: scanType}
	r.logger.Info("processing flaws", "scan_type", scanType, "total", total)

	for i := 0; i < total; i++ {
		if i > 0 && i%progressEvery == 0 {
			r.logger.Info("progress", "index", i, "total", total, "created", summary.Created, "skipped", summary.Skipped)
		}
		s := next(i)
		summary.Processed++

		if s.duplicate {
			r.logger.Debug("flaw already imported, skipping", "flaw", s.ref, "token", s.issue.Token)
			summary.Skipped++
			continue
		}

		num, err := r.submit(ctx, s)
		if err != nil {
			return summary, err
		}
		summary.Created++
		r.logger.Info("issue created", "number", num, "flaw", s.ref, "token", s.issue.Token)

		if r.waitTime > 0 {
			if err := r.sleep(ctx, r.waitTime); err != nil {
				return summary, err
			}
		}
	}
	return summary, nil
}

func (r *runner) submit(ctx context.Context, s step) (int, error) {
	for attempt := 0; ; attempt++ {
		num, err := r.submitter.Submit(ctx, s.issue)
		if err == nil {
			return num, nil
		}
		if errs.KindOf(err) != errs.KindRateLimit || attempt >= r.retries {
			return 0, err
		}

		delay := backoffDelay(r.backoff, attempt)
		r.waitTime += waitTimeStep
		r.logger.Warn("rate limited, retrying", "flaw", s.ref, "attempt", attempt+1,
			"max_attempts", r.retries, "delay", delay, "wait_time", r.waitTime)
		if err := r.sleep(ctx, delay); err != nil {
			return 0, err
		}
	}
}

// backoffDelay doubles base for every previous attempt, capped at maxBackoff.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
