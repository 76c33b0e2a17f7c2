package importflaws

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/flaw-importer/pkg/shared/config"
)

// validate validates the RunOptions for the import command.
func validate(o *RunOptions) error {
	if strings.TrimSpace(o.ResultsFile) == "" {
		return fmt.Errorf("--results is required")
	}
	if o.Namespace == "" {
		return fmt.Errorf("--namespace is required")
	}
	if o.Repository == "" {
		return fmt.Errorf("--repository is required")
	}
	if o.Token == "" {
		return fmt.Errorf("--token is required")
	}
	if o.WaitTime < 0 {
		return fmt.Errorf("--wait-time must not be negative")
	}
	if o.RateLimitRetries < 0 || o.RateLimitRetries > 10 {
		return fmt.Errorf("--rate-limit-retries must be between 0 and 10")
	}
	switch o.Tracker {
	case config.TrackerGitHub, config.TrackerGitLab:
	default:
		return fmt.Errorf("--tracker must be %q or %q, got %q", config.TrackerGitHub, config.TrackerGitLab, o.Tracker)
	}
	return nil
}
