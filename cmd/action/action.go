// Package action is the GitHub Action entry point. Inputs arrive as
// INPUT_<NAME> environment variables and failures are reported as
// workflow error annotations.
package action

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/flaw-importer/cmd/importflaws"
	"github.com/scan-io-git/flaw-importer/pkg/shared/config"
	"github.com/scan-io-git/flaw-importer/pkg/shared/errors"
	"github.com/scan-io-git/flaw-importer/pkg/shared/logger"
)

const (
	inputResults  = "INPUT_PIPELINE-RESULTS-JSON"
	inputToken    = "INPUT_GITHUB-TOKEN"
	inputWaitTime = "INPUT_WAIT-TIME"
)

var (
	AppConfig *config.Config

	// ActionCmd runs an import configured entirely from the GitHub Actions environment.
	ActionCmd = &cobra.Command{
		Use:                   "action",
		Short:                 "Run as a GitHub Action using INPUT_* variables",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		RunE:                  runAction,
	}
)

// Init wires config into this command.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runAction(cmd *cobra.Command, args []string) error {
	lg := logger.NewLogger(AppConfig, "action").With("run_id", uuid.NewString())

	opts, err := readInputs(os.Getenv)
	if err != nil {
		fmt.Printf("::error::%s\n", err)
		return errors.NewCommandError(opts, nil, err, 1)
	}
	if AppConfig != nil {
		opts.TrackerURL = config.SetThen(serverURL(os.Getenv), AppConfig.Tracker.BaseURL)
	} else {
		opts.TrackerURL = serverURL(os.Getenv)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := importflaws.Run(ctx, AppConfig, opts, lg)
	if err != nil {
		fmt.Printf("::error::%s\n", err)
		return errors.NewCommandError(opts, summary, err, errors.ExitCode(err))
	}

	fmt.Printf("Done. %d flaws processed.\n", summary.Processed)
	return nil
}

// readInputs maps action inputs and GITHUB_REPOSITORY to run options.
func readInputs(lookup func(string) string) (importflaws.RunOptions, error) {
	opts := importflaws.RunOptions{
		ResultsFile: strings.TrimSpace(lookup(inputResults)),
		Token:       strings.TrimSpace(lookup(inputToken)),
		Tracker:     config.TrackerGitHub,
	}

	if opts.ResultsFile == "" {
		return opts, errors.New(errors.KindConfiguration, "input pipeline-results-json is required")
	}
	if opts.Token == "" {
		return opts, errors.New(errors.KindConfiguration, "input github-token is required")
	}

	if raw := strings.TrimSpace(lookup(inputWaitTime)); raw != "" {
		wait, err := strconv.Atoi(raw)
		if err != nil || wait < 0 {
			return opts, errors.New(errors.KindConfiguration, "input wait-time must be a non-negative number of seconds, got %q", raw)
		}
		opts.WaitTime = wait
	}

	fullName := strings.TrimSpace(lookup("GITHUB_REPOSITORY"))
	i := strings.Index(fullName, "/")
	if i <= 0 || i == len(fullName)-1 {
		return opts, errors.New(errors.KindConfiguration, "GITHUB_REPOSITORY must be owner/repo, got %q", fullName)
	}
	opts.Namespace = fullName[:i]
	opts.Repository = fullName[i+1:]
	return opts, nil
}

// serverURL returns GITHUB_SERVER_URL for GitHub Enterprise runners.
func serverURL(lookup func(string) string) string {
	u := strings.TrimSuffix(strings.TrimSpace(lookup("GITHUB_SERVER_URL")), "/")
	if u == "" || u == "https://github.com" {
		return ""
	}
	return u
}
