package importflaws

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/flaw-importer/internal/importer"
	"github.com/scan-io-git/flaw-importer/internal/tracker"
	"github.com/scan-io-git/flaw-importer/pkg/shared"
	"github.com/scan-io-git/flaw-importer/pkg/shared/artifacts"
	"github.com/scan-io-git/flaw-importer/pkg/shared/config"
	"github.com/scan-io-git/flaw-importer/pkg/shared/errors"
	"github.com/scan-io-git/flaw-importer/pkg/shared/httpclient"
	"github.com/scan-io-git/flaw-importer/pkg/shared/logger"
)

// DefaultResultsFile is the file name the Veracode pipeline scanner writes filtered results to.
const DefaultResultsFile = "filtered_results.json"

// RunOptions holds flags for the import command.
type RunOptions struct {
	ResultsFile      string `json:"results_file,omitempty"`
	Namespace        string `json:"namespace,omitempty"`
	Repository       string `json:"repository,omitempty"`
	URL              string `json:"url,omitempty"`
	Token            string `json:"-"`
	WaitTime         int    `json:"wait_time,omitempty"`
	Tracker          string `json:"tracker,omitempty"`
	TrackerURL       string `json:"tracker_url,omitempty"`
	RateLimitRetries int    `json:"rate_limit_retries,omitempty"`
	Output           string `json:"output,omitempty"`
}

var (
	AppConfig *config.Config
	opts      RunOptions

	exampleImportUsage = `  # Import a pipeline scan into a GitHub repository
  flaw-importer import --results filtered_results.json --namespace octo --repository app --token $GITHUB_TOKEN

  # Run inside a git checkout (namespace and repository come from the origin remote)
  GITHUB_TOKEN=... flaw-importer import --results results.json

  # Import a policy scan into GitLab, waiting 2 seconds after each created issue
  flaw-importer import --results policy.json --url https://gitlab.com/group/app --tracker gitlab --wait-time 2

  # GitHub Enterprise with rate-limit retries
  flaw-importer import --results results.json --url https://ghe.example.com/team/svc --tracker-url https://ghe.example.com --rate-limit-retries 3

  # Save a JSON run report into a folder
  flaw-importer import --results results.json --output ./reports`

	// ImportCmd represents the command that creates issues from a Veracode results file.
	ImportCmd = &cobra.Command{
		Use:                   "import [--results PATH] [--namespace NAMESPACE] [--repository REPO] [--url URL] [--token TOKEN] [--wait-time SECONDS] [--tracker github|gitlab] [--tracker-url URL] [--rate-limit-retries N] [--output PATH]",
		Short:                 "Create issues for Veracode flaws that are not tracked yet",
		Example:               exampleImportUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runImport,
	}
)

// Init wires config into this command.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runImport(cmd *cobra.Command, args []string) error {
	// 1. Check for help request: no flags and nothing to import in the working directory
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		if _, err := os.Stat(DefaultResultsFile); err != nil {
			return cmd.Help()
		}
	}

	lg := logger.NewLogger(AppConfig, "import").With("run_id", uuid.NewString())

	if err := ApplyURL(&opts); err != nil {
		lg.Error("invalid arguments", "error", err)
		return errors.NewCommandError(opts, nil, fmt.Errorf("invalid arguments: %w", err), 1)
	}
	ApplyEnvironmentFallbacks(&opts, lg)
	ApplyGitMetadataFallbacks(&opts, lg)
	ApplyConfigDefaults(&opts, AppConfig, cmd.Flags().Changed)
	ApplyTokenFallback(&opts)

	if err := validate(&opts); err != nil {
		lg.Error("invalid arguments", "error", err)
		return errors.NewCommandError(opts, nil, fmt.Errorf("invalid arguments: %w", err), 1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := Run(ctx, AppConfig, opts, lg)
	if opts.Output != "" {
		if _, saveErr := artifacts.SaveArtifactJSON(lg, opts.Output, "import", opts.Tracker, artifacts.NewResult(opts, summary, err)); saveErr != nil {
			lg.Warn("failed to save report", "error", saveErr)
		}
	}
	if err != nil {
		lg.Error("import failed", "error", err, "kind", errors.KindOf(err).String())
		return errors.NewCommandError(opts, summary, err, errors.ExitCode(err))
	}

	fmt.Printf("Done. %d flaws processed.\n", summary.Processed)
	return nil
}

// Run builds the tracker client for o and imports the results file.
func Run(ctx context.Context, cfg *config.Config, o RunOptions, lg hclog.Logger) (importer.Summary, error) {
	httpClient := httpclient.NewHTTPClient(lg, cfg)

	tr, err := tracker.New(o.Tracker, httpClient, o.TrackerURL, o.Token, o.Namespace, o.Repository)
	if err != nil {
		return importer.Summary{}, errors.Wrap(errors.KindConfiguration, 0, err, "failed to create %s client", o.Tracker)
	}

	lg.Info("importing flaws", "tracker", o.Tracker, "namespace", o.Namespace, "repository", o.Repository,
		"results", o.ResultsFile)
	return importer.New(tr, lg).Import(ctx, o.importerOptions(cfg))
}

func init() {
	ImportCmd.Flags().StringVar(&opts.ResultsFile, "results", DefaultResultsFile, "Path to the Veracode pipeline or policy scan results JSON file")
	ImportCmd.Flags().StringVar(&opts.Namespace, "namespace", "", "Repository owner or group (defaults to $GITHUB_OWNER, $GITHUB_REPOSITORY_OWNER or the git origin)")
	ImportCmd.Flags().StringVar(&opts.Repository, "repository", "", "Repository name (defaults to $GITHUB_REPO, ${GITHUB_REPOSITORY#*/} or the git origin)")
	ImportCmd.Flags().StringVar(&opts.URL, "url", "", "Repository URL to derive namespace, repository and tracker from")
	ImportCmd.Flags().StringVar(&opts.Token, "token", "", "API token (defaults to $GITHUB_TOKEN or $GITLAB_TOKEN)")
	ImportCmd.Flags().IntVar(&opts.WaitTime, "wait-time", 0, "Seconds to wait after each created issue")
	ImportCmd.Flags().StringVar(&opts.Tracker, "tracker", "", "Issue tracker: github or gitlab (defaults to the CI environment or config)")
	ImportCmd.Flags().StringVar(&opts.TrackerURL, "tracker-url", "", "Base URL of a GitHub Enterprise or self-hosted GitLab server")
	ImportCmd.Flags().IntVar(&opts.RateLimitRetries, "rate-limit-retries", 0, "Retries for an issue rejected by rate limiting (0 aborts the run)")
	ImportCmd.Flags().StringVarP(&opts.Output, "output", "o", "", "File or folder to write a JSON run report to")
	ImportCmd.Flags().BoolP("help", "h", false, "Show help for import command.")
}
