package importflaws

import (
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/flaw-importer/internal/ci"
	"github.com/scan-io-git/flaw-importer/internal/git"
	"github.com/scan-io-git/flaw-importer/internal/importer"
	"github.com/scan-io-git/flaw-importer/pkg/shared"
	"github.com/scan-io-git/flaw-importer/pkg/shared/config"
	"github.com/scan-io-git/flaw-importer/pkg/shared/files"
)

// ApplyURL fills namespace, repository and tracker from --url.
func ApplyURL(opts *RunOptions) error {
	if strings.TrimSpace(opts.URL) == "" {
		return nil
	}
	parsed, err := git.ParseRepositoryURL(opts.URL)
	if err != nil {
		return err
	}

	if opts.Namespace == "" {
		opts.Namespace = parsed.Namespace
	}
	if opts.Repository == "" {
		opts.Repository = parsed.Repository
	}
	applyHost(opts, parsed.Host)
	return nil
}

// applyHost derives the tracker kind and, for self-hosted servers, the base URL.
func applyHost(opts *RunOptions, host string) {
	kind := ci.KindFromHost(host)
	if opts.Tracker == "" && kind != ci.CIUnknown {
		opts.Tracker = kind.String()
	}
	if opts.TrackerURL == "" && kind != ci.CIUnknown && host != "github.com" && host != "gitlab.com" {
		opts.TrackerURL = "https://" + host
	}
}

// ApplyEnvironmentFallbacks fills unset options from the legacy GITHUB_OWNER
// and GITHUB_REPO variables, then from the CI environment.
func ApplyEnvironmentFallbacks(opts *RunOptions, logger hclog.Logger) {
	res := ci.ResolveFromEnvironment(logger, opts.Tracker)
	if opts.Tracker == "" && res.Kind != ci.CIUnknown {
		opts.Tracker = res.Kind.String()
	}
	if opts.TrackerURL == "" {
		opts.TrackerURL = res.ServerURL
	}

	if opts.Tracker != config.TrackerGitLab {
		if opts.Namespace == "" {
			opts.Namespace = shared.FirstEnv("GITHUB_OWNER")
		}
		if opts.Repository == "" {
			opts.Repository = shared.FirstEnv("GITHUB_REPO")
		}
	}
	if opts.Namespace == "" {
		opts.Namespace = res.Namespace
	}
	if opts.Repository == "" {
		opts.Repository = res.Repository
	}
	if opts.Token == "" {
		opts.Token = res.Token
	}
}

// ApplyGitMetadataFallbacks reads namespace and repository from the origin
// remote of the repository around the working directory.
func ApplyGitMetadataFallbacks(opts *RunOptions, logger hclog.Logger) {
	if opts.Namespace != "" && opts.Repository != "" {
		return
	}
	cwd, err := os.Getwd()
	if err != nil {
		logger.Debug("failed to get current working directory for git metadata extraction", "error", err)
		return
	}
	applyGitMetadataFrom(opts, cwd, logger)
}

func applyGitMetadataFrom(opts *RunOptions, baseFolder string, logger hclog.Logger) {
	md, err := git.CollectRepositoryMetadata(baseFolder)
	if err != nil {
		logger.Debug("unable to collect git repository metadata", "error", err, "baseFolder", baseFolder)
		return
	}

	if opts.Namespace == "" && md.Namespace != "" {
		opts.Namespace = md.Namespace
		logger.Debug("auto-detected namespace from git metadata", "namespace", md.Namespace)
	}
	if opts.Repository == "" && md.Repository != "" {
		opts.Repository = md.Repository
		logger.Debug("auto-detected repository from git metadata", "repository", md.Repository)
	}
	applyHost(opts, md.Host)
}

// ApplyConfigDefaults applies config file values to options that neither a
// flag nor the environment set. changed reports whether a flag was given.
func ApplyConfigDefaults(opts *RunOptions, cfg *config.Config, changed func(string) bool) {
	if opts.Tracker == "" {
		opts.Tracker = config.GetTrackerKind(cfg)
	}
	opts.Tracker = strings.ToLower(strings.TrimSpace(opts.Tracker))
	if cfg == nil {
		return
	}

	if opts.TrackerURL == "" {
		opts.TrackerURL = cfg.Tracker.BaseURL
	}
	if !changed("wait-time") && cfg.Importer.WaitTime > 0 {
		opts.WaitTime = int(cfg.Importer.WaitTime / time.Second)
	}
	if !changed("rate-limit-retries") && cfg.Importer.RateLimitRetries > 0 {
		opts.RateLimitRetries = cfg.Importer.RateLimitRetries
	}
}

// ApplyTokenFallback reads the token variable of the selected tracker.
func ApplyTokenFallback(opts *RunOptions) {
	if opts.Token != "" {
		return
	}
	if opts.Tracker == config.TrackerGitLab {
		opts.Token = shared.FirstEnv("GITLAB_TOKEN")
		return
	}
	opts.Token = shared.FirstEnv("GITHUB_TOKEN")
}

func (o RunOptions) importerOptions(cfg *config.Config) importer.Options {
	results := o.ResultsFile
	if expanded, err := files.ExpandPath(results); err == nil {
		results = expanded
	}
	out := importer.Options{
		ResultsFile:      results,
		Namespace:        o.Namespace,
		Repository:       o.Repository,
		Token:            o.Token,
		WaitTime:         time.Duration(o.WaitTime) * time.Second,
		RateLimitRetries: o.RateLimitRetries,
	}
	if cfg != nil {
		out.RateLimitBackoff = cfg.Importer.RateLimitBackoff
	}
	return out
}
