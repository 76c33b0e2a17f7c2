package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/flaw-importer/cmd/action"
	"github.com/scan-io-git/flaw-importer/cmd/importflaws"
	"github.com/scan-io-git/flaw-importer/cmd/version"
	"github.com/scan-io-git/flaw-importer/pkg/shared/config"
	sharederrors "github.com/scan-io-git/flaw-importer/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "flaw-importer [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Import Veracode scan flaws as GitHub or GitLab issues.",
		Long: `flaw-importer reads Veracode pipeline or policy scan results and opens one issue
per flaw in a GitHub or GitLab project, skipping flaws that were imported by an earlier run.
`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml when present)")
	rootCmd.AddCommand(importflaws.ImportCmd)
	rootCmd.AddCommand(action.ActionCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		var cmdErr *sharederrors.CommandError
		if errors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("initializing config file function is crashed - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	importflaws.Init(AppConfig)
	action.Init(AppConfig)
}
