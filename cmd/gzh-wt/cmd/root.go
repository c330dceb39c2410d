// Package cmd implements the CLI commands for gzh-wt.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gizzahub/gzh-wt/pkg/cliutil"
)

var (
	// appVersion is set by main.go.
	appVersion string

	// internalMode gates the shell-integration directive protocol: only
	// when a wrapper shell invoked us with --internal do we write to the
	// directive file instead of just printing normally. Without it, a
	// human running gzh-wt directly at a terminal only ever sees plain
	// stdout/stderr, even if GZH_WT_DIRECTIVE_FILE happens to be set in
	// the environment for some unrelated reason.
	internalMode bool
	verbose      bool
	jobsFlag     int
)

// rootCmd is the base command when gzh-wt is invoked with no subcommand.
var rootCmd = &cobra.Command{
	Use:   "gzh-wt",
	Short: "Git worktree orchestrator: fast branch switching via worktrees",
	Long: cliutil.StripIndent(`gzh-wt manages one Git worktree per branch so "switching branches" never
means stashing or losing uncommitted work: every branch gets its own working
directory, and gzh-wt creates, lists, and tears them down on demand.

`) + "\n\n" + cliutil.QuickStartHelp(`  gzh-wt switch --create feature/foo   # create or jump to a worktree
  gzh-wt list --full                   # rich status for every worktree
  gzh-wt remove feature/foo            # tear one down`),
	Version: appVersion,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	// Accept underscore spellings ("--no_ci") as aliases for the canonical
	// hyphenated flag names.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().BoolVar(&internalMode, "internal", false, "emit shell-integration directives instead of plain output (set by the shell wrapper)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&jobsFlag, "jobs", 0, "status-collector worker pool size (default: min(NumCPU, 4), overridable via config or W_MAX_CONCURRENT_REPOS)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statuslineCmd)
}

// Execute runs the root command, exiting the process with a non-zero
// status on error.
func Execute(version string) {
	appVersion = version
	rootCmd.Version = version

	cobra.OnInitialize(func() {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Logger.Level(level)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
