// Package cli wires the monorel commands. Each command file registers
// itself on the root command in its init function.
package cli

import (
	"log"

	"github.com/ariel-frischer/monorel/internal/errors"
	"github.com/ariel-frischer/monorel/internal/gitexec"
	"github.com/ariel-frischer/monorel/internal/history"
	"github.com/ariel-frischer/monorel/internal/pkgs"
	"github.com/ariel-frischer/monorel/internal/repo"
	"github.com/spf13/cobra"
)

// Command group IDs for help output.
const (
	GroupAnalysis   = "analysis"
	GroupRelease    = "release"
	GroupInspection = "inspection"
)

var (
	configFlag string
	repoFlag   string
	debugFlag  bool
	plainFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "monorel",
	Short: "Release automation for package-based monorepos",
	Long: `monorel analyzes git history per package in a monorepo, decides
semantic version bumps from conventional commits, and maintains
per-package changelogs and tag series.

Commit relevance is package-aware: a commit counts for a package when it
touches the package's own directory or the directory of an internal
dependency as resolved at that commit.`,
	Example: `  monorel analyze @app/shared --from api-v0.1.0 --to HEAD
  monorel bump api --from api-v0.1.0 --to HEAD
  monorel bump api --from api-v0.1.0 --to HEAD --apply
  monorel changelog root --from v1.2.0 --to HEAD
  monorel tags api
  monorel packages`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			enableDebugLogging()
		}
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupAnalysis, Title: "Analysis Commands:"},
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupInspection, Title: "Inspection Commands:"},
	)

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (default .monorel/config.yml)")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "", "Repository directory (default: discovered from cwd)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&plainFlag, "plain", false, "Plain output (no colors)")
}

// Execute runs the CLI. Categorized errors are printed with remediation
// hints; the returned error signals a non-zero exit to main.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	if cliErr := errors.AsCLIError(err); cliErr != nil {
		errors.PrintError(cliErr)
	} else {
		errors.PrintError(errors.Wrap(err, errors.Runtime))
	}
	return err
}

// enableDebugLogging routes package debug hooks to stderr.
func enableDebugLogging() {
	logger := log.Printf
	gitexec.SetDebugLogger(logger)
	history.SetDebugLogger(logger)
	pkgs.SetDebugLogger(logger)
	repo.SetDebugLogger(logger)
}
