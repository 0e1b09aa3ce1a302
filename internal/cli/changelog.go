package cli

import (
	"fmt"
	"os"

	"github.com/ariel-frischer/monorel/internal/changelog"
	"github.com/ariel-frischer/monorel/internal/errors"
	"github.com/ariel-frischer/monorel/internal/history"
	"github.com/ariel-frischer/monorel/internal/output"
	"github.com/ariel-frischer/monorel/internal/pkgs"
	"github.com/ariel-frischer/monorel/internal/progress"
	"github.com/ariel-frischer/monorel/internal/release"
	"github.com/spf13/cobra"
)

var (
	changelogFromFlag  string
	changelogToFlag    string
	changelogWriteFlag bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog <package>",
	Short: "Preview or update a package's changelog from git history",
	Long: `Build a changelog entry from the commits relevant to a package and
merge it into the package's existing changelog. Without a pending
version bump the commits land under the "Unreleased" heading.

By default the merged changelog is printed; --write updates the file in
place. Published entries are never rewritten.`,
	Example: `  monorel changelog api --from api-v0.1.0 --to HEAD
  monorel changelog root --from v1.2.0 --write`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelog(cmd, args[0])
	},
}

func init() {
	changelogCmd.GroupID = GroupRelease
	rootCmd.AddCommand(changelogCmd)

	changelogCmd.Flags().StringVar(&changelogFromFlag, "from", "", "Start of the revision range (exclusive)")
	changelogCmd.Flags().StringVar(&changelogToFlag, "to", "HEAD", "End of the revision range (inclusive)")
	changelogCmd.Flags().BoolVar(&changelogWriteFlag, "write", false, "Write the merged changelog back to the file")
	_ = changelogCmd.MarkFlagRequired("from")
}

func runChangelog(cmd *cobra.Command, pkgName string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	desc := env.descriptor(pkgName)
	ctx := cmd.Context()

	manifest, err := pkgs.LoadManifest(env.abs(desc.ManifestPath))
	if err != nil {
		return errors.PackageNotVersionable(desc.Name, desc.ManifestPath)
	}

	spin := progress.NewSpinner(fmt.Sprintf("Scanning %s..%s for %s", changelogFromFlag, changelogToFlag, desc.Name))
	spin.Start()
	commits, err := history.NewResolver(env.cfg, env.git).
		ResolveRange(ctx, desc, changelogFromFlag, changelogToFlag)
	spin.Stop()
	if err != nil {
		return err
	}

	decision, err := release.NewCalculator(env.cfg, env.git).
		Calculate(ctx, desc, manifest.Version, commits, "")
	if err != nil {
		return err
	}

	existing, _ := os.ReadFile(env.abs(desc.ChangelogPath))
	merged := changelog.BuildMerged(desc.Name, commits, decision, string(existing))

	if !changelogWriteFlag {
		fmt.Fprint(cmd.OutOrStdout(), merged)
		return nil
	}

	if err := os.WriteFile(env.abs(desc.ChangelogPath), []byte(merged), 0o644); err != nil {
		return errors.WrapWithMessage(err, errors.Runtime,
			fmt.Sprintf("writing %s", desc.ChangelogPath))
	}
	output.PrintSuccess(cmd.OutOrStdout(), "updated "+desc.ChangelogPath)
	return nil
}
