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
	"github.com/ariel-frischer/monorel/internal/tags"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	bumpFromFlag  string
	bumpToFlag    string
	bumpTypeFlag  string
	bumpApplyFlag bool
	bumpPushFlag  bool
)

var bumpCmd = &cobra.Command{
	Use:   "bump <package>",
	Short: "Decide (and optionally apply) a version bump for a package",
	Long: `Analyze the commits relevant to a package since its last release and
decide the semantic version bump. Without --apply the command only
prints the decision.

With --apply the new version is written to the package manifest, the
package changelog gains an entry for the release, the changes are
committed, and an annotated tag is created on the release commit.`,
	Example: `  monorel bump api --from api-v0.1.0 --to HEAD
  monorel bump api                       # since the latest api-v tag
  monorel bump root --type major         # operator override
  monorel bump api --apply --push`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBump(cmd, args[0])
	},
}

func init() {
	bumpCmd.GroupID = GroupRelease
	rootCmd.AddCommand(bumpCmd)

	bumpCmd.Flags().StringVar(&bumpFromFlag, "from", "", "Start of the revision range (default: latest tag of the package's series)")
	bumpCmd.Flags().StringVar(&bumpToFlag, "to", "HEAD", "End of the revision range")
	bumpCmd.Flags().StringVar(&bumpTypeFlag, "type", "", "Override the computed bump type (major|minor|patch|none)")
	bumpCmd.Flags().BoolVar(&bumpApplyFlag, "apply", false, "Write manifest, changelog, commit, and tag")
	bumpCmd.Flags().BoolVar(&bumpPushFlag, "push", false, "Push the release commit and tag after --apply")
}

func runBump(cmd *cobra.Command, pkgName string) error {
	override, err := parseOverride(bumpTypeFlag)
	if err != nil {
		return err
	}

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

	commits, err := resolveBumpRange(cmd, env, desc)
	if err != nil {
		return err
	}

	decision, err := release.NewCalculator(env.cfg, env.git).
		Calculate(ctx, desc, manifest.Version, commits, override)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	output.PrintHeader(out, desc.Name, fmt.Sprintf("%d relevant commits", len(commits)))
	printDecision(cmd, desc, decision)

	if !decision.ShouldBump || !bumpApplyFlag {
		return nil
	}
	return applyBump(cmd, env, desc, commits, decision)
}

// resolveBumpRange resolves the commit range, defaulting the lower bound
// to the package's latest tag. A package with no tag series yet has no
// history to scan; the calculator's bootstrap rule handles it.
func resolveBumpRange(cmd *cobra.Command, env *appEnv, desc pkgs.Descriptor) ([]history.Commit, error) {
	from := bumpFromFlag
	if from == "" {
		latest, ok := tags.NewReader(env.git).Latest(cmd.Context(), desc.TagPrefix)
		if !ok {
			return nil, nil
		}
		from = latest.Name
	}

	spin := progress.NewSpinner(fmt.Sprintf("Scanning %s..%s for %s", from, bumpToFlag, desc.Name))
	spin.Start()
	commits, err := history.NewResolver(env.cfg, env.git).
		ResolveRange(cmd.Context(), desc, from, bumpToFlag)
	if err != nil {
		spin.StopWith(false, "scan failed")
		return nil, err
	}
	spin.StopWith(true, fmt.Sprintf("scanned %s..%s", from, bumpToFlag))
	return commits, nil
}

func parseOverride(value string) (release.BumpType, error) {
	if value == "" {
		return "", nil
	}
	if !release.ValidOverride(value) {
		return "", errors.NewArgumentError(
			fmt.Sprintf("invalid bump type %q", value),
			"Use one of: major, minor, patch, none",
		)
	}
	return release.BumpType(value), nil
}

func printDecision(cmd *cobra.Command, desc pkgs.Descriptor, decision release.Decision) {
	out := cmd.OutOrStdout()
	if !decision.ShouldBump {
		output.PrintNoOp(out, fmt.Sprintf("%s stays at %s (%s)",
			desc.Name, decision.CurrentVersion, decision.Reason))
		return
	}
	fmt.Fprintf(out, "%s %s: %s -> %s (%s)\n",
		color.GreenString(string(decision.BumpType)),
		desc.Name, decision.CurrentVersion, decision.TargetVersion, decision.Reason)
}

// applyBump performs the single-shot release side effects: manifest
// write, changelog merge, release commit, annotated tag, optional push.
// All analysis is complete before the first write.
func applyBump(cmd *cobra.Command, env *appEnv, desc pkgs.Descriptor, commits []history.Commit, decision release.Decision) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	tagName := desc.TagPrefix + decision.TargetVersion

	output.PrintSeparator(out, "release")

	if env.git.TagExists(ctx, tagName) {
		return errors.TagAlreadyExists(tagName)
	}

	if err := pkgs.WriteManifestVersion(env.abs(desc.ManifestPath), decision.TargetVersion); err != nil {
		return errors.WrapWithMessage(err, errors.Runtime,
			fmt.Sprintf("writing version to %s", desc.ManifestPath))
	}

	existing, _ := os.ReadFile(env.abs(desc.ChangelogPath))
	merged := changelog.BuildMerged(desc.Name, commits, decision, string(existing))
	if err := os.WriteFile(env.abs(desc.ChangelogPath), []byte(merged), 0o644); err != nil {
		return errors.WrapWithMessage(err, errors.Runtime,
			fmt.Sprintf("writing %s", desc.ChangelogPath))
	}

	releaseMsg := fmt.Sprintf("chore(release): %s %s", desc.Name, decision.TargetVersion)
	if !env.git.Commit(ctx, releaseMsg, desc.ManifestPath, desc.ChangelogPath) {
		return errors.NewRuntimeError(
			"creating the release commit failed",
			"Check git status for conflicting staged changes",
		)
	}
	if !env.git.CreateTag(ctx, tagName, releaseMsg) {
		return errors.TagAlreadyExists(tagName)
	}
	output.PrintSuccess(out, fmt.Sprintf("released %s %s (tag %s)",
		desc.Name, decision.TargetVersion, tagName))

	if bumpPushFlag || env.cfg.Push {
		if !env.git.Push(ctx) || !env.git.PushTag(ctx, tagName) {
			return errors.NewRuntimeError(
				"pushing the release failed; the local commit and tag were created",
				"Push manually: git push && git push origin "+tagName,
			)
		}
		output.PrintSuccess(out, "pushed release commit and tag")
	}
	return nil
}
