package release

import (
	"context"
	"fmt"
	"strings"

	"github.com/ariel-frischer/monorel/internal/config"
	"github.com/ariel-frischer/monorel/internal/errors"
	"github.com/ariel-frischer/monorel/internal/gitexec"
	"github.com/ariel-frischer/monorel/internal/history"
	"github.com/ariel-frischer/monorel/internal/pkgs"
	"github.com/ariel-frischer/monorel/internal/tags"
	goversion "github.com/hashicorp/go-version"
)

// bootstrapVersion is the version a package starts at before any release.
const bootstrapVersion = "0.0.0"

// Calculator turns a filtered commit set into a version decision.
type Calculator struct {
	cfg  *config.Configuration
	tags *tags.Reader
}

// NewCalculator creates a Calculator over the given repository.
func NewCalculator(cfg *config.Configuration, git *gitexec.Git) *Calculator {
	return &Calculator{cfg: cfg, tags: tags.NewReader(git)}
}

// Calculate computes the version decision for desc given its current on-disk
// version and the commits relevant to it. An operator override replaces the
// computed bump type outright; overriding to "none" forces ShouldBump false
// regardless of commit content.
//
// Two idempotence guards keep the decision safe to recompute: a target that
// already exists as a tag, and a target equal to the current version, both
// yield ShouldBump false. A manifest version strictly ahead of the latest
// tag is fatal; that state means someone edited the manifest by hand and git
// history can no longer be trusted to describe it.
func (c *Calculator) Calculate(ctx context.Context, desc pkgs.Descriptor, currentVersion string, commits []history.Commit, override BumpType) (Decision, error) {
	decision := Decision{CurrentVersion: currentVersion}

	current, err := goversion.NewSemver(currentVersion)
	if err != nil {
		return decision, errors.NewInputError(
			fmt.Sprintf("package %q has unparseable version %q", desc.Name, currentVersion),
			"Fix the version field in "+desc.ManifestPath,
		)
	}

	latest, hasTag := c.tags.Latest(ctx, desc.TagPrefix)
	if hasTag {
		if latestVersion, err := goversion.NewSemver(latest.Version()); err == nil {
			if current.GreaterThan(latestVersion) {
				return decision, errors.VersionAheadOfTags(desc.Name, currentVersion, latest.Name)
			}
		}
	}

	bump := c.computeBump(desc, commits)

	// First release of a fresh package: bootstrap to 0.1.0 even with no
	// commit history behind it.
	if !hasTag && currentVersion == bootstrapVersion && bump == BumpNone {
		bump = BumpMinor
	}

	if override != "" {
		decision.Reason = fmt.Sprintf("bump %s forced by operator", override)
		bump = override
	}

	decision.BumpType = bump

	if bump == BumpNone {
		decision.TargetVersion = currentVersion
		decision.ShouldBump = false
		if decision.Reason == "" {
			decision.Reason = "no relevant commits in range"
		}
		return decision, nil
	}

	target := increment(current, bump)
	decision.TargetVersion = target

	if c.tags.Exists(ctx, desc.TagPrefix, target) {
		decision.ShouldBump = false
		decision.Reason = fmt.Sprintf("version %s already exists as tag %s%s", target, desc.TagPrefix, target)
		return decision, nil
	}

	if target == currentVersion {
		decision.BumpType = BumpSynced
		decision.ShouldBump = false
		decision.Reason = fmt.Sprintf("version %s already synced", target)
		return decision, nil
	}

	decision.ShouldBump = true
	if decision.Reason == "" {
		decision.Reason = fmt.Sprintf("%s bump from %d commits", bump, len(commits))
	}
	return decision, nil
}

// computeBump applies the bump state machine over the commit set.
func (c *Calculator) computeBump(desc pkgs.Descriptor, commits []history.Commit) BumpType {
	if desc.IsRoot() {
		return c.computeRootBump(commits)
	}

	bump := BumpNone
	for _, commit := range commits {
		for _, msg := range flatten(commit) {
			switch {
			case msg.Message.IsBreaking:
				return BumpMajor
			case msg.Message.Type == "feat":
				bump = BumpMinor
			case bump == BumpNone:
				bump = BumpPatch
			}
		}
	}
	return bump
}

// computeRootBump applies the workspace rules: an app-confined breaking
// change is a workspace minor, not a workspace major; only breaking changes
// touching workspace-level files force a major.
func (c *Calculator) computeRootBump(commits []history.Commit) BumpType {
	bump := BumpNone
	raise := func(to BumpType) {
		if rank(to) > rank(bump) {
			bump = to
		}
	}

	for _, commit := range commits {
		for _, entry := range flatten(commit) {
			msg := entry.Message
			files := entry.Files

			if msg.IsBreaking {
				if touchesWorkspaceFiles(files) {
					return BumpMajor
				}
				// Breaking change confined to one application.
				raise(BumpMinor)
				continue
			}

			switch msg.Type {
			case "feat", "fix", "refactor":
				if touchesWorkspaceFiles(files) {
					raise(BumpMinor)
					continue
				}
			}

			if c.touchesInternalPackage(files) {
				raise(BumpPatch)
			}
		}
	}
	return bump
}

// flatten yields a commit plus its reconstructed PR commits, so a breaking
// change buried inside a merged PR still drives the bump.
func flatten(commit history.Commit) []history.Commit {
	entries := []history.Commit{commit}
	if commit.PR != nil {
		entries = append(entries, commit.PR.Commits...)
	}
	return entries
}

// touchesWorkspaceFiles reports whether any file governs the whole
// repository: dotfiles and dot-directories, or any root-level file (the root
// manifest and build/orchestration configuration all live there).
func touchesWorkspaceFiles(files []string) bool {
	for _, file := range files {
		if strings.HasPrefix(file, ".") || !strings.Contains(file, "/") {
			return true
		}
	}
	return false
}

// touchesInternalPackage reports whether any file lives under the apps or
// libs directories.
func (c *Calculator) touchesInternalPackage(files []string) bool {
	appsPrefix := c.cfg.AppsDir + "/"
	libsPrefix := c.cfg.LibsDir + "/"
	for _, file := range files {
		if strings.HasPrefix(file, appsPrefix) || strings.HasPrefix(file, libsPrefix) {
			return true
		}
	}
	return false
}

// rank orders bump types for the root state machine.
func rank(b BumpType) int {
	switch b {
	case BumpMajor:
		return 3
	case BumpMinor:
		return 2
	case BumpPatch:
		return 1
	default:
		return 0
	}
}

// increment bumps the appropriate semver component and zeroes the lower ones.
func increment(v *goversion.Version, bump BumpType) string {
	segments := v.Segments()
	major, minor, patch := segments[0], segments[1], segments[2]

	switch bump {
	case BumpMajor:
		return fmt.Sprintf("%d.0.0", major+1)
	case BumpMinor:
		return fmt.Sprintf("%d.%d.0", major, minor+1)
	case BumpPatch:
		return fmt.Sprintf("%d.%d.%d", major, minor, patch+1)
	default:
		return v.String()
	}
}
