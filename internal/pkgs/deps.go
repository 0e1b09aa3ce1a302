package pkgs

import (
	"context"
	"sort"
	"strings"

	"github.com/ariel-frischer/monorel/internal/config"
	"github.com/ariel-frischer/monorel/internal/gitexec"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for package analysis.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Analyzer resolves a package's monorepo-internal dependencies as of a given
// git reference. It reads manifest and build configuration content through
// git, never from the working tree, so historical commits report the
// dependency graph as it existed at that point.
//
// An Analyzer memoizes per (package, ref) within its own lifetime and must
// not be shared mutably across concurrent package analyses.
type Analyzer struct {
	cfg  *config.Configuration
	git  *gitexec.Git
	memo map[string][]string
}

// NewAnalyzer creates an Analyzer over the given repository.
func NewAnalyzer(cfg *config.Configuration, git *gitexec.Git) *Analyzer {
	return &Analyzer{cfg: cfg, git: git, memo: make(map[string][]string)}
}

// InternalDeps returns the internal dependency package names of desc at ref,
// sorted for determinism. Missing manifests, unreadable refs and parse errors
// all degrade to an empty list: a package without a readable manifest simply
// has no resolvable dependencies.
func (a *Analyzer) InternalDeps(ctx context.Context, desc Descriptor, ref string) []string {
	key := desc.Name + "@" + ref
	if deps, ok := a.memo[key]; ok {
		return deps
	}

	seen := make(map[string]bool)
	var deps []string

	content, ok := a.git.FileAtRef(ctx, ref, desc.ManifestPath)
	if ok {
		if manifest, err := ParseManifest([]byte(content)); err == nil {
			for _, name := range manifest.AllDependencyNames() {
				if a.isInternal(name) && !seen[name] {
					seen[name] = true
					deps = append(deps, name)
				}
			}
		} else {
			logDebug("[pkgs] unparseable manifest %s at %s: %v", desc.ManifestPath, ref, err)
		}
	}

	// Packages may reference internal code through build-path aliases
	// without declaring a dependency.
	for _, name := range aliasedPackages(ctx, a.git, ref, desc.Path, a.cfg.Namespace) {
		if name != desc.Name && !seen[name] {
			seen[name] = true
			deps = append(deps, name)
		}
	}

	sort.Strings(deps)
	a.memo[key] = deps
	return deps
}

// DepPaths maps the internal dependencies of desc at ref to their
// repository-relative paths.
func (a *Analyzer) DepPaths(ctx context.Context, desc Descriptor, ref string) []string {
	var paths []string
	for _, dep := range a.InternalDeps(ctx, desc, ref) {
		paths = append(paths, PackagePath(a.cfg, dep))
	}
	return paths
}

// isInternal reports whether a dependency name belongs to the monorepo's
// internal namespace.
func (a *Analyzer) isInternal(name string) bool {
	return strings.HasPrefix(name, a.cfg.Namespace+"/")
}
