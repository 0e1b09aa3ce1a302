// Package pkgs maps logical package names to their filesystem layout and
// resolves their monorepo-internal dependencies at arbitrary git references.
package pkgs

import (
	"path"
	"strings"

	"github.com/ariel-frischer/monorel/internal/config"
)

// RootPackage is the logical name of the workspace root package.
const RootPackage = "root"

// manifestFile is the package manifest filename.
const manifestFile = "package.json"

// Descriptor identifies a package and its repository layout.
type Descriptor struct {
	// Name is the logical package name ("root", "api", "@app/shared").
	Name string
	// Path is the repository-relative package directory ("." for root).
	Path string
	// ManifestPath is the repository-relative manifest location.
	ManifestPath string
	// TagPrefix is the tag-series prefix ("v" for root, "<name>-v" otherwise).
	TagPrefix string
	// ChangelogPath is the repository-relative changelog location.
	ChangelogPath string
}

// IsRoot reports whether this descriptor is the workspace root package.
func (d Descriptor) IsRoot() bool {
	return d.Name == RootPackage
}

// Resolve maps a package name to its descriptor. Pure, no I/O.
//
// Layout convention: the root package lives at the repository root,
// namespaced packages ("@scope/name") live under the libs directory,
// and everything else is an application under the apps directory.
func Resolve(cfg *config.Configuration, name string) Descriptor {
	d := Descriptor{Name: name, Path: PackagePath(cfg, name), TagPrefix: TagPrefix(name)}
	d.ManifestPath = path.Join(d.Path, manifestFile)
	d.ChangelogPath = path.Join(d.Path, cfg.ChangelogFile)
	if d.Path == "." {
		d.ManifestPath = manifestFile
		d.ChangelogPath = cfg.ChangelogFile
	}
	return d
}

// PackagePath maps a package name to its repository-relative directory.
func PackagePath(cfg *config.Configuration, name string) string {
	switch {
	case name == RootPackage:
		return "."
	case strings.HasPrefix(name, "@"):
		return path.Join(cfg.LibsDir, shortName(name))
	default:
		return path.Join(cfg.AppsDir, name)
	}
}

// TagPrefix maps a package name to its tag-series prefix.
// The root package owns the bare "v" series; every other package gets an
// independent "<name>-v" series.
func TagPrefix(name string) string {
	if name == RootPackage {
		return "v"
	}
	return shortName(name) + "-v"
}

// shortName strips the namespace scope from a package name.
// "@app/shared" becomes "shared"; unscoped names pass through.
func shortName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
