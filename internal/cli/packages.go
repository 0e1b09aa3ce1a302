package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ariel-frischer/monorel/internal/compose"
	"github.com/ariel-frischer/monorel/internal/output"
	"github.com/ariel-frischer/monorel/internal/pkgs"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List the packages discovered in the monorepo",
	Long: `Discover the versionable packages of the monorepo: every directory
under the apps and libs directories that carries a package manifest,
plus the workspace root itself. Services built locally by the compose
file are marked as deployable.`,
	Example:      `  monorel packages`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runPackages,
}

func init() {
	packagesCmd.GroupID = GroupInspection
	rootCmd.AddCommand(packagesCmd)
}

// discoveredPackage is one row of the packages listing.
type discoveredPackage struct {
	Descriptor pkgs.Descriptor
	Version    string
	Deployable bool
}

func runPackages(cmd *cobra.Command, _ []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	deployable := make(map[string]bool)
	if env.cfg.ComposeFile != "" {
		composePath := env.abs(env.cfg.ComposeFile)
		if _, err := os.Stat(composePath); err != nil {
			output.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf(
				"compose file %s not found; deployable detection disabled", env.cfg.ComposeFile))
		}
		for _, svc := range compose.Load(composePath) {
			deployable[svc.BuildContext] = true
		}
	}

	discovered := discoverPackages(env)
	output.PrintHeader(out, "packages", fmt.Sprintf("%d found", len(discovered)))
	for _, pkg := range discovered {
		line := fmt.Sprintf("%-24s %-12s %s", pkg.Descriptor.Name, pkg.Version, pkg.Descriptor.Path)
		if deployable[pkg.Descriptor.Path] {
			line += "  " + color.GreenString("deployable")
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// discoverPackages walks the apps and libs directories for manifests.
// The workspace root is always first; app and lib packages follow sorted
// by name. Unreadable manifests surface with an empty version rather
// than failing the listing.
func discoverPackages(env *appEnv) []discoveredPackage {
	var found []discoveredPackage

	appendPackage := func(name string) {
		desc := env.descriptor(name)
		version := ""
		if manifest, err := pkgs.LoadManifest(env.abs(desc.ManifestPath)); err == nil {
			version = manifest.Version
		}
		found = append(found, discoveredPackage{Descriptor: desc, Version: version})
	}

	appendPackage(pkgs.RootPackage)

	var names []string
	names = append(names, dirPackageNames(env.abs(env.cfg.AppsDir), "")...)
	names = append(names, dirPackageNames(env.abs(env.cfg.LibsDir), env.cfg.Namespace+"/")...)
	sort.Strings(names)
	for _, name := range names {
		appendPackage(name)
	}
	return found
}

// dirPackageNames lists subdirectories holding a package.json, applying
// the naming prefix ("" for apps, the namespace for libs).
func dirPackageNames(dir, prefix string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest := filepath.Join(dir, entry.Name(), "package.json")
		if _, err := os.Stat(manifest); err != nil {
			continue
		}
		names = append(names, prefix+entry.Name())
	}
	return names
}
