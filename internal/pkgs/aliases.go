package pkgs

import (
	"context"
	"encoding/json"
	"path"
	"strings"

	"github.com/ariel-frischer/monorel/internal/gitexec"
)

// maxExtendsDepth caps "extends" chain resolution. Build configs can chain
// indefinitely and may even reference themselves.
const maxExtendsDepth = 10

// buildConfigFiles are the build configuration files scanned for path
// aliases, in precedence order.
var buildConfigFiles = []string{"tsconfig.json", "jsconfig.json"}

// buildConfig is the subset of a tsconfig/jsconfig used for alias detection.
type buildConfig struct {
	Extends         string `json:"extends"`
	CompilerOptions struct {
		Paths map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// aliasedPackages scans a package's build configuration at the given ref and
// returns internal package names referenced through path aliases rather than
// declared dependencies. Failures degrade to an empty list.
func aliasedPackages(ctx context.Context, git *gitexec.Git, ref, pkgDir, namespace string) []string {
	seen := make(map[string]bool)
	var names []string

	for _, file := range buildConfigFiles {
		configPath := path.Join(pkgDir, file)
		if pkgDir == "." {
			configPath = file
		}
		for _, name := range aliasesFromConfig(ctx, git, ref, configPath, namespace, nil, 0) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// aliasesFromConfig reads one build config at ref and collects namespace
// aliases, following "extends" chains with a visited set and a depth cap.
func aliasesFromConfig(ctx context.Context, git *gitexec.Git, ref, configPath, namespace string, visited map[string]bool, depth int) []string {
	if depth > maxExtendsDepth {
		logDebug("[pkgs] extends chain exceeds depth %d at %s", maxExtendsDepth, configPath)
		return nil
	}
	if visited == nil {
		visited = make(map[string]bool)
	}
	if visited[configPath] {
		return nil
	}
	visited[configPath] = true

	content, ok := git.FileAtRef(ctx, ref, configPath)
	if !ok {
		return nil
	}

	var cfg buildConfig
	if err := json.Unmarshal([]byte(content), &cfg); err != nil {
		logDebug("[pkgs] unparseable build config %s at %s: %v", configPath, ref, err)
		return nil
	}

	var names []string
	for alias := range cfg.CompilerOptions.Paths {
		if name := aliasPackageName(alias, namespace); name != "" {
			names = append(names, name)
		}
	}

	if cfg.Extends != "" {
		parent := resolveExtendsPath(configPath, cfg.Extends)
		names = append(names, aliasesFromConfig(ctx, git, ref, parent, namespace, visited, depth+1)...)
	}
	return names
}

// aliasPackageName extracts the internal package name from a path alias.
// "@app/shared/*" and "@app/shared" both map to "@app/shared".
func aliasPackageName(alias, namespace string) string {
	if !strings.HasPrefix(alias, namespace+"/") {
		return ""
	}
	name := strings.TrimSuffix(alias, "/*")
	// Aliases deeper than the package root still belong to that package.
	parts := strings.SplitN(name, "/", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[0] + "/" + parts[1]
}

// resolveExtendsPath resolves an "extends" value relative to the config that
// declared it.
func resolveExtendsPath(configPath, extends string) string {
	if !strings.HasSuffix(extends, ".json") {
		extends += ".json"
	}
	resolved := path.Join(path.Dir(configPath), extends)
	return path.Clean(resolved)
}
