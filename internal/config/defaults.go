package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# Monorel Configuration
# See 'monorel --help' for commands

# Package layout
namespace: "@app"                     # Scope prefix marking internal dependencies
apps_dir: apps                        # Directory holding application packages
libs_dir: libs                        # Directory holding namespaced library packages

# Release artifacts
changelog_file: CHANGELOG.md          # Changelog filename inside each package
compose_file: docker-compose.yml      # Compose file used for service discovery (empty = disabled)

# Git execution
max_parallel: 4                       # Max concurrent git queries during analysis
git_timeout: 60                       # Per-command timeout in seconds (0 = no timeout)
push: false                           # Push tags and release commits after bump --apply
`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"namespace":      "@app",
		"apps_dir":       "apps",
		"libs_dir":       "libs",
		"changelog_file": "CHANGELOG.md",
		"compose_file":   "docker-compose.yml",
		// max_parallel: bounded fan-out for concurrent git queries. Four is
		// plenty; the bottleneck is subprocess spawn, not git itself.
		"max_parallel": 4,
		// git_timeout: hung git subprocesses would otherwise stall the whole
		// analysis pipeline.
		"git_timeout": 60,
		"push":        false,
	}
}
