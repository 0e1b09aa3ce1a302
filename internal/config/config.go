// Package config provides hierarchical configuration management for monorel using koanf.
// Configuration is loaded with priority: environment variables > project config
// (.monorel/config.yml) > user config (~/.config/monorel/config.yml) > defaults.
// Legacy JSON project configs (.monorel/config.json) are still read for
// backward compatibility.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the monorel CLI tool configuration.
type Configuration struct {
	// Namespace is the scope prefix that marks a dependency as internal to
	// the monorepo (e.g., "@app"). Dependencies outside the namespace are
	// ignored by the dependency analyzer.
	Namespace string `koanf:"namespace"`

	// AppsDir is the repository-relative directory holding application packages.
	AppsDir string `koanf:"apps_dir"`

	// LibsDir is the repository-relative directory holding namespaced library packages.
	LibsDir string `koanf:"libs_dir"`

	// ChangelogFile is the changelog filename inside each package directory.
	ChangelogFile string `koanf:"changelog_file"`

	// ComposeFile is the repository-relative docker-compose file used for
	// service discovery. Empty disables compose discovery.
	ComposeFile string `koanf:"compose_file"`

	// MaxParallel bounds the fan-out of concurrent git queries when
	// resolving commit ranges. Minimum 1.
	MaxParallel int `koanf:"max_parallel"`

	// GitTimeout is the per-subprocess timeout in seconds for git commands.
	// 0 disables the timeout. Can be set via MONOREL_GIT_TIMEOUT.
	GitTimeout int `koanf:"git_timeout"`

	// Push controls whether created tags and release commits are pushed to
	// the remote after a successful bump --apply.
	Push bool `koanf:"push"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .monorel/config.yml)
	ProjectConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr.
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values.
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if it exists.
func loadUserConfig(k *koanf.Koanf) error {
	userPath, err := UserConfigPath()
	if err != nil {
		return nil
	}
	if !fileExists(userPath) {
		return nil
	}
	if err := k.Load(file.Provider(userPath), yaml.Parser()); err != nil {
		return fmt.Errorf("loading user config %s: %w", userPath, err)
	}
	return nil
}

// loadProjectConfig loads project-level config (YAML preferred, legacy JSON supported).
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	projectYAMLPath := ProjectConfigPath()
	if customPath != "" {
		projectYAMLPath = customPath
	}
	legacyProjectPath := LegacyProjectConfigPath()

	if fileExists(projectYAMLPath) {
		if err := k.Load(file.Provider(projectYAMLPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading project config %s: %w", projectYAMLPath, err)
		}
		return nil
	}

	if fileExists(legacyProjectPath) {
		if err := k.Load(file.Provider(legacyProjectPath), json.Parser()); err != nil {
			return fmt.Errorf("loading legacy project config %s: %w", legacyProjectPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyProjectPath)
			fmt.Fprintf(warningWriter, "  Convert the file to %s to silence this warning.\n\n", projectYAMLPath)
		}
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides.
// MONOREL_GIT_TIMEOUT maps to git_timeout, MONOREL_APPS_DIR to apps_dir, etc.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider("MONOREL_", ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// envTransform converts MONOREL_APPS_DIR to apps_dir.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "MONOREL_"))
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate checks configuration values and rejects impossible settings.
func Validate(cfg *Configuration) error {
	if cfg.Namespace == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	if cfg.MaxParallel < 1 {
		return fmt.Errorf("max_parallel must be at least 1 (got %d)", cfg.MaxParallel)
	}
	if cfg.GitTimeout < 0 {
		return fmt.Errorf("git_timeout must not be negative (got %d)", cfg.GitTimeout)
	}
	if filepath.IsAbs(cfg.AppsDir) || filepath.IsAbs(cfg.LibsDir) {
		return fmt.Errorf("apps_dir and libs_dir must be repository-relative paths")
	}
	return nil
}
