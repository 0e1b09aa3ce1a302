package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithOptions(LoadOptions{SkipWarnings: true})
	require.NoError(t, err)

	assert.Equal(t, "@app", cfg.Namespace)
	assert.Equal(t, "apps", cfg.AppsDir)
	assert.Equal(t, "libs", cfg.LibsDir)
	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogFile)
	assert.Equal(t, 4, cfg.MaxParallel)
	assert.Equal(t, 60, cfg.GitTimeout)
	assert.False(t, cfg.Push)
}

func TestLoad_ProjectConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := "namespace: \"@acme\"\nmax_parallel: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "@acme", cfg.Namespace)
	assert.Equal(t, 8, cfg.MaxParallel)
	// Untouched keys keep their defaults.
	assert.Equal(t, "apps", cfg.AppsDir)
}

func TestLoad_EnvironmentOverridesProject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("git_timeout: 30\n"), 0o644))

	t.Setenv("MONOREL_GIT_TIMEOUT", "120")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.GitTimeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("namespace: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Configuration {
		return &Configuration{
			Namespace:   "@app",
			AppsDir:     "apps",
			LibsDir:     "libs",
			MaxParallel: 4,
		}
	}

	tests := map[string]struct {
		mutate  func(*Configuration)
		wantErr string
	}{
		"valid config": {
			mutate: func(*Configuration) {},
		},
		"empty namespace": {
			mutate:  func(c *Configuration) { c.Namespace = "" },
			wantErr: "namespace",
		},
		"zero parallel": {
			mutate:  func(c *Configuration) { c.MaxParallel = 0 },
			wantErr: "max_parallel",
		},
		"negative timeout": {
			mutate:  func(c *Configuration) { c.GitTimeout = -1 },
			wantErr: "git_timeout",
		},
		"absolute apps dir": {
			mutate:  func(c *Configuration) { c.AppsDir = "/srv/apps" },
			wantErr: "repository-relative",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tc.mutate(cfg)
			err := Validate(cfg)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
