package pkgs

import (
	"testing"

	"github.com/ariel-frischer/monorel/internal/config"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Configuration {
	return &config.Configuration{
		Namespace:     "@app",
		AppsDir:       "apps",
		LibsDir:       "libs",
		ChangelogFile: "CHANGELOG.md",
		MaxParallel:   4,
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	tests := map[string]struct {
		pkg           string
		wantPath      string
		wantManifest  string
		wantPrefix    string
		wantChangelog string
	}{
		"root package": {
			pkg:           "root",
			wantPath:      ".",
			wantManifest:  "package.json",
			wantPrefix:    "v",
			wantChangelog: "CHANGELOG.md",
		},
		"application package": {
			pkg:           "api",
			wantPath:      "apps/api",
			wantManifest:  "apps/api/package.json",
			wantPrefix:    "api-v",
			wantChangelog: "apps/api/CHANGELOG.md",
		},
		"namespaced library": {
			pkg:           "@app/shared",
			wantPath:      "libs/shared",
			wantManifest:  "libs/shared/package.json",
			wantPrefix:    "shared-v",
			wantChangelog: "libs/shared/CHANGELOG.md",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			d := Resolve(cfg, tc.pkg)
			assert.Equal(t, tc.wantPath, d.Path)
			assert.Equal(t, tc.wantManifest, d.ManifestPath)
			assert.Equal(t, tc.wantPrefix, d.TagPrefix)
			assert.Equal(t, tc.wantChangelog, d.ChangelogPath)
		})
	}
}

func TestDescriptor_IsRoot(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	assert.True(t, Resolve(cfg, "root").IsRoot())
	assert.False(t, Resolve(cfg, "api").IsRoot())
}
