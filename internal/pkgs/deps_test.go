package pkgs

import (
	"context"
	"testing"

	"github.com/ariel-frischer/monorel/internal/gitexec"
	"github.com/ariel-frischer/monorel/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAnalyzer_InternalDeps(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	desc := Resolve(cfg, "api")

	tests := map[string]struct {
		manifest string
		want     []string
	}{
		"filters to internal namespace": {
			manifest: `{
				"name": "api",
				"version": "1.0.0",
				"dependencies": {"@app/shared": "1.0.0", "lodash": "4.17.21"},
				"devDependencies": {"@app/testkit": "0.2.0", "jest": "29.0.0"},
				"peerDependencies": {"@app/types": "1.1.0"}
			}`,
			want: []string{"@app/shared", "@app/testkit", "@app/types"},
		},
		"no internal deps": {
			manifest: `{"name": "api", "version": "1.0.0", "dependencies": {"express": "4.18.0"}}`,
			want:     nil,
		},
		"unparseable manifest degrades to empty": {
			manifest: "{not json",
			want:     nil,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			runner := testutil.NewScriptedRunner().
				Stub("show abc123:apps/api/package.json", tc.manifest)
			analyzer := NewAnalyzer(cfg, gitexec.New(runner, "."))

			deps := analyzer.InternalDeps(context.Background(), desc, "abc123")
			assert.Equal(t, tc.want, deps)
		})
	}
}

func TestAnalyzer_InternalDeps_MissingManifest(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	runner := testutil.NewScriptedRunner() // nothing scripted: every read fails
	analyzer := NewAnalyzer(cfg, gitexec.New(runner, "."))

	deps := analyzer.InternalDeps(context.Background(), Resolve(cfg, "api"), "abc123")
	assert.Empty(t, deps)
}

func TestAnalyzer_InternalDeps_PathAliases(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	desc := Resolve(cfg, "api")

	runner := testutil.NewScriptedRunner().
		Stub("show abc123:apps/api/package.json", `{"name": "api", "version": "1.0.0"}`).
		Stub("show abc123:apps/api/tsconfig.json", `{
			"extends": "../../tsconfig.base.json",
			"compilerOptions": {"paths": {"@app/shared/*": ["../../libs/shared/src/*"]}}
		}`).
		Stub("show abc123:tsconfig.base.json", `{
			"compilerOptions": {"paths": {"@app/types": ["libs/types/src"]}}
		}`)
	analyzer := NewAnalyzer(cfg, gitexec.New(runner, "."))

	deps := analyzer.InternalDeps(context.Background(), desc, "abc123")
	assert.Equal(t, []string{"@app/shared", "@app/types"}, deps)
}

func TestAnalyzer_InternalDeps_ExtendsCycle(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	desc := Resolve(cfg, "api")

	// a extends b, b extends a. Resolution must terminate.
	runner := testutil.NewScriptedRunner().
		Stub("show abc123:apps/api/tsconfig.json", `{
			"extends": "./tsconfig.other.json",
			"compilerOptions": {"paths": {"@app/shared": ["../../libs/shared/src"]}}
		}`).
		Stub("show abc123:apps/api/tsconfig.other.json", `{"extends": "./tsconfig.json"}`)
	analyzer := NewAnalyzer(cfg, gitexec.New(runner, "."))

	deps := analyzer.InternalDeps(context.Background(), desc, "abc123")
	assert.Equal(t, []string{"@app/shared"}, deps)
}

func TestAnalyzer_InternalDeps_Memoizes(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	desc := Resolve(cfg, "api")

	runner := testutil.NewScriptedRunner().
		Stub("show abc123:apps/api/package.json", `{"dependencies": {"@app/shared": "1.0.0"}}`)
	analyzer := NewAnalyzer(cfg, gitexec.New(runner, "."))

	ctx := context.Background()
	first := analyzer.InternalDeps(ctx, desc, "abc123")
	second := analyzer.InternalDeps(ctx, desc, "abc123")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, runner.CallCount("package.json"))
}

func TestAnalyzer_DepPaths(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	runner := testutil.NewScriptedRunner().
		Stub("show abc123:apps/api/package.json", `{"dependencies": {"@app/shared": "1.0.0"}}`)
	analyzer := NewAnalyzer(cfg, gitexec.New(runner, "."))

	paths := analyzer.DepPaths(context.Background(), Resolve(cfg, "api"), "abc123")
	assert.Equal(t, []string{"libs/shared"}, paths)
}
