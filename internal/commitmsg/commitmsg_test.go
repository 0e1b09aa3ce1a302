package commitmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_ConventionalSubjects(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		raw          string
		wantType     string
		wantScopes   []string
		wantDesc     string
		wantBreaking bool
	}{
		"plain feat": {
			raw:      "feat: add retry logic",
			wantType: "feat",
			wantDesc: "add retry logic",
		},
		"fix with scope": {
			raw:        "fix(api): handle nil payload",
			wantType:   "fix",
			wantScopes: []string{"api"},
			wantDesc:   "handle nil payload",
		},
		"multiple scopes preserve order": {
			raw:        "refactor(api,worker,shared): extract client",
			wantType:   "refactor",
			wantScopes: []string{"api", "worker", "shared"},
			wantDesc:   "extract client",
		},
		"breaking marker": {
			raw:          "feat(api)!: drop v1 endpoints",
			wantType:     "feat",
			wantScopes:   []string{"api"},
			wantDesc:     "drop v1 endpoints",
			wantBreaking: true,
		},
		"breaking without scope": {
			raw:          "feat!: new config format",
			wantType:     "feat",
			wantDesc:     "new config format",
			wantBreaking: true,
		},
		"uppercase type is normalized": {
			raw:      "Fix: typo in readme",
			wantType: "fix",
			wantDesc: "typo in readme",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			msg := Parse(tc.raw)
			assert.Equal(t, tc.wantType, msg.Type)
			assert.Equal(t, tc.wantScopes, msg.Scopes)
			assert.Equal(t, tc.wantDesc, msg.Description)
			assert.Equal(t, tc.wantBreaking, msg.IsBreaking)
			assert.False(t, msg.IsMerge)
		})
	}
}

func TestParse_FallbackClassification(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		raw       string
		wantType  string
		wantMerge bool
	}{
		"merge pull request": {
			raw:       "Merge pull request #42 from feature-x",
			wantType:  "merge",
			wantMerge: true,
		},
		"merge branch": {
			raw:       "Merge branch 'develop' into main",
			wantType:  "merge",
			wantMerge: true,
		},
		"dependabot subject": {
			raw:      "Bump lodash from 4.17.20 to 4.17.21 by dependabot",
			wantType: "deps",
		},
		"free-form subject": {
			raw:      "updated some stuff",
			wantType: "other",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			msg := Parse(tc.raw)
			assert.Equal(t, tc.wantType, msg.Type)
			assert.Equal(t, tc.wantMerge, msg.IsMerge)
			// Fallbacks keep the full subject as description with no scopes.
			assert.Equal(t, tc.raw, msg.Description)
			assert.Empty(t, msg.Scopes)
		})
	}
}

func TestParse_MergeMarkerWinsRegardlessOfBody(t *testing.T) {
	t.Parallel()

	msg := Parse("Merge pull request #7 from fix-build\n\nfeat: something in the body")
	assert.True(t, msg.IsMerge)
	assert.Equal(t, "merge", msg.Type)
}

func TestParse_DependencyDetection(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		raw     string
		wantDep bool
	}{
		"deps scope":               {raw: "chore(deps): bump yaml", wantDep: true},
		"dependencies scope":       {raw: "chore(dependencies): weekly update", wantDep: true},
		"bot marker in body":       {raw: "chore: bump\n\nSigned-off-by: dependabot[bot]", wantDep: true},
		"renovate marker":          {raw: "Update module golang.org/x/sync (renovate)", wantDep: true},
		"unrelated scope":          {raw: "fix(api): bug", wantDep: false},
		"plain chore is not a dep": {raw: "chore: tidy makefile", wantDep: false},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.wantDep, Parse(tc.raw).IsDependency)
		})
	}
}

func TestParse_BodyLines(t *testing.T) {
	t.Parallel()

	msg := Parse("feat: add thing\n\nfirst line\n\nsecond line\n")
	assert.Equal(t, []string{"first line", "second line"}, msg.Body)
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	raw := "feat(api,worker)!: replace transport\n\ndetails here\nmore details"
	assert.Equal(t, Parse(raw), Parse(raw))
}
