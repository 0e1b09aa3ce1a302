package tags

import (
	"context"
	"testing"

	"github.com/ariel-frischer/monorel/internal/gitexec"
	"github.com/ariel-frischer/monorel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tagFormat = "--format=%(refname:strip=2)%1f%(objectname)%1f%(creatordate:iso-strict)%1f%(contents:subject)"

func tagLine(name, sha, date, message string) string {
	return name + "\x1f" + sha + "\x1f" + date + "\x1f" + message + "\n"
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		version string
		want    Format
	}{
		"semver":            {version: "1.2.3", want: FormatSemver},
		"semver zero":       {version: "0.1.0", want: FormatSemver},
		"calver":            {version: "2024.03.15", want: FormatCalver},
		"calver year month": {version: "2024.3", want: FormatCalver},
		"custom":            {version: "1.2", want: FormatCustom},
		"custom suffix":     {version: "1.2.3-rc1", want: FormatCustom},
		"empty":             {version: "", want: FormatUndefined},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, detectFormat(tc.version))
		})
	}
}

func TestSeries(t *testing.T) {
	t.Parallel()

	out := tagLine("api-v0.1.0", "aaa", "2024-01-01T00:00:00+00:00", "release 0.1.0") +
		tagLine("api-v0.2.0", "bbb", "2024-02-01T00:00:00+00:00", "release 0.2.0") +
		tagLine("api-vNext", "ccc", "2024-03-01T00:00:00+00:00", "")
	runner := testutil.NewScriptedRunner().
		Stub("tag -l api-v* --sort=v:refname "+tagFormat, out)

	reader := NewReader(gitexec.New(runner, "."))
	series := reader.Series(context.Background(), "api-v")

	// api-vNext has no numeric version part and is dropped.
	require.Len(t, series, 2)
	assert.Equal(t, "0.1.0", series[0].Version())
	assert.Equal(t, FormatSemver, series[0].Format)
	assert.Equal(t, "aaa", series[0].SHA)
	assert.Equal(t, "release 0.2.0", series[1].Message)
}

func TestLatest(t *testing.T) {
	t.Parallel()

	out := tagLine("v0.9.0", "aaa", "", "") +
		tagLine("v0.10.0", "bbb", "", "") +
		tagLine("v0.2.0", "ccc", "", "")
	runner := testutil.NewScriptedRunner().
		Stub("tag -l v* --sort=v:refname "+tagFormat, out)

	reader := NewReader(gitexec.New(runner, "."))
	latest, ok := reader.Latest(context.Background(), "v")

	require.True(t, ok)
	// Numeric comparison, not lexicographic: 0.10.0 > 0.9.0.
	assert.Equal(t, "0.10.0", latest.Version())
}

func TestLatest_EmptySeries(t *testing.T) {
	t.Parallel()

	runner := testutil.NewScriptedRunner()
	reader := NewReader(gitexec.New(runner, "."))

	_, ok := reader.Latest(context.Background(), "api-v")
	assert.False(t, ok)
}

func TestExists(t *testing.T) {
	t.Parallel()

	runner := testutil.NewScriptedRunner().
		Stub("tag -l api-v0.2.0", "api-v0.2.0\n")

	reader := NewReader(gitexec.New(runner, "."))
	assert.True(t, reader.Exists(context.Background(), "api-v", "0.2.0"))
	assert.False(t, reader.Exists(context.Background(), "api-v", "0.3.0"))
}
