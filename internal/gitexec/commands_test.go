package gitexec_test

import (
	"context"
	"testing"

	"github.com/ariel-frischer/monorel/internal/gitexec"
	"github.com/ariel-frischer/monorel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const showFormat = "--format=%H%x1f%an%x1f%aI%x1f%s%x1f%b"

func TestRevList(t *testing.T) {
	t.Parallel()

	runner := testutil.NewScriptedRunner().
		Stub("rev-list v0.1.0..HEAD", "ccc\nbbb\naaa\n").
		Stub("rev-list --merges v0.1.0..HEAD", "ccc\n").
		Stub("rev-list v0.1.0..HEAD -- apps/api", "bbb\n")

	git := gitexec.New(runner, ".")
	ctx := context.Background()

	assert.Equal(t, []string{"ccc", "bbb", "aaa"}, git.RevList(ctx, "v0.1.0", "HEAD", gitexec.RevListOptions{}))
	assert.Equal(t, []string{"ccc"}, git.RevList(ctx, "v0.1.0", "HEAD", gitexec.RevListOptions{MergesOnly: true}))
	assert.Equal(t, []string{"bbb"}, git.RevList(ctx, "v0.1.0", "HEAD", gitexec.RevListOptions{Path: "apps/api"}))
}

func TestRevList_FailureIsEmpty(t *testing.T) {
	t.Parallel()

	runner := testutil.NewScriptedRunner().
		StubExit("rev-list bad..HEAD", 128, "")

	git := gitexec.New(runner, ".")
	assert.Nil(t, git.RevList(context.Background(), "bad", "HEAD", gitexec.RevListOptions{}))
}

func TestShow(t *testing.T) {
	t.Parallel()

	out := "abc123\x1fAlice\x1f2024-06-01T10:00:00+00:00\x1ffeat(api): add search\x1fbody line one\nbody line two\n"
	runner := testutil.NewScriptedRunner().
		Stub("show -s "+showFormat+" abc123", out)

	git := gitexec.New(runner, ".")
	detail, ok := git.Show(context.Background(), "abc123")

	require.True(t, ok)
	assert.Equal(t, "abc123", detail.Hash)
	assert.Equal(t, "Alice", detail.Author)
	assert.Equal(t, "feat(api): add search", detail.Subject)
	assert.Equal(t, "body line one\nbody line two", detail.Body)
}

func TestShow_MalformedOutput(t *testing.T) {
	t.Parallel()

	runner := testutil.NewScriptedRunner().
		Stub("show -s "+showFormat+" abc123", "garbage with no separators")

	git := gitexec.New(runner, ".")
	_, ok := git.Show(context.Background(), "abc123")
	assert.False(t, ok)
}

func TestFileAtRef(t *testing.T) {
	t.Parallel()

	runner := testutil.NewScriptedRunner().
		Stub("show abc123:apps/api/package.json", `{"version":"1.0.0"}`).
		StubExit("show abc123:apps/api/missing.json", 128, "")

	git := gitexec.New(runner, ".")
	ctx := context.Background()

	content, ok := git.FileAtRef(ctx, "abc123", "apps/api/package.json")
	require.True(t, ok)
	assert.Equal(t, `{"version":"1.0.0"}`, content)

	_, ok = git.FileAtRef(ctx, "abc123", "apps/api/missing.json")
	assert.False(t, ok)
}

func TestResolveRef(t *testing.T) {
	t.Parallel()

	runner := testutil.NewScriptedRunner().
		Stub("rev-parse --verify HEAD^{commit}", "abc123\n")

	git := gitexec.New(runner, ".")
	sha, ok := git.ResolveRef(context.Background(), "HEAD")

	require.True(t, ok)
	assert.Equal(t, "abc123", sha)

	_, ok = git.ResolveRef(context.Background(), "no-such-ref")
	assert.False(t, ok)
}

func TestTagExists(t *testing.T) {
	t.Parallel()

	runner := testutil.NewScriptedRunner().
		Stub("tag -l api-v0.2.0", "api-v0.2.0\n").
		Stub("tag -l api-v0.3.0", "")

	git := gitexec.New(runner, ".")
	ctx := context.Background()

	assert.True(t, git.TagExists(ctx, "api-v0.2.0"))
	assert.False(t, git.TagExists(ctx, "api-v0.3.0"))
}
