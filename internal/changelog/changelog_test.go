package changelog

import (
	"strings"
	"testing"

	"github.com/ariel-frischer/monorel/internal/commitmsg"
	"github.com/ariel-frischer/monorel/internal/history"
	"github.com/ariel-frischer/monorel/internal/release"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func featCommit(desc string) history.Commit {
	return history.Commit{
		RawCommit: history.RawCommit{Hash: "abc", Subject: "feat: " + desc},
		Message:   commitmsg.Message{Type: "feat", Description: desc},
	}
}

func fixCommit(desc string) history.Commit {
	return history.Commit{
		RawCommit: history.RawCommit{Hash: "def", Subject: "fix: " + desc},
		Message:   commitmsg.Message{Type: "fix", Description: desc},
	}
}

func TestBuild_UsesTargetVersionWhenBumping(t *testing.T) {
	t.Parallel()

	decision := release.Decision{ShouldBump: true, TargetVersion: "0.2.0"}
	m := Build([]history.Commit{featCommit("add search")}, decision, "2024-06-01")

	require.Equal(t, 1, m.Len())
	section, ok := m.Get("0.2.0")
	require.True(t, ok)
	assert.Equal(t, "2024-06-01", section.Date)
	assert.Len(t, section.Commits, 1)
}

func TestBuild_NoBumpUsesUnreleasedLabel(t *testing.T) {
	t.Parallel()

	decision := release.Decision{ShouldBump: false, TargetVersion: "0.2.0"}
	m := Build([]history.Commit{featCommit("add search")}, decision, "2024-06-01")

	section, ok := m.Get(UnreleasedLabel)
	require.True(t, ok)
	assert.True(t, section.IsUnreleased())
	assert.Empty(t, section.Date)
}

func TestRender_GroupsByCategory(t *testing.T) {
	t.Parallel()

	merge := history.Commit{
		RawCommit: history.RawCommit{Hash: "mmm", Subject: "Merge pull request #7"},
		Message:   commitmsg.Message{Type: "merge", Description: "Merge pull request #7", IsMerge: true},
		PR: &history.PRInfo{
			Number:   "7",
			Category: history.CategoryFeatures,
		},
	}

	m := NewMap()
	m.Set(Section{
		Label:   "0.2.0",
		Date:    "2024-06-01",
		Commits: []history.Commit{merge, fixCommit("handle empty input"), featCommit("add search")},
	})

	out := Render("api", m)

	assert.Contains(t, out, "# Changelog")
	assert.Contains(t, out, "All notable changes to api")
	assert.Contains(t, out, "## [0.2.0] - 2024-06-01")
	assert.Contains(t, out, "### Features")
	assert.Contains(t, out, "- Merge pull request #7 (#7)")
	assert.Contains(t, out, "- add search")
	assert.Contains(t, out, "### Bug Fixes")
	assert.Contains(t, out, "- handle empty input")

	// Features render before bug fixes.
	assert.Less(t, strings.Index(out, "### Features"), strings.Index(out, "### Bug Fixes"))
}

func TestParse_ReadsRenderedOutput(t *testing.T) {
	t.Parallel()

	m := NewMap()
	m.Set(Section{Label: "0.1.0", Date: "2024-01-01", Commits: []history.Commit{featCommit("bootstrap")}})
	m.Set(Section{Label: UnreleasedLabel, Commits: []history.Commit{fixCommit("typo")}})

	parsed := Parse(Render("api", m))

	require.Equal(t, 2, parsed.Len())
	sections := parsed.Sections()
	assert.Equal(t, UnreleasedLabel, sections[0].Label)
	assert.Equal(t, "0.1.0", sections[1].Label)
	assert.Equal(t, "2024-01-01", sections[1].Date)
	assert.Contains(t, sections[1].Raw, "- bootstrap")
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Parse("").Len())
	assert.Equal(t, 0, Parse("# Changelog\n\nno sections yet\n").Len())
}

func TestMerge_NewLabelWinsHistoryPreserved(t *testing.T) {
	t.Parallel()

	existingText := Render("api", func() *ChangelogMap {
		m := NewMap()
		m.Set(Section{Label: "0.1.0", Date: "2024-01-01", Commits: []history.Commit{featCommit("bootstrap")}})
		m.Set(Section{Label: UnreleasedLabel, Commits: []history.Commit{fixCommit("typo")}})
		return m
	}())

	existing := Parse(existingText)
	incoming := Build([]history.Commit{featCommit("add search")}, release.Decision{
		ShouldBump:    true,
		TargetVersion: "0.2.0",
	}, "2024-06-01")

	out := Render("api", Merge(existing, incoming))

	// The new version lands at the top; published history is untouched.
	assert.Contains(t, out, "## [0.2.0] - 2024-06-01")
	assert.Contains(t, out, "- add search")
	assert.Contains(t, out, "## [0.1.0] - 2024-01-01")
	assert.Contains(t, out, "- bootstrap")
	assert.Contains(t, out, "## [Unreleased]")
	assert.Less(t, strings.Index(out, "## [0.2.0]"), strings.Index(out, "## [Unreleased]"))

	// Re-parsing and re-rendering is stable: history rendered verbatim.
	again := Render("api", Merge(Parse(out), NewMap()))
	assert.Equal(t, out, again)
}

func TestMerge_SameLabelReplacedInPlace(t *testing.T) {
	t.Parallel()

	existing := NewMap()
	existing.Set(Section{Label: "0.1.0", Date: "2024-01-01", Raw: "### Features\n- old"})
	existing.Set(Section{Label: UnreleasedLabel, Raw: "### Bug Fixes\n- stale"})

	incoming := Build([]history.Commit{fixCommit("fresh")}, release.Decision{}, "")

	merged := Merge(existing, incoming)

	require.Equal(t, 2, merged.Len())
	section, ok := merged.Get(UnreleasedLabel)
	require.True(t, ok)
	assert.Empty(t, section.Raw)
	require.Len(t, section.Commits, 1)
	assert.Equal(t, "fresh", section.Commits[0].Message.Description)
	// Position preserved: unreleased stays newest.
	assert.Equal(t, UnreleasedLabel, merged.Sections()[0].Label)
}
