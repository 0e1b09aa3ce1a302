package changelog

import (
	"time"

	"github.com/ariel-frischer/monorel/internal/history"
	"github.com/ariel-frischer/monorel/internal/release"
)

// Build produces a single-entry ChangelogMap from a filtered commit set.
// When the decision calls for a release the entry is keyed by the target
// version and stamped with date; otherwise the commits land under the
// unreleased label with no date.
func Build(commits []history.Commit, decision release.Decision, date string) *ChangelogMap {
	section := Section{
		Label:   UnreleasedLabel,
		Commits: commits,
	}
	if decision.ShouldBump {
		section.Label = decision.TargetVersion
		section.Date = date
	}

	m := NewMap()
	m.Set(section)
	return m
}

// BuildMerged is the full changelog operation: build an entry for the
// commit set, overlay it on the parsed existing changelog text, and
// render the merged result back to markdown. Historical entries survive
// verbatim; only the label the new entry targets is replaced.
func BuildMerged(project string, commits []history.Commit, decision release.Decision, existingText string) string {
	existing := Parse(existingText)
	incoming := Build(commits, decision, time.Now().Format("2006-01-02"))
	return Render(project, Merge(existing, incoming))
}
