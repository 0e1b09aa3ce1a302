// Package changelog builds and merges per-package changelog entries.
//
// A ChangelogMap is an ordered mapping from a version label (a semver
// string or the "unreleased" sentinel) to the content of that entry.
// Newly built entries carry the commits that produced them; entries
// parsed back from an existing changelog carry their rendered body
// verbatim, so merging never rewrites published history.
package changelog

import (
	"github.com/ariel-frischer/monorel/internal/history"
)

// UnreleasedLabel keys changes that have not been assigned a version yet.
const UnreleasedLabel = "unreleased"

// Section is one changelog entry: a version label plus its content.
type Section struct {
	// Label is a bare semver string or UnreleasedLabel.
	Label string
	// Date is the release date (YYYY-MM-DD), empty for unreleased.
	Date string
	// Commits back a newly built section.
	Commits []history.Commit
	// Raw is the verbatim body of a section parsed from an existing
	// changelog. When non-empty it is rendered as-is.
	Raw string
}

// IsUnreleased reports whether the section holds unversioned changes.
func (s Section) IsUnreleased() bool {
	return s.Label == UnreleasedLabel
}

// ChangelogMap is an ordered label-to-section mapping, newest first.
type ChangelogMap struct {
	labels   []string
	sections map[string]Section
}

// NewMap creates an empty ChangelogMap.
func NewMap() *ChangelogMap {
	return &ChangelogMap{sections: make(map[string]Section)}
}

// Set inserts or replaces the section for its label. A replaced label
// keeps its position; a new label is prepended, keeping the map in
// newest-first order.
func (m *ChangelogMap) Set(s Section) {
	if _, ok := m.sections[s.Label]; !ok {
		m.labels = append([]string{s.Label}, m.labels...)
	}
	m.sections[s.Label] = s
}

// append adds a section at the end, used when parsing an existing file
// whose order is already newest-first.
func (m *ChangelogMap) append(s Section) {
	if _, ok := m.sections[s.Label]; ok {
		m.sections[s.Label] = s
		return
	}
	m.labels = append(m.labels, s.Label)
	m.sections[s.Label] = s
}

// Get returns the section for a label.
func (m *ChangelogMap) Get(label string) (Section, bool) {
	s, ok := m.sections[label]
	return s, ok
}

// Sections returns all sections in order.
func (m *ChangelogMap) Sections() []Section {
	out := make([]Section, 0, len(m.labels))
	for _, label := range m.labels {
		out = append(out, m.sections[label])
	}
	return out
}

// Len returns the number of sections.
func (m *ChangelogMap) Len() int {
	return len(m.labels)
}

// Merge overlays incoming on top of existing: an incoming label replaces
// an existing entry with the same label in place, any other incoming
// label lands at the top, and all remaining existing entries are
// preserved untouched. Neither input is modified.
func Merge(existing, incoming *ChangelogMap) *ChangelogMap {
	merged := NewMap()
	if existing != nil {
		for _, s := range existing.Sections() {
			merged.append(s)
		}
	}
	if incoming != nil {
		sections := incoming.Sections()
		// Walk oldest-first so prepends land newest-first.
		for i := len(sections) - 1; i >= 0; i-- {
			merged.Set(sections[i])
		}
	}
	return merged
}
