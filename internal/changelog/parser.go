package changelog

import (
	"regexp"
	"strings"
)

// sectionHeaderPattern matches a version heading: "## [0.2.0] - 2024-06-01"
// or "## [Unreleased]". The bracket form is what Render emits; a bare
// "## 0.2.0" form from hand-written changelogs is also accepted.
var sectionHeaderPattern = regexp.MustCompile(`^##\s+\[?([^\]\s]+)\]?(?:\s+-\s+(\S+))?\s*$`)

// Parse reads an existing changelog's entries back into a ChangelogMap.
// Section bodies are captured verbatim so a later render reproduces them
// byte for byte. Text before the first version heading (the file header)
// is discarded; Render regenerates it. An empty or headerless input
// yields an empty map.
func Parse(text string) *ChangelogMap {
	m := NewMap()
	if strings.TrimSpace(text) == "" {
		return m
	}

	var current *Section
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Raw = strings.Trim(strings.Join(body, "\n"), "\n")
		m.append(*current)
		current = nil
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if match := sectionHeaderPattern.FindStringSubmatch(line); match != nil {
			flush()
			label := match[1]
			if strings.EqualFold(label, "unreleased") {
				label = UnreleasedLabel
			}
			current = &Section{Label: label, Date: match[2]}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return m
}
