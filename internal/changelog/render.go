package changelog

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/monorel/internal/history"
)

// categoryHeadings maps commit categories to their section headings, in
// rendering order.
var categoryHeadings = map[history.Category]string{
	history.CategoryFeatures:       "Features",
	history.CategoryBugfixes:       "Bug Fixes",
	history.CategoryDependencies:   "Dependencies",
	history.CategoryInfrastructure: "Infrastructure",
	history.CategoryDocumentation:  "Documentation",
	history.CategoryRefactoring:    "Refactoring",
	history.CategoryOther:          "Other Changes",
}

// Render generates the full markdown changelog for a package.
// The function is idempotent: the same map renders to identical text.
func Render(project string, m *ChangelogMap) string {
	var b strings.Builder
	renderHeader(project, &b)

	for _, section := range m.Sections() {
		renderSection(section, &b)
	}

	return b.String()
}

func renderHeader(project string, b *strings.Builder) {
	b.WriteString("# Changelog\n\n")
	b.WriteString("All notable changes to " + project + " will be documented in this file.\n\n")
	b.WriteString("The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),\n")
	b.WriteString("and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).\n")
}

func renderSection(s Section, b *strings.Builder) {
	b.WriteString("\n" + formatSectionHeader(s) + "\n")

	// Sections parsed from an existing changelog keep their body verbatim.
	if s.Raw != "" {
		b.WriteString("\n" + s.Raw + "\n")
		return
	}

	renderCommits(s.Commits, b)
}

// formatSectionHeader formats the version heading line.
func formatSectionHeader(s Section) string {
	if s.IsUnreleased() {
		return "## [Unreleased]"
	}
	if s.Date == "" {
		return fmt.Sprintf("## [%s]", s.Label)
	}
	return fmt.Sprintf("## [%s] - %s", s.Label, s.Date)
}

// renderCommits writes the section body grouped by category, categories
// in standard order, commits in the order the resolver produced them.
func renderCommits(commits []history.Commit, b *strings.Builder) {
	grouped := make(map[history.Category][]history.Commit)
	for _, commit := range commits {
		cat := history.CategoryOf(commit)
		grouped[cat] = append(grouped[cat], commit)
	}

	for _, cat := range history.Categories() {
		entries := grouped[cat]
		if len(entries) == 0 {
			continue
		}
		b.WriteString("\n### " + categoryHeadings[cat] + "\n")
		for _, commit := range entries {
			b.WriteString("- " + bullet(commit) + "\n")
		}
	}
}

// bullet formats one commit as a list entry.
func bullet(commit history.Commit) string {
	text := commit.Message.Description
	if text == "" {
		text = commit.Subject
	}
	if commit.PR != nil && commit.PR.Number != "" {
		return fmt.Sprintf("%s (#%s)", text, commit.PR.Number)
	}
	return text
}
