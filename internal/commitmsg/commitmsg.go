// Package commitmsg parses raw commit messages into structured records.
// Parsing is pure and deterministic: the same raw message always produces
// the same result, and nothing here touches git.
package commitmsg

import (
	"regexp"
	"strings"
)

// Conventional commit types that are not matched specially but show up in
// classification downstream: feat, fix, docs, style, refactor, perf, test,
// build, ci, chore, revert, deps.

// Message is the structured form of a commit message.
// All fields are derived from the raw text at construction time and are
// never mutated afterwards.
type Message struct {
	// Type is the conventional commit type ("feat", "fix", ...) or one of
	// the fallback classifications "merge", "deps", "other".
	Type string
	// Scopes holds the comma-separated scopes in declaration order.
	// Empty for non-conventional subjects.
	Scopes []string
	// Description is the subject text after the colon, or the whole subject
	// for non-conventional messages.
	Description string
	// Body holds the non-blank body lines.
	Body []string
	// IsBreaking is true when the subject carries the ! breaking marker.
	IsBreaking bool
	// IsMerge is true when the subject starts with a merge-commit marker.
	IsMerge bool
	// IsDependency is true for dependency-related commits, detected from
	// scopes or from a dependency-bot marker anywhere in the message.
	IsDependency bool
}

// conventionalPattern matches `type(scope[,scope...])!: description`.
// Scope and breaking marker are optional.
var conventionalPattern = regexp.MustCompile(`^([a-zA-Z]+)(?:\(([^)]*)\))?(!)?:\s*(.+)$`)

// mergeMarker is the prefix git puts on merge commit subjects.
const mergeMarker = "Merge "

// dependencyBotMarkers identify commits authored by dependency update bots.
var dependencyBotMarkers = []string{"dependabot", "renovate"}

// dependencyScopes are scope tokens that mark a commit as dependency-related.
var dependencyScopes = map[string]bool{
	"deps":         true,
	"dependencies": true,
	"dependency":   true,
	"dependabot":   true,
}

// Parse turns a full commit message (subject + body, newline-joined) into a
// Message. It never fails: messages that do not match the conventional
// pattern fall back to "merge", "deps" or "other" classification.
func Parse(raw string) Message {
	subject, body := splitMessage(raw)

	msg := Message{
		Body:    body,
		IsMerge: strings.HasPrefix(subject, mergeMarker),
	}

	if m := conventionalPattern.FindStringSubmatch(subject); m != nil {
		msg.Type = strings.ToLower(m[1])
		msg.Scopes = splitScopes(m[2])
		msg.IsBreaking = m[3] == "!"
		msg.Description = strings.TrimSpace(m[4])
	} else {
		msg.Description = subject
		switch {
		case msg.IsMerge:
			msg.Type = "merge"
		case containsBotMarker(subject):
			msg.Type = "deps"
		default:
			msg.Type = "other"
		}
	}

	msg.IsDependency = isDependency(msg.Scopes, raw)
	return msg
}

// splitMessage returns the subject (first line) and the non-blank body lines.
func splitMessage(raw string) (string, []string) {
	lines := strings.Split(raw, "\n")
	subject := strings.TrimSpace(lines[0])

	var body []string
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line != "" {
			body = append(body, line)
		}
	}
	return subject, body
}

// splitScopes comma-splits a scope list, preserving order and dropping empties.
func splitScopes(raw string) []string {
	if raw == "" {
		return nil
	}
	var scopes []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

// isDependency checks scopes and the full message text for dependency markers.
// This is independent of whether the conventional pattern matched.
func isDependency(scopes []string, raw string) bool {
	for _, scope := range scopes {
		if dependencyScopes[strings.ToLower(scope)] {
			return true
		}
	}
	return containsBotMarker(raw)
}

// containsBotMarker reports whether text mentions a dependency update bot.
func containsBotMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range dependencyBotMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
