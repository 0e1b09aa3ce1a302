// Package history mines commit history for release analysis: fetching commit
// details, reconstructing pull requests from merge commits, and resolving the
// commits relevant to a package across a revision range.
package history

import (
	"time"

	"github.com/ariel-frischer/monorel/internal/commitmsg"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for history operations.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// RawCommit is the unprocessed commit metadata as reported by git.
// Date stays a string; rewritten history can carry timestamps that do not
// parse, and a broken date must not break analysis.
type RawCommit struct {
	Hash    string
	Author  string
	Date    string
	Subject string
	Body    []string
}

// Commit is a fully resolved commit: raw metadata, parsed message, changed
// files, and PR info for merge commits. Commits are value objects; equality
// is by hash.
type Commit struct {
	RawCommit
	Message commitmsg.Message
	Files   []string
	// PR is set only for merge commits that reconstruct to a trackable PR.
	PR *PRInfo
}

// Time returns the commit date, or the zero time when unparseable.
func (c Commit) Time() time.Time {
	t, err := time.Parse(time.RFC3339, c.RawCommit.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Category classifies a reconstructed pull request.
type Category string

// The closed set of PR categories.
const (
	CategoryFeatures       Category = "features"
	CategoryBugfixes       Category = "bugfixes"
	CategoryDependencies   Category = "dependencies"
	CategoryInfrastructure Category = "infrastructure"
	CategoryDocumentation  Category = "documentation"
	CategoryRefactoring    Category = "refactoring"
	CategoryOther          Category = "other"
)

// Categories returns all categories in a stable order.
func Categories() []Category {
	return []Category{
		CategoryFeatures,
		CategoryBugfixes,
		CategoryDependencies,
		CategoryInfrastructure,
		CategoryDocumentation,
		CategoryRefactoring,
		CategoryOther,
	}
}

// PRStats summarizes the size of a reconstructed pull request.
type PRStats struct {
	CommitCount int
	FileCount   int
}

// BranchRef describes the source branch of a merged pull request.
type BranchRef struct {
	// Name is the short branch name ("feature-x").
	Name string
	// Ref is the full reference string as written in the merge subject
	// ("owner/feature-x").
	Ref string
}

// PRInfo is a pull request reconstructed from a merge commit.
type PRInfo struct {
	// Number is the PR number extracted from the merge subject.
	// May be empty when reconstruction found commits but no number pattern.
	Number string
	// Category is the dominant change category across the PR's commits.
	Category Category
	// Stats summarizes the reconstructed commit set.
	Stats PRStats
	// Commits are the underlying commits of the PR. Empty for merges whose
	// parent diff could not be enumerated.
	Commits []Commit
	// Squashed is true when the PR was squash-merged into a single commit.
	Squashed bool
	// SourceBranch describes where the PR was merged from.
	SourceBranch BranchRef
}
