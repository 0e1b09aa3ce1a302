package history

import (
	"context"
	"regexp"
	"strings"

	"github.com/ariel-frischer/monorel/internal/commitmsg"
	"github.com/ariel-frischer/monorel/internal/gitexec"
)

// squashPrefix marks the synthesized description of a squash-merged PR.
const squashPrefix = "[squashed] "

// prNumberPatterns are tried in order, most specific first. The last pattern
// accepts any #N substring; this is a heuristic and deliberately loose.
var prNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)merge pull request #(\d+)`),
	regexp.MustCompile(`(?i)pull request #(\d+)`),
	regexp.MustCompile(`#(\d+)`),
}

// mergeSourcePattern extracts the source branch from a merge subject
// ("Merge pull request #1 from owner/feature-x").
var mergeSourcePattern = regexp.MustCompile(`\bfrom\s+(\S+)`)

// Reconstructor recovers pull requests from merge commits.
type Reconstructor struct {
	git     *gitexec.Git
	fetcher *Fetcher
}

// NewReconstructor creates a Reconstructor over the given repository.
func NewReconstructor(git *gitexec.Git, fetcher *Fetcher) *Reconstructor {
	return &Reconstructor{git: git, fetcher: fetcher}
}

// Reconstruct recovers the PR behind a merge commit. Returns nil when the
// merge subject carries no PR number, i.e. the merge is not a trackable PR.
//
// Reconstruction is best-effort by design: individual commit fetch failures
// substitute placeholders, an empty parent diff still yields PRInfo with the
// extracted number, and any panic is converted to a warning plus a nil
// result so range resolution never aborts on one broken merge.
func (r *Reconstructor) Reconstruct(ctx context.Context, mergeHash string, msg commitmsg.Message) (pr *PRInfo) {
	defer func() {
		if rec := recover(); rec != nil {
			logDebug("[history] PR reconstruction failed for %s: %v", mergeHash, rec)
			pr = nil
		}
	}()

	number, ok := extractPRNumber(msg.Description)
	if !ok {
		return nil
	}

	info := &PRInfo{
		Number:       number,
		SourceBranch: extractSourceBranch(msg.Description),
	}

	hashes := r.git.MergeParentRange(ctx, mergeHash)
	switch {
	case len(hashes) > 1:
		// Regular merge: the branch's commits are all reachable.
		for _, hash := range hashes {
			commit, ok := r.fetcher.Fetch(ctx, hash)
			if !ok {
				logDebug("[history] commit %s in PR #%s failed to fetch, using placeholder", hash, number)
				commit = Placeholder(hash)
			}
			info.Commits = append(info.Commits, commit)
		}
	case len(hashes) == 1:
		// Squash merge: the whole PR collapsed into one commit.
		commit, ok := r.fetcher.Fetch(ctx, hashes[0])
		if !ok {
			commit = Placeholder(hashes[0])
		}
		commit.Message.Description = squashPrefix + commit.Message.Description
		info.Commits = []Commit{commit}
		info.Squashed = true
	}

	info.Stats = PRStats{
		CommitCount: len(info.Commits),
		FileCount:   countFiles(info.Commits),
	}
	info.Category = Categorize(msg, info.Commits)
	return info
}

// extractPRNumber tries the pattern ladder against a merge description.
// First match wins; no match means the merge is not a trackable PR.
func extractPRNumber(description string) (string, bool) {
	for _, pattern := range prNumberPatterns {
		if m := pattern.FindStringSubmatch(description); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// extractSourceBranch recovers the source branch descriptor from a merge
// subject. The short name is the last path segment of the full reference.
func extractSourceBranch(description string) BranchRef {
	m := mergeSourcePattern.FindStringSubmatch(description)
	if m == nil {
		return BranchRef{}
	}
	ref := strings.Trim(m[1], "'\"")
	name := ref
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		name = ref[i+1:]
	}
	return BranchRef{Name: name, Ref: ref}
}

// countFiles sums the changed-file counts across commits, deduplicated.
func countFiles(commits []Commit) int {
	seen := make(map[string]bool)
	for _, c := range commits {
		for _, f := range c.Files {
			seen[f] = true
		}
	}
	return len(seen)
}

// Categorize computes the dominant change category of a PR from its merge
// message and underlying commits.
//
// A dependency-bot marker or "dependency" keyword in the merge message
// short-circuits to dependencies. Otherwise each commit votes with a
// per-type score and the highest total wins; ties and all-zero scores fall
// back to other.
func Categorize(mergeMsg commitmsg.Message, commits []Commit) Category {
	if mergeMsg.IsDependency || mentionsDependency(mergeMsg) {
		return CategoryDependencies
	}

	scores := make(map[Category]int, len(Categories()))
	for _, commit := range commits {
		cat, weight := commitVote(commit.Message)
		scores[cat] += weight
	}

	best := CategoryOther
	bestScore := 0
	tied := false
	for _, cat := range Categories() {
		switch {
		case scores[cat] > bestScore:
			best = cat
			bestScore = scores[cat]
			tied = false
		case scores[cat] == bestScore && scores[cat] > 0:
			tied = true
		}
	}
	// Ties and all-zero scores both mean no category dominates.
	if bestScore == 0 || tied {
		return CategoryOther
	}
	return best
}

// CategoryOf classifies a single commit. Merge commits carry their
// reconstructed PR's category; plain commits vote alone.
func CategoryOf(commit Commit) Category {
	if commit.PR != nil && commit.PR.Category != "" {
		return commit.PR.Category
	}
	if commit.Message.IsDependency {
		return CategoryDependencies
	}
	cat, weight := commitVote(commit.Message)
	if weight == 0 {
		return CategoryOther
	}
	return cat
}

// mentionsDependency checks the merge description and body for the
// dependency keyword.
func mentionsDependency(msg commitmsg.Message) bool {
	if strings.Contains(strings.ToLower(msg.Description), "dependency") {
		return true
	}
	for _, line := range msg.Body {
		if strings.Contains(strings.ToLower(line), "dependency") {
			return true
		}
	}
	return false
}

// commitVote maps one commit message to a category vote with a weight.
func commitVote(msg commitmsg.Message) (Category, int) {
	desc := strings.ToLower(msg.Description)
	switch msg.Type {
	case "feat":
		return CategoryFeatures, 3
	case "fix":
		return CategoryBugfixes, 2
	case "docs":
		return CategoryDocumentation, 2
	case "refactor", "style", "perf":
		return CategoryRefactoring, 2
	case "ci", "build":
		return CategoryInfrastructure, 3
	case "chore", "deps":
		if containsAny(desc, "dep", "update", "upgrade") {
			return CategoryDependencies, 5
		}
		if msg.Type == "chore" && containsAny(desc, "ci", "build", "workflow") {
			return CategoryInfrastructure, 2
		}
	}
	return CategoryOther, 0
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
