package gitexec

import (
	"context"
	"strings"
)

// commitFieldSep separates fields in --format output. The unit separator is
// the one byte that never shows up in commit subjects or author names.
const commitFieldSep = "\x1f"

// CommitDetail is the raw metadata of a single commit as reported by git.
// Dates are kept as strings; git emits ISO-ish timestamps but history
// rewrites can leave values that do not parse.
type CommitDetail struct {
	Hash    string
	Author  string
	Date    string
	Subject string
	Body    string
}

// Git exposes the git plumbing operations used by the analysis pipeline.
// All operations degrade to empty results on git failure; the only errors
// surfaced are subprocess spawn failures and timeouts.
type Git struct {
	runner Runner
	dir    string
}

// New creates a Git bound to the repository at dir.
func New(runner Runner, dir string) *Git {
	return &Git{runner: runner, dir: dir}
}

// RevListOptions filters a RevList query.
type RevListOptions struct {
	// Path limits the listing to commits touching the given path.
	Path string
	// MergesOnly limits the listing to merge commits.
	MergesOnly bool
}

// RevList returns the commit hashes in from..to, newest first.
// Returns nil when the range cannot be enumerated.
func (g *Git) RevList(ctx context.Context, from, to string, opts RevListOptions) []string {
	args := []string{"rev-list"}
	if opts.MergesOnly {
		args = append(args, "--merges")
	}
	args = append(args, from+".."+to)
	if opts.Path != "" {
		args = append(args, "--", opts.Path)
	}

	res, err := g.runner.Run(ctx, g.dir, args...)
	if err != nil || !res.Ok() {
		return nil
	}
	return splitLines(res.Stdout)
}

// MergeParentRange returns the hashes introduced by a merge commit, i.e. the
// commits reachable from its second parent but not its first. A squash merge
// or a fetch failure yields a short or empty list.
func (g *Git) MergeParentRange(ctx context.Context, mergeHash string) []string {
	res, err := g.runner.Run(ctx, g.dir, "rev-list", mergeHash+"^1.."+mergeHash+"^2")
	if err != nil || !res.Ok() {
		return nil
	}
	return splitLines(res.Stdout)
}

// Show returns the metadata of a single commit.
// The second return value is false when the commit cannot be read.
func (g *Git) Show(ctx context.Context, hash string) (CommitDetail, bool) {
	format := strings.Join([]string{"%H", "%an", "%aI", "%s", "%b"}, "%x1f")
	res, err := g.runner.Run(ctx, g.dir, "show", "-s", "--format="+format, hash)
	if err != nil || !res.Ok() {
		return CommitDetail{}, false
	}

	parts := strings.SplitN(res.Stdout, commitFieldSep, 5)
	if len(parts) < 4 {
		return CommitDetail{}, false
	}

	detail := CommitDetail{
		Hash:    strings.TrimSpace(parts[0]),
		Author:  strings.TrimSpace(parts[1]),
		Date:    strings.TrimSpace(parts[2]),
		Subject: strings.TrimSpace(parts[3]),
	}
	if len(parts) == 5 {
		detail.Body = strings.TrimRight(parts[4], "\n")
	}
	return detail, true
}

// ChangedFiles returns the paths touched by a commit.
// For merge commits this is the combined diff against the first parent.
func (g *Git) ChangedFiles(ctx context.Context, hash string) []string {
	res, err := g.runner.Run(ctx, g.dir, "show", "--name-only", "--first-parent", "--pretty=format:", hash)
	if err != nil || !res.Ok() {
		return nil
	}
	return splitLines(res.Stdout)
}

// FileAtRef reads the content of path as it existed at ref.
// The second return value is false when the file does not exist at the ref.
func (g *Git) FileAtRef(ctx context.Context, ref, path string) (string, bool) {
	res, err := g.runner.Run(ctx, g.dir, "show", ref+":"+path)
	if err != nil || !res.Ok() {
		return "", false
	}
	return res.Stdout, true
}

// TagRef is a single tag as listed by git, with its target commit and
// creation metadata.
type TagRef struct {
	Name    string
	SHA     string
	Date    string
	Message string
}

// Tags lists all tags matching the given prefix, in version-sorted order
// (oldest version first).
func (g *Git) Tags(ctx context.Context, prefix string) []TagRef {
	format := "%(refname:strip=2)%1f%(objectname)%1f%(creatordate:iso-strict)%1f%(contents:subject)"
	// tag --format uses %1f for the unit separator, unlike log's %x1f.
	res, err := g.runner.Run(ctx, g.dir,
		"tag", "-l", prefix+"*", "--sort=v:refname", "--format="+format)
	if err != nil || !res.Ok() {
		return nil
	}

	var tags []TagRef
	for _, line := range splitLines(res.Stdout) {
		parts := strings.SplitN(line, commitFieldSep, 4)
		if len(parts) < 2 {
			continue
		}
		tag := TagRef{Name: parts[0], SHA: parts[1]}
		if len(parts) > 2 {
			tag.Date = parts[2]
		}
		if len(parts) > 3 {
			tag.Message = parts[3]
		}
		tags = append(tags, tag)
	}
	return tags
}

// TagExists reports whether a tag with the exact name exists.
func (g *Git) TagExists(ctx context.Context, name string) bool {
	res, err := g.runner.Run(ctx, g.dir, "tag", "-l", name)
	if err != nil || !res.Ok() {
		return false
	}
	return strings.TrimSpace(res.Stdout) == name
}

// CreateTag creates an annotated tag at HEAD.
func (g *Git) CreateTag(ctx context.Context, name, message string) bool {
	res, err := g.runner.Run(ctx, g.dir, "tag", "-a", name, "-m", message)
	return err == nil && res.Ok()
}

// DeleteTag deletes a local tag.
func (g *Git) DeleteTag(ctx context.Context, name string) bool {
	res, err := g.runner.Run(ctx, g.dir, "tag", "-d", name)
	return err == nil && res.Ok()
}

// ResolveRef resolves a reference to a full commit sha.
// The second return value is false when the reference is unknown.
func (g *Git) ResolveRef(ctx context.Context, ref string) (string, bool) {
	res, err := g.runner.Run(ctx, g.dir, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil || !res.Ok() {
		return "", false
	}
	sha := strings.TrimSpace(res.Stdout)
	if sha == "" {
		return "", false
	}
	return sha, true
}

// IsAncestor reports whether ancestor is reachable from descendant.
func (g *Git) IsAncestor(ctx context.Context, ancestor, descendant string) bool {
	res, err := g.runner.Run(ctx, g.dir, "merge-base", "--is-ancestor", ancestor, descendant)
	return err == nil && res.Ok()
}

// PushTag pushes a single tag to origin.
func (g *Git) PushTag(ctx context.Context, name string) bool {
	res, err := g.runner.Run(ctx, g.dir, "push", "origin", name)
	return err == nil && res.Ok()
}

// Push pushes the current branch to origin.
func (g *Git) Push(ctx context.Context) bool {
	res, err := g.runner.Run(ctx, g.dir, "push")
	return err == nil && res.Ok()
}

// Commit stages the given paths and records a commit with the message.
func (g *Git) Commit(ctx context.Context, message string, paths ...string) bool {
	addArgs := append([]string{"add", "--"}, paths...)
	if res, err := g.runner.Run(ctx, g.dir, addArgs...); err != nil || !res.Ok() {
		return false
	}
	res, err := g.runner.Run(ctx, g.dir, "commit", "-m", message)
	return err == nil && res.Ok()
}
