package history

import (
	"context"
	"strings"

	"github.com/ariel-frischer/monorel/internal/commitmsg"
	"github.com/ariel-frischer/monorel/internal/gitexec"
)

// Fetcher loads and parses individual commits through the git collaborator.
type Fetcher struct {
	git *gitexec.Git
}

// NewFetcher creates a Fetcher over the given repository.
func NewFetcher(git *gitexec.Git) *Fetcher {
	return &Fetcher{git: git}
}

// Fetch loads a commit's metadata and changed files and parses its message.
// The second return value is false when the commit cannot be read; callers
// decide whether to drop the commit or substitute a placeholder.
func (f *Fetcher) Fetch(ctx context.Context, hash string) (Commit, bool) {
	detail, ok := f.git.Show(ctx, hash)
	if !ok {
		return Commit{}, false
	}

	raw := RawCommit{
		Hash:    detail.Hash,
		Author:  detail.Author,
		Date:    detail.Date,
		Subject: detail.Subject,
	}

	full := detail.Subject
	if detail.Body != "" {
		full += "\n" + detail.Body
	}
	msg := commitmsg.Parse(full)
	raw.Body = msg.Body

	return Commit{
		RawCommit: raw,
		Message:   msg,
		Files:     f.git.ChangedFiles(ctx, hash),
	}, true
}

// Placeholder builds a minimal stand-in for a commit that failed to fetch.
// It carries only the hash; the message classifies as "other".
func Placeholder(hash string) Commit {
	return Commit{
		RawCommit: RawCommit{Hash: hash},
		Message:   commitmsg.Parse(""),
	}
}

// touchesPath reports whether any of the commit's changed files live under
// the given repository-relative directory. The root path "." matches any
// changed file.
func touchesPath(files []string, dir string) bool {
	if dir == "." {
		return len(files) > 0
	}
	prefix := strings.TrimSuffix(dir, "/") + "/"
	for _, file := range files {
		if strings.HasPrefix(file, prefix) {
			return true
		}
	}
	return false
}
