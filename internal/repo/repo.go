// Package repo locates and validates the monorepo the CLI operates on.
// It uses the go-git library for discovery; all history queries go through
// the subprocess runner instead.
package repo

import (
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
)

// debugLogger is a no-op by default. Set it via SetDebugLogger to enable
// debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for repository discovery.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// open opens the repository containing path, traversing up the directory
// tree to find the .git directory. An empty path means the current
// working directory.
func open(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[repo] opening repository at %s", path)

	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return r, nil
}

// Root returns the absolute path of the repository root containing path.
func Root(path string) (string, error) {
	r, err := open(path)
	if err != nil {
		return "", err
	}

	worktree, err := r.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[repo] root: %s", root)
	return root, nil
}

// CurrentBranch returns the checked-out branch name, or an empty string
// in detached HEAD state.
func CurrentBranch(path string) (string, error) {
	r, err := open(path)
	if err != nil {
		return "", err
	}

	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		logDebug("[repo] detached HEAD state")
		return "", nil
	}
	return head.Name().Short(), nil
}

// IsRepository reports whether path is inside a git repository.
func IsRepository(path string) bool {
	_, err := open(path)
	return err == nil
}
