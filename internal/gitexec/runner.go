// Package gitexec provides the git subprocess primitives used by the release
// analysis pipeline. Every operation is expressed over a small Runner
// interface so tests can substitute canned output, and a non-zero git exit is
// treated as a recoverable empty result rather than an error: the history
// being mined is human-authored and partially broken by design.
package gitexec

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Result holds the outcome of a single git invocation.
type Result struct {
	// ExitCode is the subprocess exit status. Zero means success.
	ExitCode int
	// Stdout is the captured standard output as text.
	Stdout string
}

// Ok reports whether the command exited successfully.
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// Runner executes a git command in a repository directory and returns its
// exit status and standard output. Implementations must not treat a non-zero
// exit as a Go error; only spawn failures and timeouts are errors.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (Result, error)
}

// ErrTimeout is returned by CLIRunner when a git subprocess exceeds its
// configured timeout. Hung git calls must not stall the analysis pipeline.
var ErrTimeout = errors.New("git command timed out")

// CLIRunner runs git via the git CLI with an optional per-command timeout.
type CLIRunner struct {
	// Timeout bounds each subprocess. Zero disables the bound.
	Timeout time.Duration
}

// NewCLIRunner creates a runner with the given per-command timeout in seconds.
func NewCLIRunner(timeoutSeconds int) *CLIRunner {
	return &CLIRunner{Timeout: time.Duration(timeoutSeconds) * time.Second}
}

// Run executes `git <args>` in dir and captures stdout.
// A non-zero exit produces Result{ExitCode: n} with no error.
func (r *CLIRunner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	logDebug("[gitexec] git %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	output, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return Result{ExitCode: -1}, ErrTimeout
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Command ran but exited non-zero. Recoverable.
			logDebug("[gitexec] git %s: exit %d", args[0], exitErr.ExitCode())
			return Result{ExitCode: exitErr.ExitCode(), Stdout: string(output)}, nil
		}
		return Result{ExitCode: -1}, err
	}

	return Result{ExitCode: 0, Stdout: string(output)}, nil
}

// splitLines splits command output into trimmed non-empty lines.
func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
