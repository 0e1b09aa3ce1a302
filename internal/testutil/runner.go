// Package testutil provides test utilities and helpers for monorel tests.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/ariel-frischer/monorel/internal/gitexec"
)

// ScriptedRunner is a gitexec.Runner backed by canned responses, keyed by the
// space-joined argument list. Unscripted commands return exit code 128 with
// empty output, mirroring how git reports unknown refs.
//
// The runner is safe for concurrent use so it can back the bounded fan-out
// paths in range resolution tests.
type ScriptedRunner struct {
	mu        sync.Mutex
	responses map[string]gitexec.Result
	errs      map[string]error
	calls     []string
}

// NewScriptedRunner creates an empty scripted runner.
func NewScriptedRunner() *ScriptedRunner {
	return &ScriptedRunner{
		responses: make(map[string]gitexec.Result),
		errs:      make(map[string]error),
	}
}

// Stub registers stdout for the given git argument list with exit code 0.
func (r *ScriptedRunner) Stub(args string, stdout string) *ScriptedRunner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[args] = gitexec.Result{ExitCode: 0, Stdout: stdout}
	return r
}

// StubExit registers a response with an explicit exit code.
func (r *ScriptedRunner) StubExit(args string, exitCode int, stdout string) *ScriptedRunner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[args] = gitexec.Result{ExitCode: exitCode, Stdout: stdout}
	return r
}

// StubErr registers a spawn-level error for the given argument list.
func (r *ScriptedRunner) StubErr(args string, err error) *ScriptedRunner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[args] = err
	return r
}

// Run implements gitexec.Runner.
func (r *ScriptedRunner) Run(_ context.Context, _ string, args ...string) (gitexec.Result, error) {
	key := strings.Join(args, " ")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, key)

	if err, ok := r.errs[key]; ok {
		return gitexec.Result{ExitCode: -1}, err
	}
	if res, ok := r.responses[key]; ok {
		return res, nil
	}
	return gitexec.Result{ExitCode: 128}, nil
}

// Calls returns the argument lists of all executed commands, in order.
func (r *ScriptedRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// CallCount returns the number of commands whose argument list contains substr.
func (r *ScriptedRunner) CallCount(substr string) int {
	n := 0
	for _, call := range r.Calls() {
		if strings.Contains(call, substr) {
			n++
		}
	}
	return n
}
