package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err          *CLIError
		wantCategory ErrorCategory
	}{
		"argument":      {err: NewArgumentError("bad"), wantCategory: Argument},
		"configuration": {err: NewConfigError("bad"), wantCategory: Configuration},
		"input":         {err: NewInputError("bad"), wantCategory: Input},
		"invariant":     {err: NewInvariantError("bad"), wantCategory: Invariant},
		"runtime":       {err: NewRuntimeError("bad"), wantCategory: Runtime},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.wantCategory, tc.err.Category)
			assert.Equal(t, "bad", tc.err.Message)
		})
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	base := fmt.Errorf("underlying failure")
	wrapped := Wrap(base, Runtime, "try again")

	assert.Equal(t, Runtime, wrapped.Category)
	assert.Contains(t, wrapped.Message, "underlying failure")
	assert.Equal(t, []string{"try again"}, wrapped.Remediation)
}

func TestAsCLIError(t *testing.T) {
	t.Parallel()

	cliErr := NewInputError("invalid ref")
	assert.Equal(t, cliErr, AsCLIError(cliErr))
	assert.Equal(t, cliErr, AsCLIError(fmt.Errorf("context: %w", cliErr)))
	assert.Nil(t, AsCLIError(fmt.Errorf("plain")))
	assert.Nil(t, AsCLIError(nil))
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	err := NewArgumentErrorWithUsage(
		"missing package argument",
		"monorel analyze <package> --from <ref>",
		"Pass the package name as the first argument",
	)

	out := FormatErrorPlain(err)
	assert.Contains(t, out, "Error [Argument Error]: missing package argument")
	assert.Contains(t, out, "Usage: monorel analyze <package> --from <ref>")
	assert.Contains(t, out, "To fix this:")
	assert.Contains(t, out, "Pass the package name")
}

func TestDomainMessages(t *testing.T) {
	t.Parallel()

	ref := InvalidReference("wip-branch")
	assert.Equal(t, Input, ref.Category)
	assert.Contains(t, ref.Message, "wip-branch")

	ahead := VersionAheadOfTags("api", "0.3.0", "api-v0.2.0")
	require.Equal(t, Invariant, ahead.Category)
	assert.Contains(t, ahead.Message, "0.3.0")
	assert.Contains(t, ahead.Message, "api-v0.2.0")
}
