// Package progress provides terminal capability detection and a spinner
// for long-running git scans. The spinner degrades to a no-op on
// non-interactive terminals so piped output stays clean.
package progress

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner wraps the terminal spinner with nil-safe no-op behavior when
// the terminal cannot display one.
type Spinner struct {
	inner   *spinner.Spinner
	symbols ProgressSymbols
}

// NewSpinner creates a spinner suited to the detected terminal. On a
// non-TTY the returned Spinner does nothing.
func NewSpinner(message string) *Spinner {
	caps := DetectTerminalCapabilities()
	symbols := SelectSymbols(caps)
	if !caps.IsTTY {
		return &Spinner{symbols: symbols}
	}

	s := spinner.New(spinner.CharSets[symbols.SpinnerSet], 100*time.Millisecond)
	s.Suffix = " " + message
	return &Spinner{inner: s, symbols: symbols}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if s.inner != nil {
		s.inner.Start()
	}
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	if s.inner != nil {
		s.inner.Stop()
	}
}

// StopWith halts the animation and prints a final status line.
func (s *Spinner) StopWith(ok bool, message string) {
	s.Stop()
	symbol := s.symbols.Checkmark
	if !ok {
		symbol = s.symbols.Failure
	}
	fmt.Printf("%s %s\n", symbol, message)
}
