package cli

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/rileyhilliard/vdash/internal/ui"
)

var stderrIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

var progressOutput io.Writer = os.Stderr

// withSpinner runs fn behind a spinner on stderr. The spinner is skipped
// in machine mode and when stderr is not a terminal. With report set a
// result line with the elapsed time is left behind; otherwise the spinner line is cleared.
func withSpinner(label string, report bool, fn func() error) error {
	if MachineMode() || !stderrIsTerminal() {
		return fn()
	}

	s := ui.NewSpinner(progressOutput, label)
	s.Start()
	err := fn()
	if report {
		s.Done(err)
	} else {
		s.Stop()
	}
	return err
}
