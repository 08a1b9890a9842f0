package doctor

import (
	"context"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// TerminalCheck reports whether stdout can host the live dashboard.
type TerminalCheck struct {
	IsTerminal func() bool
}

func (c *TerminalCheck) Name() string     { return "terminal" }
func (c *TerminalCheck) Category() string { return CategoryTerminal }

func (c *TerminalCheck) Run(ctx context.Context) CheckResult {
	if c.IsTerminal == nil || !c.IsTerminal() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "stdout is not a terminal, 'vdash' will print a snapshot instead of the dashboard",
			Suggestion: "Run vdash directly in a terminal for the live view",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Interactive terminal, " + profileName(lipgloss.ColorProfile()) + " colors",
	}
}

func (c *TerminalCheck) Fix() error { return nil }

func profileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "true"
	case termenv.ANSI256:
		return "256"
	case termenv.ANSI:
		return "16"
	default:
		return "no"
	}
}
