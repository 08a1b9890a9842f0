package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestNewTable(t *testing.T) {
	columns := []TableColumn{
		{Title: "Date", Width: 12},
		{Title: "Visits", Width: 8},
	}
	rows := []table.Row{
		{"2024-05-01", "4"},
		{"2024-05-02", "8"},
	}

	view := NewTable(columns, rows).View()

	assert.Contains(t, view, "Date")
	assert.Contains(t, view, "Visits")
	assert.Contains(t, view, "2024-05-01")
	assert.Contains(t, view, "2024-05-02")
}

func TestRenderTable(t *testing.T) {
	columns := []TableColumn{{Title: "Day", Width: 5}}

	assert.Empty(t, RenderTable(columns, nil))
	assert.Contains(t, RenderTable(columns, [][]string{{"17"}}), "17")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", PadRight("ab", 4))
	assert.Equal(t, "abcdef", PadRight("abcdef", 4))
	assert.Equal(t, "▲ ", PadRight("▲", 2))
}

func TestApplyColorMode(t *testing.T) {
	original := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(original) })
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR", "")

	tests := []struct {
		name    string
		start   termenv.Profile
		mode    string
		noColor bool
		want    termenv.Profile
	}{
		{"never", termenv.TrueColor, ColorModeNever, false, termenv.Ascii},
		{"no-color flag wins", termenv.TrueColor, ColorModeAlways, true, termenv.Ascii},
		{"always upgrades a pipe", termenv.Ascii, ColorModeAlways, false, termenv.ANSI},
		{"always keeps a richer profile", termenv.TrueColor, ColorModeAlways, false, termenv.TrueColor},
		{"auto keeps detection", termenv.ANSI256, ColorModeAuto, false, termenv.ANSI256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lipgloss.SetColorProfile(tt.start)
			assert.Equal(t, tt.want, ApplyColorMode(tt.mode, tt.noColor))
		})
	}
}

func TestTrendSymbol(t *testing.T) {
	assert.Equal(t, SymbolUp, TrendSymbol(true))
	assert.Equal(t, SymbolDown, TrendSymbol(false))
}
