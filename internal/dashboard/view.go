package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/vdash/internal/cache"
	"github.com/rileyhilliard/vdash/internal/notify"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	snap := m.cache.Snapshot()

	var b strings.Builder
	b.WriteString(m.renderHeader(snap))
	b.WriteString("\n\n")
	b.WriteString(m.renderCards(snap))
	b.WriteString("\n")
	if toast := m.renderToast(); toast != "" {
		b.WriteString(toast)
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title and the time since the counter last
// changed.
func (m Model) renderHeader(snap cache.Snapshot) string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("vdash")

	status := "waiting for first update"
	if snap.Counter.Present() {
		status = "updated " + formatAge(snap.Counter.Age(m.now()))
	}
	if snap.Counter.Refreshing || snap.Trends.Refreshing {
		status += " " + m.spinner.View()
	}

	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(" | " + status)

	return HeaderStyle.Render(title + stats)
}

func formatAge(d time.Duration) string {
	s := int(d / time.Second)
	switch {
	case s <= 0:
		return "just now"
	case s < 60:
		return fmt.Sprintf("%ds ago", s)
	default:
		return fmt.Sprintf("%dm ago", s/60)
	}
}

// renderCards lays the two stat cards side by side when they fit, with the
// chart below.
func (m Model) renderCards(snap cache.Snapshot) string {
	d := snap.Derive()
	total := m.renderTotalCard(snap, cardWidth)
	today := m.renderTodayCard(snap, d, cardWidth)

	var stats string
	if m.width == 0 || m.width >= 2*(cardWidth+1) {
		stats = lipgloss.JoinHorizontal(lipgloss.Top, total, today)
	} else {
		stats = lipgloss.JoinVertical(lipgloss.Left, total, today)
	}

	chartWidth := 2*cardWidth + 1
	if m.width > 0 {
		chartWidth = max(m.width-1, minChartWidth+4)
	}
	return lipgloss.JoinVertical(lipgloss.Left, stats, m.renderChartCard(snap, chartWidth))
}

// renderToast renders the current notification, if any.
func (m Model) renderToast() string {
	if m.toast == nil {
		return ""
	}
	if m.toast.Severity == notify.SeverityError {
		return ToastErrorStyle.Render(SymbolError + " " + m.toast.Message)
	}
	return ToastInfoStyle.Render(m.toast.Message)
}

// renderFooter renders the short keybinding help.
func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}
