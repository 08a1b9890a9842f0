package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/vdash/internal/cache"
	"github.com/rileyhilliard/vdash/internal/util"
	"github.com/rileyhilliard/vdash/internal/visits"
)

// Card layout constants
const (
	cardWidth      = 34
	chartHeight    = 6 // braille rows
	minChartWidth  = 20
	sparklineWidth = 28
)

// formatPercent renders a signed one-decimal percentage, e.g. "+25.0%".
func formatPercent(p float64) string {
	return fmt.Sprintf("%+.1f%%", p)
}

// renderCard frames a titled card. Stale cards get a warning border.
func renderCard(title, badge string, body []string, width int, stale bool) string {
	style := CardStyle
	if stale {
		style = CardStaleStyle
	}
	inner := width - 4

	head := TitleStyle.Render(title)
	if badge != "" {
		gap := inner - lipgloss.Width(head) - lipgloss.Width(badge)
		if gap < 1 {
			gap = 1
		}
		head += strings.Repeat(" ", gap) + badge
	}

	lines := append([]string{head}, body...)
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// slotStatus returns the header badge and, for a slot that was never
// populated, the placeholder body.
func slotStatus[T any](e cache.Entry[T], spin string) (badge string, placeholder []string) {
	if !e.Present() {
		if e.LastError != nil {
			return "", []string{
				ErrorStyle.Render(SymbolError + " Unavailable"),
				MutedStyle.Render(e.Kind().String() + ", retrying"),
			}
		}
		return "", []string{LabelStyle.Render(spin + " Loading...")}
	}
	if e.Stale() {
		return StaleBadgeStyle.Render(SymbolStale + " stale"), nil
	}
	return LiveBadgeStyle.Render(SymbolLive + " live"), nil
}

// renderTotalCard renders cumulative visits with the live history sparkline.
func (m Model) renderTotalCard(snap cache.Snapshot, width int) string {
	e := snap.Counter
	badge, body := slotStatus(e, m.spinner.View())
	if body == nil {
		body = []string{ValueStyle.Render(util.FormatCount(e.Value.TotalVisits))}
		if m.history != nil && m.history.Count() >= 2 {
			spark := RenderSparkline(m.history.Totals(sparklineWidth), min(sparklineWidth, width-4))
			body = append(body, lipgloss.NewStyle().Foreground(ColorGraph).Render(spark))
			if g := m.history.Growth(); g > 0 {
				body = append(body, MutedStyle.Render("+"+util.FormatCount(g)+" since launch"))
			}
		}
	}
	return renderCard("Total Visits", badge, body, width, e.Stale())
}

// renderTodayCard renders today's visits against yesterday.
func (m Model) renderTodayCard(snap cache.Snapshot, d visits.DerivedMetrics, width int) string {
	badge, body := slotStatus(snap.Counter, m.spinner.View())
	if body == nil {
		arrow := SymbolDown
		if d.IsIncreasing {
			arrow = SymbolUp
		}
		trend := TrendStyle(d.IsIncreasing).Render(arrow + " " + formatPercent(d.TrendPercent))
		body = []string{
			ValueStyle.Render(util.FormatCount(d.TodayVisits)) + "  " + trend,
			LabelStyle.Render("Yesterday: " + util.FormatCount(d.YesterdayVisits)),
		}
	}
	stale := snap.Counter.Stale() || snap.Trends.Stale()
	return renderCard("Today's Visits", badge, body, width, stale)
}

// renderChartCard renders the daily trend chart.
func (m Model) renderChartCard(snap cache.Snapshot, width int) string {
	e := snap.Trends
	badge, body := slotStatus(e, m.spinner.View())
	if body == nil {
		points := visits.Points(*e.Value)
		if len(points) == 0 {
			body = []string{MutedStyle.Render("No trend data yet")}
		} else {
			body = strings.Split(RenderTrendChart(points, max(width-4, minChartWidth), chartHeight, m.chartStyle), "\n")
		}
		badge = MutedStyle.Render("["+m.chartStyle.String()+"] ") + badge
	}
	return renderCard("Daily Visits", badge, body, width, e.Stale())
}
