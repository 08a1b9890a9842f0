package dashboard

import "github.com/charmbracelet/lipgloss"

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97") // Neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // Neon purple

	ColorGraph = lipgloss.Color("#00FFFF") // Neon cyan
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	CardStaleStyle = CardStyle.
			BorderForeground(ColorWarning)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	UpStyle = lipgloss.NewStyle().
		Foreground(ColorHealthy)

	DownStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	StaleBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	LiveBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy)

	ToastErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true).
			Padding(0, 1)

	ToastInfoStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim).
			Padding(0, 1)
)

// Status glyphs
const (
	SymbolUp    = "▲"
	SymbolDown  = "▼"
	SymbolLive  = "◉"
	SymbolStale = "◔"
	SymbolError = "✗"
)

// LoadingSpinnerFrames animate the placeholder shown until a slot is first
// populated.
var LoadingSpinnerFrames = []string{"◐", "◓", "◑", "◒"}

// TrendStyle returns the style for a day-over-day change.
func TrendStyle(increasing bool) lipgloss.Style {
	if increasing {
		return UpStyle
	}
	return DownStyle
}
