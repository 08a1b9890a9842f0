package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓"
	SymbolFail    = "✗"
	SymbolStale   = "◔"
	SymbolUp      = "▲"
	SymbolDown    = "▼"
	SymbolBullet  = "•"
)

// TrendSymbol returns the arrow for a day-over-day change.
func TrendSymbol(increasing bool) string {
	if increasing {
		return SymbolUp
	}
	return SymbolDown
}
