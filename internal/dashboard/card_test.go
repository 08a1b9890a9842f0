package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+25.0%", formatPercent(25))
	assert.Equal(t, "-12.5%", formatPercent(-12.5))
	assert.Equal(t, "+0.0%", formatPercent(0))
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "just now"},
		{500 * time.Millisecond, "just now"},
		{time.Second, "1s ago"},
		{59 * time.Second, "59s ago"},
		{3 * time.Minute, "3m ago"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAge(tt.d))
		})
	}
}

func TestRenderCard(t *testing.T) {
	out := renderCard("Total Visits", "◉ live", []string{"1,234"}, cardWidth, false)

	assert.Contains(t, out, "Total Visits")
	assert.Contains(t, out, "◉ live")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "╭", "rounded border")
}
