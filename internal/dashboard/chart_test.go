package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vdash/internal/visits"
)

func point(date string, v int64) visits.ChartPoint {
	day, ok := visits.DayOfMonth(date)
	return visits.ChartPoint{Day: day, DayValid: ok, Visits: v, Date: date}
}

func blankColumn(c *canvas, col int) bool {
	for _, row := range c.cells {
		if row[col] != brailleBase {
			return false
		}
	}
	return true
}

func TestChartStyle(t *testing.T) {
	assert.Equal(t, "line", ChartLine.String())
	assert.Equal(t, "area", ChartArea.String())
	assert.Equal(t, ChartArea, ChartLine.Toggle())
	assert.Equal(t, ChartLine, ChartLine.Toggle().Toggle())
}

func TestCanvas_Set(t *testing.T) {
	c := newCanvas(1, 1)

	c.set(0, 0) // bottom-left, dot 7
	c.set(1, 3) // top-right, dot 4
	c.set(5, 5) // out of range, ignored

	assert.Equal(t, brailleBase|1<<6|1<<3, c.cells[0][0])
}

func TestCanvas_PlotJoinsValidPoints(t *testing.T) {
	c := newCanvas(20, 2)
	points := []visits.ChartPoint{
		point("2024-01-01", 0),
		point("2024-01-02", 10),
	}

	xs := c.plot(points, 10, false)

	assert.Equal(t, []int{0, 39}, xs)
	for col := 0; col < c.width; col++ {
		assert.False(t, blankColumn(c, col), "column %d should carry the line", col)
	}
}

func TestCanvas_PlotInvalidPointLeavesGap(t *testing.T) {
	c := newCanvas(20, 2)
	points := []visits.ChartPoint{
		point("2024-01-01", 10),
		point("2024-01-xx", 10),
		point("2024-01-03", 10),
	}

	xs := c.plot(points, 10, false)

	require.Equal(t, []int{0, 19, 39}, xs)
	assert.False(t, blankColumn(c, 0))
	assert.True(t, blankColumn(c, 9), "invalid point is not drawn")
	assert.True(t, blankColumn(c, 5), "no line across the gap")
	assert.False(t, blankColumn(c, 19))
}

func TestCanvas_PlotAreaFillsToBaseline(t *testing.T) {
	line := newCanvas(10, 2)
	area := newCanvas(10, 2)
	points := []visits.ChartPoint{
		point("2024-01-01", 8),
		point("2024-01-02", 8),
	}

	line.plot(points, 8, false)
	area.plot(points, 8, true)

	bottom := len(area.cells) - 1
	for col := 0; col < area.width; col++ {
		assert.NotEqual(t, brailleBase, area.cells[bottom][col], "area fills column %d", col)
		assert.Equal(t, brailleBase, line.cells[bottom][col], "line stays at the top in column %d", col)
	}
}

func TestPlotY(t *testing.T) {
	tests := []struct {
		name string
		v    int64
		maxV int64
		want int
	}{
		{"zero max", 5, 0, 0},
		{"zero value", 0, 10, 0},
		{"max value", 10, 10, 7},
		{"half", 5, 10, 4},
		{"over max is clamped", 20, 10, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plotY(tt.v, tt.maxV, 8))
		})
	}
}

func TestPlotX(t *testing.T) {
	assert.Equal(t, 0, plotX(0, 1, 40))
	assert.Equal(t, 0, plotX(0, 5, 40))
	assert.Equal(t, 39, plotX(4, 5, 40))
}

func TestRenderTrendChart(t *testing.T) {
	points := []visits.ChartPoint{
		point("2024-03-10", 3),
		point("2024-03-11", 12),
		point("2024-03-bad", 7),
		point("2024-03-13", 5),
	}

	out := RenderTrendChart(points, 40, 3, ChartLine)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 4, "three chart rows and an axis row")
	assert.Contains(t, lines[0], "12")
	assert.Contains(t, lines[2], "0")
	axis := lines[3]
	for _, label := range []string{"10", "11", "?", "13"} {
		assert.Contains(t, axis, label)
	}
	assert.Less(t, strings.Index(axis, "11"), strings.Index(axis, "?"), "order is preserved")
}

func TestRenderTrendChart_Empty(t *testing.T) {
	assert.Empty(t, RenderTrendChart(nil, 40, 3, ChartLine))
	assert.Empty(t, RenderTrendChart([]visits.ChartPoint{point("2024-01-01", 1)}, 0, 3, ChartLine))
}

func TestAxisLabels_SkipsOverlaps(t *testing.T) {
	points := []visits.ChartPoint{point("2024-01-10", 1), point("2024-01-11", 1), point("2024-01-12", 1)}

	got := axisLabels(points, []int{0, 2, 8}, 10)

	assert.Equal(t, "10  12", got)
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		width int
		want  string
	}{
		{"empty", nil, 10, ""},
		{"zero width", []float64{1, 2}, 0, ""},
		{"flat", []float64{5, 5, 5}, 10, "▁▁▁"},
		{"rising", []float64{0, 7}, 10, "▁█"},
		{"downsampled keeps peaks", []float64{0, 7, 0, 0}, 2, "█▁"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderSparkline(tt.data, tt.width))
		})
	}
}
