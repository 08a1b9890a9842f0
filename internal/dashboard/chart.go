package dashboard

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/vdash/internal/visits"
)

// ChartStyle selects how the trend chart is drawn.
type ChartStyle int

const (
	ChartLine ChartStyle = iota
	ChartArea
)

// String returns a human-readable label for the chart style.
func (s ChartStyle) String() string {
	if s == ChartArea {
		return "area"
	}
	return "line"
}

// Toggle switches between line and area.
func (s ChartStyle) Toggle() ChartStyle {
	if s == ChartArea {
		return ChartLine
	}
	return ChartArea
}

// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
const brailleBase = '\u2800'

// brailleDots maps [row][col] within a cell to the bit offset.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// canvas is a braille grid addressed in dot coordinates with y=0 at the
// bottom.
type canvas struct {
	width, height int // in characters
	cells         [][]rune
}

func newCanvas(width, height int) *canvas {
	cells := make([][]rune, height)
	for i := range cells {
		cells[i] = make([]rune, width)
		for j := range cells[i] {
			cells[i][j] = brailleBase
		}
	}
	return &canvas{width: width, height: height, cells: cells}
}

func (c *canvas) dotsX() int { return c.width * 2 }
func (c *canvas) dotsY() int { return c.height * 4 }

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.dotsX() || y >= c.dotsY() {
		return
	}
	row := c.height - 1 - y/4
	subRow := 3 - y%4
	c.cells[row][x/2] |= rune(1) << brailleDots[subRow][x%2]
}

// column fills x from the bottom up to and including y.
func (c *canvas) column(x, y int) {
	for dy := 0; dy <= y; dy++ {
		c.set(x, dy)
	}
}

// line draws a Bresenham line between two dots. With fill set every
// touched column is filled down to the baseline.
func (c *canvas) line(x0, y0, x1, y1 int, fill bool) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if fill {
			c.column(x0, y0)
		} else {
			c.set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) rows() []string {
	out := make([]string, c.height)
	for i, row := range c.cells {
		out[i] = string(row)
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// plotX spreads n points evenly across dots columns.
func plotX(i, n, dots int) int {
	if n <= 1 || dots <= 1 {
		return 0
	}
	return i * (dots - 1) / (n - 1)
}

// plotY scales v into [0, dots-1].
func plotY(v, maxV int64, dots int) int {
	if maxV <= 0 || v <= 0 {
		return 0
	}
	y := int(math.Round(float64(v) / float64(maxV) * float64(dots-1)))
	return clampInt(y, dots-1)
}

func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// RenderTrendChart draws the projected trend as a braille chart of width x
// height characters plus a y-axis gutter and a day-of-month axis row.
// Points without a valid day are labelled "?" and break the line on both
// sides. When there are more points than dot columns the oldest are cut.
func RenderTrendChart(points []visits.ChartPoint, width, height int, style ChartStyle) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	maxV := maxVisits(points)
	top := strconv.FormatInt(maxV, 10)
	gutter := len(top) + 1

	plotWidth := width - gutter
	if plotWidth < 1 {
		plotWidth = 1
	}
	c := newCanvas(plotWidth, height)
	if len(points) > c.dotsX() {
		points = points[len(points)-c.dotsX():]
	}
	xs := c.plot(points, maxV, style == ChartArea)

	graph := lipgloss.NewStyle().Foreground(ColorGraph)
	axis := MutedStyle

	var lines []string
	for i, row := range c.rows() {
		label := ""
		switch i {
		case 0:
			label = top
		case c.height - 1:
			label = "0"
		}
		lines = append(lines, axis.Render(padLeft(label, gutter-1)+" ")+graph.Render(row))
	}
	lines = append(lines, strings.Repeat(" ", gutter)+axis.Render(axisLabels(points, xs, plotWidth)))
	return strings.Join(lines, "\n")
}

func maxVisits(points []visits.ChartPoint) int64 {
	var m int64
	for _, p := range points {
		m = max(m, p.Visits)
	}
	return m
}

// plot draws points scaled to maxV and returns each point's dot column.
// Consecutive valid points are joined; an invalid point is skipped and
// breaks the line.
func (c *canvas) plot(points []visits.ChartPoint, maxV int64, fill bool) []int {
	xs := make([]int, len(points))
	prev := -1
	for i, p := range points {
		xs[i] = plotX(i, len(points), c.dotsX())
		if !p.DayValid {
			prev = -1
			continue
		}
		y := plotY(p.Visits, maxV, c.dotsY())
		switch {
		case prev >= 0:
			py := plotY(points[prev].Visits, maxV, c.dotsY())
			c.line(xs[prev], py, xs[i], y, fill)
		case fill:
			c.column(xs[i], y)
		default:
			c.set(xs[i], y)
		}
		prev = i
	}
	return xs
}

// axisLabels places each point's day label under its character column,
// pulling the last one in from the right edge and skipping labels that
// would overlap the previous one.
func axisLabels(points []visits.ChartPoint, xs []int, width int) string {
	row := []rune(strings.Repeat(" ", width))
	next := 0
	for i, p := range points {
		label := []rune(p.AxisLabel())
		col := min(xs[i]/2, width-len(label))
		if col < next || col < 0 {
			continue
		}
		copy(row[col:], label)
		next = col + len(label) + 1
	}
	return strings.TrimRight(string(row), " ")
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat(" ", n-len(s)) + s
}

// sparklineBlocks are block characters for 8-level vertical resolution.
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline renders a single-row sparkline scaled to the data's own
// range. Longer data is downsampled by bucket maximum.
func RenderSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = downsample(data, width)
	}

	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	var b strings.Builder
	last := len(sparklineBlocks) - 1
	for _, v := range data {
		idx := 0
		if maxVal > minVal {
			idx = clampInt(int((v-minVal)/(maxVal-minVal)*float64(last)), last)
		}
		b.WriteRune(sparklineBlocks[idx])
	}
	return b.String()
}

// downsample keeps the maximum of each bucket to preserve peaks.
func downsample(data []float64, size int) []float64 {
	out := make([]float64, size)
	bucket := float64(len(data)) / float64(size)
	for i := range out {
		start := int(float64(i) * bucket)
		end := int(float64(i+1) * bucket)
		if end > len(data) {
			end = len(data)
		}
		if start >= end {
			start = end - 1
		}
		m := data[start]
		for _, v := range data[start:end] {
			m = math.Max(m, v)
		}
		out[i] = m
	}
	return out
}
