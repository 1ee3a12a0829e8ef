package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Series is a named sequence of values drawn as one plot line.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions sizes a plot. Zero Width or Height selects the defaults.
type PlotOptions struct {
	Width  int
	Height int
	Color  bool
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	axisSeparator     = " │ "
	scaleNote         = "Each series is scaled to its own range."
)

var axisLabels = [3]string{"100%", "50%", "0%"}

type dash struct {
	name   string
	period int
	on     int
}

func (d dash) draws(x int) bool {
	if d.period <= 1 {
		return true
	}
	return x%d.period < d.on
}

var dashes = []dash{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var seriesColors = []lipgloss.Color{"6", "5", "3", "2", "4"}

// brailleBits maps a dot at (row, column) inside a 2x4 braille cell to its
// bit in the U+2800 block.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// canvas is a grid of braille cells addressed in dots: 2 per cell across and
// 4 per cell down.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

func (c *canvas) dot(x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(c.cells) || cx >= len(c.cells[cy]) {
		return
	}
	c.cells[cy][cx] |= brailleBits[y%4][x%2]
}

// line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm, keeping
// only the dots whose x passes keep.
func (c *canvas) line(x0, y0, x1, y1 int, keep func(x int) bool) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if keep(x0) {
			c.dot(x0, y0)
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

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// PlotWidthFor returns the plot width that fits totalWidth columns once the
// axis is drawn.
func PlotWidthFor(totalWidth int) int {
	axis := utf8.RuneCountInString(axisLabels[0]) + utf8.RuneCountInString(axisSeparator)
	return max(totalWidth-axis, minPlotWidth)
}

// PlotSeries writes a braille line plot of series. Every series is scaled to
// its own minimum and maximum, which are listed above the plot.
func PlotSeries(w io.Writer, title string, series []Series, opts PlotOptions) error {
	drawn := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			drawn = append(drawn, s)
		}
	}
	if len(drawn) == 0 {
		return nil
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(80)
	}
	width = max(width, minPlotWidth)
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}

	layers := make([]*canvas, len(drawn))
	ranges := make([][2]float64, len(drawn))
	for i := range drawn {
		drawn[i].Values = fitSeries(drawn[i].Values, width)
		lo, hi := bounds(drawn[i].Values)
		if hi-lo < 1e-9 {
			lo, hi = lo-1, hi+1
		}
		ranges[i] = [2]float64{lo, hi}
		layers[i] = newCanvas(width, height)
		d := dashes[i%len(dashes)]
		prevX, prevY := -1, -1
		for x, v := range drawn[i].Values {
			px, py := x*2, dotRow(v, lo, hi, height*4)
			if prevX < 0 {
				prevX, prevY = px, py
			}
			layers[i].line(prevX, prevY, px, py, d.draws)
			prevX, prevY = px, py
		}
	}

	lines := make([]string, 0, height+len(drawn)+3)
	if title != "" {
		lines = append(lines, title)
	}
	lines = append(lines, scaleNote)
	for i, s := range drawn {
		lines = append(lines, fmt.Sprintf("%s: min=%.2f max=%.2f", s.Name, ranges[i][0], ranges[i][1]))
	}
	labelWidth := utf8.RuneCountInString(axisLabels[0])
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", labelWidth, axisLabel(y, height), axisSeparator))
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for i, layer := range layers {
				if bits := layer.cells[y][x]; bits != 0 {
					mask |= bits
					if owner < 0 {
						owner = i
					}
				}
			}
			cell := string(rune(0x2800 + int(mask)))
			if opts.Color && owner >= 0 {
				cell = colorize(owner, cell)
			}
			row.WriteString(cell)
		}
		lines = append(lines, row.String())
	}
	lines = append(lines, legend(drawn, opts.Color), "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func axisLabel(y, height int) string {
	switch {
	case y == 0:
		return axisLabels[0]
	case y == height-1:
		return axisLabels[2]
	case height > 2 && y == height/2:
		return axisLabels[1]
	default:
		return ""
	}
}

func colorize(series int, s string) string {
	return lipgloss.NewStyle().Foreground(seriesColors[series%len(seriesColors)]).Render(s)
}

func legend(series []Series, color bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, dashes[i%len(dashes)].name)
		if color {
			label = colorize(i, label)
		}
		parts[i] = label
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// dotRow maps v into [0, rows), with the maximum on row 0.
func dotRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// fitSeries returns exactly width points: longer series are bucket-averaged,
// shorter ones are linearly interpolated.
func fitSeries(values []float64, width int) []float64 {
	switch {
	case len(values) > width:
		return Resample(values, width)
	case len(values) == width:
		return append([]float64(nil), values...)
	}
	out := make([]float64, width)
	if len(values) == 1 || width == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	last := len(values) - 1
	for i := range out {
		pos := float64(i) * float64(last) / float64(width-1)
		idx := int(pos)
		if idx >= last {
			out[i] = values[last]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}
