// Package stats renders typing trend reports for the terminal.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/typechart/internal/model"
)

// Series is a named set of timed values for plotting. NaN values leave a
// gap in line series.
type Series struct {
	Name    string
	Times   []time.Time
	Values  []float64
	Scatter bool
}

type lineStyle struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

type plotFrame struct {
	minT, maxT     time.Time
	minVal, maxVal float64
	width, height  int
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 6
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var colorPalette = []ansiColor{
	{name: "gray", code: "\x1b[90m"},
	{name: "blue", code: "\x1b[34m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "red", code: "\x1b[31m"},
	{name: "cyan", code: "\x1b[36m"},
}

// PlotSeries renders a braille plot of the series on a shared value scale.
func PlotSeries(w io.Writer, title string, series []Series, axis model.AxisFormat, width, height int) error {
	return plotSeries(w, title, series, axis, width, height, false)
}

// PlotSeriesWithColor renders a braille plot with optional forced color output.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, axis model.AxisFormat, width, height int, forceColor bool) error {
	return plotSeries(w, title, series, axis, width, height, forceColor)
}

func plotSeries(w io.Writer, title string, series []Series, axis model.AxisFormat, width, height int, forceColor bool) error {
	series = filterSeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	frame, ok := newPlotFrame(series, width, height)
	if !ok {
		return nil
	}

	seriesCells := make([][][]uint8, 0, len(series))
	for range series {
		seriesCells = append(seriesCells, makeCells(height, width))
	}
	lineIdx := 0
	for si, s := range series {
		if s.Scatter {
			for i, v := range s.Values {
				if isGap(v) {
					continue
				}
				setBrailleDot(seriesCells[si], frame.xDot(s.Times[i]), frame.yDot(v))
			}
			continue
		}
		style := lineStyles[lineIdx%len(lineStyles)]
		lineIdx++
		prevX, prevY := -1, -1
		for i, v := range s.Values {
			if isGap(v) {
				prevX, prevY = -1, -1
				continue
			}
			px, py := frame.xDot(s.Times[i]), frame.yDot(v)
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if style.shouldPlot(dx) {
						setBrailleDot(seriesCells[si], dx, dy)
					}
				})
			} else {
				setBrailleDot(seriesCells[si], px, py)
			}
			prevX, prevY = px, py
		}
	}

	useColor := shouldUseColor(w, forceColor)
	axisLabels := makeAxisLabels(height, frame.minVal, frame.maxVal)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "WPM range: min=%.1f max=%.1f\n", frame.minVal, frame.maxVal); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", axisLabelWidth, axisLabels[y], axisSeparator))
		for x := 0; x < width; x++ {
			mask, colorIdx := composeCell(seriesCells, x, y)
			ch := brailleFromMask(mask)
			if useColor && colorIdx >= 0 {
				color := colorPalette[colorIdx%len(colorPalette)].code
				row.WriteString(color)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, renderTimeAxis(frame, axis.Layout)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, renderLegend(series, useColor)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func newPlotFrame(series []Series, width, height int) (plotFrame, bool) {
	f := plotFrame{
		minVal: math.Inf(1),
		maxVal: math.Inf(-1),
		width:  width,
		height: height,
	}
	found := false
	for _, s := range series {
		for i, v := range s.Values {
			if isGap(v) || i >= len(s.Times) {
				continue
			}
			t := s.Times[i]
			if !found || t.Before(f.minT) {
				f.minT = t
			}
			if !found || t.After(f.maxT) {
				f.maxT = t
			}
			found = true
			f.minVal = math.Min(f.minVal, v)
			f.maxVal = math.Max(f.maxVal, v)
		}
	}
	if !found {
		return f, false
	}
	if math.Abs(f.maxVal-f.minVal) < 1e-9 {
		f.minVal--
		f.maxVal++
	}
	return f, true
}

func (f plotFrame) xDot(t time.Time) int {
	dots := f.width * 2
	span := f.maxT.Sub(f.minT)
	if span <= 0 {
		return dots / 2
	}
	pos := float64(t.Sub(f.minT)) / float64(span)
	x := int(math.Round(pos * float64(dots-1)))
	if x < 0 {
		x = 0
	}
	if x >= dots {
		x = dots - 1
	}
	return x
}

func (f plotFrame) yDot(v float64) int {
	return valueToRow(v, f.minVal, f.maxVal, f.height*4)
}

func isGap(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 || len(s.Times) != len(s.Values) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := axisLabelWidth + utf8.RuneCountInString(axisSeparator)
	plotWidth := totalWidth - axisWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeAxisLabels(height int, minVal, maxVal float64) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = fmt.Sprintf("%.1f", maxVal)
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.1f", (minVal+maxVal)/2)
	}
	if height > 1 {
		labels[height-1] = fmt.Sprintf("%.1f", minVal)
	}
	return labels
}

func renderTimeAxis(f plotFrame, layout string) string {
	if layout == "" {
		layout = "2006-01-02"
	}
	left := f.minT.Format(layout)
	right := f.maxT.Format(layout)
	prefix := strings.Repeat(" ", axisLabelWidth+utf8.RuneCountInString(axisSeparator))
	if f.maxT.Equal(f.minT) {
		return prefix + left
	}
	gap := f.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		return prefix + left + " - " + right
	}
	mid := f.minT.Add(f.maxT.Sub(f.minT) / 2).Format(layout)
	midWidth := utf8.RuneCountInString(mid)
	if gap < midWidth+2 {
		return prefix + left + strings.Repeat(" ", gap) + right
	}
	leftPad := (gap - midWidth) / 2
	rightPad := gap - midWidth - leftPad
	return prefix + left + strings.Repeat(" ", leftPad) + mid + strings.Repeat(" ", rightPad) + right
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(seriesCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, cells := range seriesCells {
		if y < 0 || y >= len(cells) {
			continue
		}
		if x < 0 || x >= len(cells[y]) {
			continue
		}
		cellMask := cells[y][x]
		if cellMask == 0 {
			continue
		}
		// Later series are drawn on top.
		colorIdx = i
		mask |= cellMask
	}
	return mask, colorIdx
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := brailleFromMask(0x01)
	lineIdx := 0
	for i, s := range series {
		styleName := "dots"
		if !s.Scatter {
			styleName = lineStyles[lineIdx%len(lineStyles)].name
			lineIdx++
		}
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, styleName)
		if useColor {
			color := colorPalette[i%len(colorPalette)].code
			label = color + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY >= len(cells) {
		return
	}
	if cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
