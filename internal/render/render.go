// Package render draws the trend chart as an image with go-chart.
package render

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/verte-zerg/typechart/internal/model"
	"github.com/verte-zerg/typechart/internal/stats"
	"github.com/verte-zerg/typechart/internal/trend"
)

const (
	// DefaultWidth is the chart width in pixels when none is configured.
	DefaultWidth = 1400
	// DefaultHeight is the chart height in pixels when none is configured.
	DefaultHeight = 800

	titleFontSize = 16
	axisFontSize  = 12
	statsFontSize = 11
	tickRotation  = 45
	statsPadding  = 8
	singlePointX  = 12 * time.Hour
)

var (
	sessionColor   = drawing.ColorFromHex("d3d3d3").WithAlpha(180)
	dailyColor     = drawing.ColorFromHex("0000ff").WithAlpha(180)
	rolling7Color  = drawing.ColorFromHex("ffa500")
	rolling30Color = drawing.ColorFromHex("ff0000")
	gridColor      = drawing.ColorFromHex("e6e6e6")
	statsFillColor = drawing.ColorFromHex("f5deb3").WithAlpha(204)
)

// Render writes the chart in the format selected by cfg.Out's extension.
// PNG is used unless the extension is .svg.
func Render(w io.Writer, res trend.Result, cfg model.ChartConfig) error {
	ch, err := Chart(res, cfg)
	if err != nil {
		return err
	}
	if err := ch.Render(providerFor(cfg.Out), w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func providerFor(path string) chart.RendererProvider {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return chart.SVG
	}
	return chart.PNG
}

// Chart assembles the session scatter, daily line, both rolling averages,
// the legend and the statistics box.
func Chart(res trend.Result, cfg model.ChartConfig) (chart.Chart, error) {
	if len(res.Sessions) == 0 || len(res.Series) == 0 {
		return chart.Chart{}, trend.ErrEmptyDataset
	}
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	minT, maxT := timeBounds(res)
	series := buildSeries(res)
	minY, maxY := valueBounds(res)

	ch := chart.Chart{
		Title:      stats.PlotTitle,
		TitleStyle: chart.Style{FontSize: titleFontSize},
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 70}},
		XAxis: chart.XAxis{
			Name:           stats.XAxisLabel,
			NameStyle:      chart.Style{FontSize: axisFontSize},
			Style:          chart.Style{TextRotationDegrees: tickRotation},
			Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(minT), Max: chart.TimeToFloat64(maxT)},
			Ticks:          timeTicks(res.Axis, minT, maxT),
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
		},
		YAxis: chart.YAxis{
			Name:           stats.YAxisLabel,
			NameStyle:      chart.Style{FontSize: axisFontSize},
			Range:          &chart.ContinuousRange{Min: minY, Max: maxY},
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch), statsBox(stats.StatisticsText(res.Summary))}
	return ch, nil
}

func timeBounds(res trend.Result) (time.Time, time.Time) {
	minT := res.Sessions[0].Time
	maxT := res.Sessions[len(res.Sessions)-1].Time
	first := res.Series[0].Date
	last := res.Series[len(res.Series)-1].Date
	if first.Before(minT) {
		minT = first
	}
	if last.After(maxT) {
		maxT = last
	}
	if !maxT.After(minT) {
		minT = minT.Add(-singlePointX)
		maxT = maxT.Add(singlePointX)
	}
	return minT, maxT
}

func valueBounds(res trend.Result) (float64, float64) {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range res.Sessions {
		minY = math.Min(minY, s.WPM)
		maxY = math.Max(maxY, s.WPM)
	}
	for _, p := range res.Series {
		minY = math.Min(minY, p.WPM)
		maxY = math.Max(maxY, p.WPM)
	}
	if maxY-minY < 1e-9 {
		return minY - 1, maxY + 1
	}
	pad := (maxY - minY) * 0.05
	return minY - pad, maxY + pad
}

func timeTicks(axis model.AxisFormat, minT, maxT time.Time) []chart.Tick {
	times := trend.Ticks(axis.Tick, minT, maxT)
	ticks := make([]chart.Tick, 0, len(times))
	for _, t := range times {
		if t.Before(minT) || t.After(maxT) {
			continue
		}
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: t.Format(axis.Layout)})
	}
	if len(ticks) < 2 {
		// go-chart needs two ticks to lay out an axis.
		ticks = []chart.Tick{
			{Value: chart.TimeToFloat64(minT), Label: minT.Format(axis.Layout)},
			{Value: chart.TimeToFloat64(maxT), Label: maxT.Format(axis.Layout)},
		}
	}
	return ticks
}

func buildSeries(res trend.Result) []chart.Series {
	sessionTimes := make([]time.Time, len(res.Sessions))
	sessionValues := make([]float64, len(res.Sessions))
	for i, s := range res.Sessions {
		sessionTimes[i] = s.Time
		sessionValues[i] = s.WPM
	}
	out := []chart.Series{
		timeSeries(stats.LabelSessions, sessionTimes, sessionValues, chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    3,
			DotColor:    sessionColor,
		}),
	}

	dates := make([]time.Time, len(res.Series))
	daily := make([]float64, len(res.Series))
	for i, p := range res.Series {
		dates[i] = p.Date
		daily[i] = p.WPM
	}
	out = append(out, timeSeries(stats.LabelDaily, dates, daily, chart.Style{
		StrokeColor: dailyColor,
		StrokeWidth: 1.5,
	}))

	rolling := []struct {
		name  string
		color drawing.Color
		width float64
		value func(model.SmoothedPoint) model.NullFloat
	}{
		{stats.LabelRolling7, rolling7Color, 2, func(p model.SmoothedPoint) model.NullFloat { return p.Rolling7 }},
		{stats.LabelRolling30, rolling30Color, 3, func(p model.SmoothedPoint) model.NullFloat { return p.Rolling30 }},
	}
	for _, r := range rolling {
		var xs []time.Time
		var ys []float64
		for _, p := range res.Series {
			v := r.value(p)
			if !v.Valid {
				continue
			}
			xs = append(xs, p.Date)
			ys = append(ys, v.Value)
		}
		if len(xs) == 0 {
			continue
		}
		style := chart.Style{StrokeColor: r.color, StrokeWidth: r.width}
		if len(xs) == 1 {
			// A lone value has no segment to stroke.
			style.DotWidth = r.width * 2
			style.DotColor = r.color
		}
		out = append(out, timeSeries(r.name, xs, ys, style))
	}
	return out
}

// timeSeries pads single points to two X values for go-chart.
func timeSeries(name string, xs []time.Time, ys []float64, style chart.Style) chart.TimeSeries {
	if len(xs) == 1 {
		xs = []time.Time{xs[0], xs[0]}
		ys = []float64{ys[0], ys[0]}
	}
	return chart.TimeSeries{Name: name, XValues: xs, YValues: ys, Style: style}
}

// statsBox draws the summary text in the lower left corner of the plot area.
func statsBox(text string) chart.Renderable {
	lines := strings.Split(text, "\n")
	return func(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
		font := defaults.Font
		if font == nil {
			f, err := chart.GetDefaultFont()
			if err != nil {
				return
			}
			font = f
		}
		r.SetFont(font)
		r.SetFontSize(statsFontSize)
		r.SetFontColor(drawing.ColorBlack)

		textWidth, lineHeight := 0, 0
		for _, line := range lines {
			box := r.MeasureText(line)
			if box.Width() > textWidth {
				textWidth = box.Width()
			}
			if box.Height() > lineHeight {
				lineHeight = box.Height()
			}
		}
		lineStep := lineHeight + 4
		boxWidth := textWidth + 2*statsPadding
		boxHeight := lineStep*len(lines) + 2*statsPadding

		left := canvas.Left + int(float64(canvas.Width())*0.02)
		bottom := canvas.Bottom - int(float64(canvas.Height())*0.02)
		top := bottom - boxHeight

		r.SetFillColor(statsFillColor)
		r.SetStrokeColor(drawing.ColorFromHex("999999"))
		r.SetStrokeWidth(1)
		r.MoveTo(left, top)
		r.LineTo(left+boxWidth, top)
		r.LineTo(left+boxWidth, bottom)
		r.LineTo(left, bottom)
		r.LineTo(left, top)
		r.Close()
		r.FillStroke()

		y := top + statsPadding
		for _, line := range lines {
			y += lineStep
			r.Text(line, left+statsPadding, y-4)
		}
	}
}
