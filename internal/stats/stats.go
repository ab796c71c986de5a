// Package stats renders typing trend reports for the terminal.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typechart/internal/model"
	"github.com/verte-zerg/typechart/internal/trend"
)

// Plot labels shared by every rendering surface.
const (
	PlotTitle      = "Words Per Minute (WPM) Over Time"
	XAxisLabel     = "Date/Time"
	YAxisLabel     = "Words Per Minute (WPM)"
	LabelSessions  = "Individual Sessions"
	LabelDaily     = "Daily Average (Interpolated)"
	LabelRolling7  = "7-Day Rolling Average"
	LabelRolling30 = "30-Day Rolling Average"
)

const (
	sparkChars = " .:-=+*#%@"
	dateLayout = "2006-01-02"
)

// StatisticsText formats the summary block shown next to a plot.
func StatisticsText(s model.Summary) string {
	return fmt.Sprintf("Statistics:\nAverage WPM: %.1f\nMax WPM: %.1f\nMin WPM: %.1f\nTotal Sessions: %d",
		s.Mean, s.Max, s.Min, s.Count)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the statistics block, covered range and axis choice.
func RenderSummary(w io.Writer, res trend.Result) error {
	if len(res.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, StatisticsText(res.Summary)); err != nil {
		return err
	}
	first := res.Series[0].Date.Format(dateLayout)
	last := res.Series[len(res.Series)-1].Date.Format(dateLayout)
	if _, err := fmt.Fprintf(w, "Days: %d observed of %d (%s to %s)\n", len(res.Daily), len(res.Series), first, last); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Span: %.1f days, axis %s, %s\n", res.Span, res.Axis.Pattern, describeTick(res.Axis.Tick)); err != nil {
		return err
	}
	daily := make([]float64, len(res.Series))
	for i, p := range res.Series {
		daily[i] = p.WPM
	}
	if _, err := fmt.Fprintf(w, "Trend: %s\n", Sparkline(daily)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func describeTick(rule model.TickRule) string {
	if rule.Interval == 1 {
		return fmt.Sprintf("tick every %s", rule.Unit)
	}
	return fmt.Sprintf("tick every %d %ss", rule.Interval, rule.Unit)
}

// TrendSeries converts a result into plot series: the session scatter, the
// interpolated daily line and both rolling averages.
func TrendSeries(res trend.Result) []Series {
	sessionTimes := make([]time.Time, len(res.Sessions))
	sessionValues := make([]float64, len(res.Sessions))
	for i, s := range res.Sessions {
		sessionTimes[i] = s.Time
		sessionValues[i] = s.WPM
	}
	dates := make([]time.Time, len(res.Series))
	daily := make([]float64, len(res.Series))
	short := make([]float64, len(res.Series))
	long := make([]float64, len(res.Series))
	for i, p := range res.Series {
		dates[i] = p.Date
		daily[i] = p.WPM
		short[i] = nullToNaN(p.Rolling7)
		long[i] = nullToNaN(p.Rolling30)
	}
	return []Series{
		{Name: LabelSessions, Times: sessionTimes, Values: sessionValues, Scatter: true},
		{Name: LabelDaily, Times: dates, Values: daily},
		{Name: LabelRolling7, Times: dates, Values: short},
		{Name: LabelRolling30, Times: dates, Values: long},
	}
}

func nullToNaN(v model.NullFloat) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Value
}

// RenderCurves prints the trend plot.
func RenderCurves(w io.Writer, res trend.Result) error {
	return RenderCurvesWithSize(w, res, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints the trend plot sized to a given total width.
func RenderCurvesWithSize(w io.Writer, res trend.Result, totalWidth, height int, useColor bool) error {
	if len(res.Sessions) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, PlotTitle, TrendSeries(res), res.Axis, width, height, useColor)
}

// DailyRows formats the smoothed series as table rows.
func DailyRows(series []model.SmoothedPoint) [][]string {
	rows := make([][]string, 0, len(series))
	for _, p := range series {
		kind := "observed"
		if !p.Observed {
			kind = "interpolated"
		}
		rows = append(rows, []string{
			p.Date.Format(dateLayout),
			fmt.Sprintf("%.1f", p.WPM),
			kind,
			formatNull(p.Rolling7),
			formatNull(p.Rolling30),
		})
	}
	return rows
}

// DailyHeaders are the column titles matching DailyRows.
var DailyHeaders = []string{"Date", "WPM", "Source", "7-Day", "30-Day"}

func formatNull(v model.NullFloat) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.1f", v.Value)
}

// RenderDailyTable prints one row per calendar date of the smoothed series.
func RenderDailyTable(w io.Writer, series []model.SmoothedPoint) error {
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, "No daily data found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Daily Trend"); err != nil {
		return err
	}
	rightAlign := map[int]bool{1: true, 3: true, 4: true}
	for _, line := range formatTable(DailyHeaders, DailyRows(series), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderDayRanking prints a titled list of days with their mean WPM.
func RenderDayRanking(w io.Writer, title string, days []model.DailyAverage) error {
	if len(days) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Date.Format(dateLayout),
			fmt.Sprintf("%.1f", d.MeanWPM),
			fmt.Sprintf("%d", d.Sessions),
		})
	}
	for _, line := range formatTable([]string{"Date", "Avg WPM", "Sessions"}, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
