// Package model defines shared data structures.
package model

import "time"

// RawRecord is one unparsed row from a tabular input source.
type RawRecord struct {
	Source    string
	Line      int
	Timestamp string
	WPM       string
}

// Session is a single typing session observation.
type Session struct {
	Time time.Time
	WPM  float64
}

// DailyAverage is the mean WPM of all sessions sharing a calendar date.
type DailyAverage struct {
	Date     time.Time
	MeanWPM  float64
	Sessions int
}

// DailyPoint is one entry of the contiguous daily series.
// Observed is false for dates filled by interpolation.
type DailyPoint struct {
	Date     time.Time
	WPM      float64
	Observed bool
}

// NullFloat is a float that may be absent.
type NullFloat struct {
	Value float64
	Valid bool
}

// SmoothedPoint extends a daily point with centered rolling averages.
type SmoothedPoint struct {
	DailyPoint
	Rolling7  NullFloat
	Rolling30 NullFloat
}

// TickUnit is the calendar unit a tick rule steps by.
type TickUnit int

// Tick units.
const (
	TickHour TickUnit = iota
	TickDay
	TickMonth
)

func (u TickUnit) String() string {
	switch u {
	case TickMonth:
		return "month"
	case TickDay:
		return "day"
	default:
		return "hour"
	}
}

// TickRule places a major tick every Interval units.
type TickRule struct {
	Unit     TickUnit
	Interval int
}

// AxisFormat is the date axis decision for a plot.
type AxisFormat struct {
	// Layout is a Go time layout for tick labels.
	Layout string
	// Pattern is the same format in strftime notation, for display.
	Pattern string
	Tick    TickRule
}

// Summary holds on-plot statistics over raw sessions.
type Summary struct {
	Mean  float64
	Max   float64
	Min   float64
	Count int
}

// InputConfig describes where session data comes from.
type InputConfig struct {
	Files      []string
	DBPath     string
	Lang       string
	Since      *time.Time
	TimeColumn string
	WPMColumn  string
}

// ChartConfig defines PNG output settings.
type ChartConfig struct {
	Out    string
	Width  int
	Height int
}
