package trend

import (
	"math"

	"github.com/verte-zerg/typechart/internal/model"
)

const (
	shortWindow = 7
	longWindow  = 30

	yearlyThresholdDays  = 365
	monthlyThresholdDays = 30
	monthInterval        = 2
	dailyDivisor         = 30
	hourlyDivisor        = 20
)

// AxisRule is one step of the axis granularity ladder.
type AxisRule struct {
	// Threshold is compared strictly against the span in days.
	// The last rule of a ladder matches unconditionally.
	Threshold float64
	Layout    string
	Pattern   string
	Tick      func(spanDays float64) model.TickRule
}

// Params is the constants table for the pipeline.
type Params struct {
	ShortWindow int
	LongWindow  int
	Ladder      []AxisRule
}

// DefaultParams returns the 7/30 day windows and the standard axis ladder.
func DefaultParams() Params {
	return Params{
		ShortWindow: shortWindow,
		LongWindow:  longWindow,
		Ladder:      DefaultLadder(),
	}
}

// DefaultLadder returns the yearly, monthly and daily axis rules in order.
func DefaultLadder() []AxisRule {
	return []AxisRule{
		{
			Threshold: yearlyThresholdDays,
			Layout:    "2006-01",
			Pattern:   "%Y-%m",
			Tick: func(float64) model.TickRule {
				return model.TickRule{Unit: model.TickMonth, Interval: monthInterval}
			},
		},
		{
			Threshold: monthlyThresholdDays,
			Layout:    "01/02",
			Pattern:   "%m/%d",
			Tick: func(span float64) model.TickRule {
				return model.TickRule{Unit: model.TickDay, Interval: floorAtLeastOne(span / dailyDivisor)}
			},
		},
		{
			Threshold: 0,
			Layout:    "01/02 15:04",
			Pattern:   "%m/%d %H:%M",
			Tick: func(span float64) model.TickRule {
				return model.TickRule{Unit: model.TickHour, Interval: floorAtLeastOne(span * 24 / hourlyDivisor)}
			},
		},
	}
}

func floorAtLeastOne(v float64) int {
	n := int(math.Floor(v))
	if n < 1 {
		return 1
	}
	return n
}
