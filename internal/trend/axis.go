package trend

import (
	"time"

	"github.com/verte-zerg/typechart/internal/model"
)

const maxTickSteps = 100000

// Span returns the elapsed days between the earliest and latest session.
func Span(sessions []model.Session) float64 {
	if len(sessions) == 0 {
		return 0
	}
	minT, maxT := sessions[0].Time, sessions[0].Time
	for _, s := range sessions[1:] {
		if s.Time.Before(minT) {
			minT = s.Time
		}
		if s.Time.After(maxT) {
			maxT = s.Time
		}
	}
	return maxT.Sub(minT).Hours() / 24
}

// SelectAxis picks the first ladder rule whose threshold the span strictly
// exceeds. The last rule is the fallback.
func SelectAxis(span float64, ladder []AxisRule) model.AxisFormat {
	if len(ladder) == 0 {
		ladder = DefaultLadder()
	}
	rule := ladder[len(ladder)-1]
	for _, r := range ladder {
		if span > r.Threshold {
			rule = r
			break
		}
	}
	return model.AxisFormat{
		Layout:  rule.Layout,
		Pattern: rule.Pattern,
		Tick:    rule.Tick(span),
	}
}

// Ticks returns the tick times the rule places within [from, to].
// Month ticks fall on the first of every Interval-th month of the year.
// Day and hour ticks start at the first whole day or hour at or after from
// and step Interval units from there.
func Ticks(rule model.TickRule, from, to time.Time) []time.Time {
	if to.Before(from) {
		return nil
	}
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}
	loc := from.Location()
	var ticks []time.Time
	switch rule.Unit {
	case model.TickMonth:
		t := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, loc)
		for i := 0; !t.After(to) && i < maxTickSteps; i++ {
			if !t.Before(from) && (int(t.Month())-1)%interval == 0 {
				ticks = append(ticks, t)
			}
			t = t.AddDate(0, 1, 0)
		}
	case model.TickDay:
		t := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
		if t.Before(from) {
			t = t.AddDate(0, 0, 1)
		}
		for i := 0; !t.After(to) && i < maxTickSteps; i++ {
			ticks = append(ticks, t)
			t = t.AddDate(0, 0, interval)
		}
	default:
		t := time.Date(from.Year(), from.Month(), from.Day(), from.Hour(), 0, 0, 0, loc)
		if t.Before(from) {
			t = t.Add(time.Hour)
		}
		step := time.Duration(interval) * time.Hour
		for i := 0; !t.After(to) && i < maxTickSteps; i++ {
			ticks = append(ticks, t)
			t = t.Add(step)
		}
	}
	return ticks
}
