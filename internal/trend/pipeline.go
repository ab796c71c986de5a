package trend

import "github.com/verte-zerg/typechart/internal/model"

// Result holds everything a rendering surface needs for one plot.
type Result struct {
	Sessions []model.Session
	Daily    []model.DailyAverage
	Series   []model.SmoothedPoint
	Axis     model.AxisFormat
	Span     float64
	Summary  model.Summary
}

// Build runs aggregation, interpolation and smoothing over sessions, which
// must already be sorted (see SortSessions).
func Build(sessions []model.Session, p Params) (Result, error) {
	daily, err := DailyAverages(sessions)
	if err != nil {
		return Result{}, err
	}
	points, err := Interpolate(daily)
	if err != nil {
		return Result{}, err
	}
	span := Span(sessions)
	return Result{
		Sessions: sessions,
		Daily:    daily,
		Series:   Smooth(points, p),
		Axis:     SelectAxis(span, p.Ladder),
		Span:     span,
		Summary:  Summarize(sessions),
	}, nil
}

// Run normalizes raw records and builds the result.
func Run(raw []model.RawRecord, p Params) (Result, error) {
	sessions, err := Normalize(raw)
	if err != nil {
		return Result{}, err
	}
	return Build(sessions, p)
}
