package stats

import (
	"context"
	"io"
	"time"

	"github.com/verte-zerg/typechart/internal/model"
	"github.com/verte-zerg/typechart/internal/trend"
)

const rankedDays = 5

// SessionSource yields sessions for a report.
type SessionSource interface {
	Sessions(ctx context.Context) ([]model.Session, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	trend.Result
	BestDays    []model.DailyAverage
	WeakestDays []model.DailyAverage
}

// BuildReport loads sessions, keeps those at or after since and runs the
// trend pipeline over them.
func BuildReport(ctx context.Context, src SessionSource, since *time.Time, p trend.Params) (Report, error) {
	sessions, err := src.Sessions(ctx)
	if err != nil {
		return Report{}, err
	}
	if since != nil {
		sessions = sessionsSince(sessions, *since)
	}
	res, err := trend.Build(trend.SortSessions(sessions), p)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Result:      res,
		BestDays:    BestDays(res.Daily, rankedDays),
		WeakestDays: WeakestDays(res.Daily, rankedDays),
	}, nil
}

func sessionsSince(sessions []model.Session, since time.Time) []model.Session {
	out := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if !s.Time.Before(since) {
			out = append(out, s)
		}
	}
	return out
}

// RenderReport prints the summary, plot, rankings and daily table.
func RenderReport(w io.Writer, r Report, totalWidth int, useColor bool) error {
	if err := RenderSummary(w, r.Result); err != nil {
		return err
	}
	if err := RenderCurvesWithSize(w, r.Result, totalWidth, defaultPlotHeight, useColor); err != nil {
		return err
	}
	if err := RenderDayRanking(w, "Best Days", r.BestDays); err != nil {
		return err
	}
	if err := RenderDayRanking(w, "Weakest Days", r.WeakestDays); err != nil {
		return err
	}
	return RenderDailyTable(w, r.Series)
}
