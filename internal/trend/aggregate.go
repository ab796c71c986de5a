package trend

import (
	"sort"
	"time"

	"github.com/verte-zerg/typechart/internal/model"
)

// CalendarDate truncates t to its civil date, returned as midnight UTC.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DailyAverages groups sessions by calendar date and averages WPM per date.
func DailyAverages(sessions []model.Session) ([]model.DailyAverage, error) {
	if len(sessions) == 0 {
		return nil, ErrEmptyDataset
	}
	type bucket struct {
		sum   float64
		count int
	}
	buckets := map[time.Time]*bucket{}
	for _, s := range sessions {
		date := CalendarDate(s.Time)
		b, ok := buckets[date]
		if !ok {
			b = &bucket{}
			buckets[date] = b
		}
		b.sum += s.WPM
		b.count++
	}
	out := make([]model.DailyAverage, 0, len(buckets))
	for date, b := range buckets {
		out = append(out, model.DailyAverage{
			Date:     date,
			MeanWPM:  b.sum / float64(b.count),
			Sessions: b.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
