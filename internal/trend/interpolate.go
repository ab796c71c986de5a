package trend

import (
	"time"

	"github.com/verte-zerg/typechart/internal/model"
)

const day = 24 * time.Hour

// DaysBetween returns the whole number of days from a to b. Both must be
// midnight UTC dates.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / day)
}

// Interpolate expands daily averages into one point per calendar date
// between the first and last observed dates. Gaps are filled linearly by
// day index; observed values are kept as is.
func Interpolate(daily []model.DailyAverage) ([]model.DailyPoint, error) {
	if len(daily) == 0 {
		return nil, ErrEmptyDataset
	}
	first := daily[0].Date
	last := daily[len(daily)-1].Date
	n := DaysBetween(first, last) + 1

	points := make([]model.DailyPoint, n)
	for i := range points {
		points[i].Date = first.AddDate(0, 0, i)
	}
	for _, d := range daily {
		idx := DaysBetween(first, d.Date)
		points[idx].WPM = d.MeanWPM
		points[idx].Observed = true
	}

	prev := 0
	for i := 1; i < n; i++ {
		if !points[i].Observed {
			continue
		}
		if gap := i - prev; gap > 1 {
			from := points[prev].WPM
			to := points[i].WPM
			for j := prev + 1; j < i; j++ {
				frac := float64(j-prev) / float64(gap)
				points[j].WPM = from + (to-from)*frac
			}
		}
		prev = i
	}
	return points, nil
}
