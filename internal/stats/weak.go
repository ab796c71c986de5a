package stats

import "github.com/verte-zerg/typechart/internal/model"

// WeakestDays returns the n observed days with the lowest mean WPM.
func WeakestDays(daily []model.DailyAverage, n int) []model.DailyAverage {
	return rankDays(daily, n, func(a, b float64) bool { return a < b })
}
