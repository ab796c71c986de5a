package stats

import (
	"sort"

	"github.com/verte-zerg/typechart/internal/model"
)

// BestDays returns the n observed days with the highest mean WPM.
func BestDays(daily []model.DailyAverage, n int) []model.DailyAverage {
	return rankDays(daily, n, func(a, b float64) bool { return a > b })
}

func rankDays(daily []model.DailyAverage, n int, better func(a, b float64) bool) []model.DailyAverage {
	if n <= 0 || len(daily) == 0 {
		return nil
	}
	ranked := make([]model.DailyAverage, len(daily))
	copy(ranked, daily)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MeanWPM == ranked[j].MeanWPM {
			return ranked[i].Date.Before(ranked[j].Date)
		}
		return better(ranked[i].MeanWPM, ranked[j].MeanWPM)
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
