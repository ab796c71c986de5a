package trend

import (
	"math"

	"github.com/verte-zerg/typechart/internal/model"
)

// Summarize computes mean, max, min and count of session WPM.
// With no sessions the float fields are NaN.
func Summarize(sessions []model.Session) model.Summary {
	if len(sessions) == 0 {
		nan := math.NaN()
		return model.Summary{Mean: nan, Max: nan, Min: nan}
	}
	sum := 0.0
	maxVal := math.Inf(-1)
	minVal := math.Inf(1)
	for _, s := range sessions {
		sum += s.WPM
		if s.WPM > maxVal {
			maxVal = s.WPM
		}
		if s.WPM < minVal {
			minVal = s.WPM
		}
	}
	return model.Summary{
		Mean:  sum / float64(len(sessions)),
		Max:   maxVal,
		Min:   minVal,
		Count: len(sessions),
	}
}
