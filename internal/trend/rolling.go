package trend

import "github.com/verte-zerg/typechart/internal/model"

// CenteredMean computes a centered moving average. A position gets a value
// only when window/2 positions exist on both sides of it; the window spans
// [i-window/2, i-window/2+window-1].
func CenteredMean(values []float64, window int) []model.NullFloat {
	out := make([]model.NullFloat, len(values))
	if window < 1 {
		return out
	}
	half := window / 2
	for i := range values {
		if i-half < 0 || i+half > len(values)-1 {
			continue
		}
		start := i - half
		end := start + window
		if end > len(values) {
			continue
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = model.NullFloat{Value: sum / float64(window), Valid: true}
	}
	return out
}

// Smooth attaches the short and long centered rolling means to each point.
func Smooth(points []model.DailyPoint, p Params) []model.SmoothedPoint {
	values := make([]float64, len(points))
	for i, pt := range points {
		values[i] = pt.WPM
	}
	short := CenteredMean(values, p.ShortWindow)
	long := CenteredMean(values, p.LongWindow)
	out := make([]model.SmoothedPoint, len(points))
	for i, pt := range points {
		out[i] = model.SmoothedPoint{
			DailyPoint: pt,
			Rolling7:   short[i],
			Rolling30:  long[i],
		}
	}
	return out
}
