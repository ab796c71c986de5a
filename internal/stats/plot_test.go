package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typechart/internal/model"
)

func TestPlotSeries(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, 5)
	for i := range times {
		times[i] = base.AddDate(0, 0, i)
	}
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Times: times, Values: []float64{1, 2, 3, 2, 1}, Scatter: true},
		{Name: "B", Times: times, Values: []float64{math.NaN(), 1, 2, 3, math.NaN()}},
	}, model.AxisFormat{Layout: "01/02"}, 20, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "WPM range: min=1.0 max=3.0") {
		t.Fatalf("expected value range in output:\n%s", out)
	}
	if !strings.Contains(out, "Legend:") || !strings.Contains(out, "(dots)") {
		t.Fatalf("expected legend with scatter marker in output")
	}
	if !strings.Contains(out, "01/01") || !strings.Contains(out, "01/05") {
		t.Fatalf("expected axis dates formatted with layout:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 4 + 1 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Empty", []Series{
		{Name: "A", Times: []time.Time{time.Now()}, Values: []float64{math.NaN()}},
	}, model.AxisFormat{}, 20, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for all-gap series, got %q", buf.String())
	}
}
