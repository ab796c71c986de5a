package stats

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/typechart/internal/loader"
	"github.com/verte-zerg/typechart/internal/model"
	"github.com/verte-zerg/typechart/internal/trend"
)

type staticSource []model.Session

func (s staticSource) Sessions(context.Context) ([]model.Session, error) {
	return s, nil
}

func day(d, hour int) time.Time {
	return time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
}

func TestBuildReport(t *testing.T) {
	src := staticSource{
		{Time: day(5, 9), WPM: 50},
		{Time: day(1, 9), WPM: 60},
		{Time: day(1, 18), WPM: 80},
		{Time: day(3, 9), WPM: 40},
	}
	report, err := BuildReport(context.Background(), src, nil, trend.DefaultParams())
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 4 || !report.Sessions[0].Time.Equal(day(1, 9)) {
		t.Fatalf("expected sorted sessions, got %+v", report.Sessions)
	}
	if len(report.Series) != 5 {
		t.Fatalf("expected 5 contiguous days, got %d", len(report.Series))
	}
	if len(report.BestDays) != 3 || report.BestDays[0].MeanWPM != 70 {
		t.Fatalf("unexpected best days: %+v", report.BestDays)
	}
	if report.WeakestDays[0].MeanWPM != 40 {
		t.Fatalf("unexpected weakest days: %+v", report.WeakestDays)
	}
}

func TestBuildReportSince(t *testing.T) {
	src := staticSource{
		{Time: day(1, 9), WPM: 60},
		{Time: day(3, 9), WPM: 40},
		{Time: day(4, 9), WPM: 45},
	}
	since := day(2, 0)
	report, err := BuildReport(context.Background(), src, &since, trend.DefaultParams())
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Summary.Count != 2 {
		t.Fatalf("expected 2 sessions after since, got %d", report.Summary.Count)
	}

	late := day(10, 0)
	_, err = BuildReport(context.Background(), src, &late, trend.DefaultParams())
	if !errors.Is(err, trend.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestCSVSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.csv")
	content := "Date/Time (UTC),WPM\n2024-01-02 10:00:00,70\n2024-01-01 10:00:00,50\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	src := CSVSource{Loader: loader.New("", "", zap.NewNop()), Paths: []string{path}}
	report, err := BuildReport(context.Background(), src, nil, trend.DefaultParams())
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Summary.Count != 2 || report.Summary.Mean != 60 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
}

func TestRenderReport(t *testing.T) {
	src := staticSource{
		{Time: day(1, 9), WPM: 60},
		{Time: day(3, 9), WPM: 40},
	}
	report, err := BuildReport(context.Background(), src, nil, trend.DefaultParams())
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderReport(&buf, report, 80, false); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Statistics:\nAverage WPM: 50.0\nMax WPM: 60.0\nMin WPM: 40.0\nTotal Sessions: 2",
		"Days: 2 observed of 3",
		PlotTitle,
		"Best Days",
		"Weakest Days",
		"2024-01-02 50.0 interpolated",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
