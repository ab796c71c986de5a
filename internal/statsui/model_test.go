package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typechart/internal/model"
	"github.com/verte-zerg/typechart/internal/trend"
)

type fakeSource struct {
	sessions []model.Session
	err      error
}

func (f fakeSource) Sessions(context.Context) ([]model.Session, error) {
	return f.sessions, f.err
}

func sampleSource() fakeSource {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	var sessions []model.Session
	for i := 0; i < 10; i++ {
		sessions = append(sessions, model.Session{Time: base.AddDate(0, 0, i), WPM: 40 + float64(i)})
	}
	return fakeSource{sessions: sessions}
}

func resize(m *Model, w, h int) {
	m.Update(tea.WindowSizeMsg{Width: w, Height: h})
}

func TestViewRendersOverview(t *testing.T) {
	m := NewModel(sampleSource(), nil, trend.DefaultParams())
	resize(m, 100, 40)
	view := m.View()
	for _, want := range []string{"Overview", "Daily", "since=any", "Avg WPM", "44.5"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if got := len(strings.Split(view, "\n")); got != 40 {
		t.Fatalf("expected 40 lines, got %d", got)
	}
}

func TestDailyTab(t *testing.T) {
	m := NewModel(sampleSource(), nil, trend.DefaultParams())
	resize(m, 100, 30)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabDaily {
		t.Fatalf("expected daily tab, got %d", m.activeTab)
	}
	view := m.View()
	if !strings.Contains(view, "2024-01-01") || !strings.Contains(view, "observed") {
		t.Fatalf("expected daily rows in view:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected tabs to wrap around")
	}
}

func TestSinceFilter(t *testing.T) {
	m := NewModel(sampleSource(), nil, trend.DefaultParams())
	resize(m, 100, 30)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2024-01-06")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter to be applied, error: %s", m.filterError)
	}
	if m.since == nil || m.report.Summary.Count != 5 {
		t.Fatalf("expected 5 sessions after since, got %+v", m.report.Summary)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.filterInput.SetValue("2024-13-40")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || m.filterError == "" {
		t.Fatalf("expected invalid date to keep the form open")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filterMode {
		t.Fatalf("expected esc to close the form")
	}
}

func TestEmptyAndFailingSource(t *testing.T) {
	m := NewModel(fakeSource{}, nil, trend.DefaultParams())
	resize(m, 80, 20)
	if !m.empty || !strings.Contains(m.View(), emptyMessage) {
		t.Fatalf("expected empty message:\n%s", m.View())
	}

	m = NewModel(fakeSource{err: errors.New("boom")}, nil, trend.DefaultParams())
	resize(m, 80, 20)
	if !strings.Contains(m.View(), "boom") {
		t.Fatalf("expected error in footer:\n%s", m.View())
	}
}

func TestFitLines(t *testing.T) {
	out := fitLines("a\nb\nc", 3, 2)
	if out != "a  \nb  " {
		t.Fatalf("unexpected fitLines output %q", out)
	}
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncate output %q", got)
	}
}
