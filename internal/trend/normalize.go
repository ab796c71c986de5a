package trend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/typechart/internal/model"
)

// SinceLayout is the date layout accepted for since filters.
const SinceLayout = "2006-01-02"

// Field names reported in ParseError.
const (
	FieldTimestamp = "timestamp"
	FieldWPM       = "wpm"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTimestamp parses a timestamp in one of the supported layouts.
// Values without an explicit zone are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}

// ParseSince parses a YYYY-MM-DD date as midnight UTC. Blank input means no
// filter and returns nil.
func ParseSince(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(SinceLayout, value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid since date %q (expected YYYY-MM-DD)", value)
	}
	return &parsed, nil
}

// Normalize parses raw records into sessions sorted by time.
// The first unparseable field aborts with a *ParseError.
func Normalize(raw []model.RawRecord) ([]model.Session, error) {
	sessions := make([]model.Session, 0, len(raw))
	for _, rec := range raw {
		t, err := ParseTimestamp(rec.Timestamp)
		if err != nil {
			return nil, &ParseError{Source: rec.Source, Line: rec.Line, Field: FieldTimestamp, Value: rec.Timestamp, Err: err}
		}
		wpm, err := strconv.ParseFloat(strings.TrimSpace(rec.WPM), 64)
		if err != nil {
			return nil, &ParseError{Source: rec.Source, Line: rec.Line, Field: FieldWPM, Value: rec.WPM, Err: err}
		}
		sessions = append(sessions, model.Session{Time: t, WPM: wpm})
	}
	return SortSessions(sessions), nil
}

// SortSessions returns a copy of sessions stable-sorted by time.
func SortSessions(sessions []model.Session) []model.Session {
	out := make([]model.Session, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}
