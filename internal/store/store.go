// Package store reads typing sessions from a tuipe SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/verte-zerg/typechart/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps read-only SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Filter narrows the sessions returned by ListSessions.
type Filter struct {
	Lang  string
	Since *time.Time
}

// Open opens an existing database read-only.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on ping failure.
			_ = cerr
		}
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListSessions returns sessions ordered by end time with WPM derived from
// correct keystrokes and duration. Sessions without a positive duration
// are skipped. Since is compared against the parsed end time.
func (s *Store) ListSessions(ctx context.Context, f Filter) ([]model.Session, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, f.Lang)
	}
	query := fmt.Sprintf(`SELECT ended_at, correct_nonspace, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.Session
	for rows.Next() {
		var endedAt string
		var correct int
		var durationMs int64
		if err := rows.Scan(&endedAt, &correct, &durationMs); err != nil {
			return nil, err
		}
		if durationMs <= 0 {
			continue
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid ended_at %q: %w", endedAt, err)
		}
		// ended_at keeps its recorded offset, so text comparison in SQL
		// does not order instants.
		if f.Since != nil && parsed.Before(*f.Since) {
			continue
		}
		sessions = append(sessions, model.Session{
			Time: parsed,
			WPM:  SessionWPM(correct, durationMs),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SessionWPM converts correct characters over a duration to words per
// minute, counting five characters as one word.
func SessionWPM(correct int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	minutes := float64(durationMs) / 60000.0
	return (float64(correct) / 5.0) / minutes
}
