// Package trend turns typing sessions into a smoothed daily WPM series.
package trend

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset is returned when there are no sessions to aggregate.
var ErrEmptyDataset = errors.New("no sessions to aggregate")

// ParseError reports a field of a raw record that could not be interpreted.
type ParseError struct {
	Source string
	Line   int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	loc := e.Source
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Source, e.Line)
	}
	if loc == "" {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: invalid %s %q: %v", loc, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
