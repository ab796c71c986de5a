package stats

import (
	"context"

	"github.com/verte-zerg/typechart/internal/loader"
	"github.com/verte-zerg/typechart/internal/model"
	"github.com/verte-zerg/typechart/internal/store"
	"github.com/verte-zerg/typechart/internal/trend"
)

// CSVSource reads sessions from exported CSV files.
type CSVSource struct {
	Loader *loader.Loader
	Paths  []string
}

// Sessions loads every path and normalizes the combined records.
func (s CSVSource) Sessions(ctx context.Context) ([]model.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := s.Loader.Load(s.Paths)
	if err != nil {
		return nil, err
	}
	return trend.Normalize(ds.Records)
}

// DBSource reads finished sessions from a tuipe database.
type DBSource struct {
	Store  *store.Store
	Filter store.Filter
}

// Sessions lists the sessions matching the filter.
func (s DBSource) Sessions(ctx context.Context) ([]model.Session, error) {
	return s.Store.ListSessions(ctx, s.Filter)
}
