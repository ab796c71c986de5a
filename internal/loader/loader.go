// Package loader reads typing session records from CSV files.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/typechart/internal/model"
)

// Default column names of exported typing logs.
const (
	DefaultTimeColumn = "Date/Time (UTC)"
	DefaultWPMColumn  = "WPM"
)

// ErrNoData is returned when none of the requested files could be loaded.
var ErrNoData = errors.New("no CSV files could be loaded successfully")

// Dataset is the concatenation of all successfully loaded files.
type Dataset struct {
	Records []model.RawRecord
	Files   int
	Skipped []string
}

// Loader reads CSV files containing a timestamp and a WPM column.
type Loader struct {
	TimeColumn string
	WPMColumn  string
	log        *zap.Logger
}

// New returns a Loader for the given column names. Empty names fall back
// to the defaults.
func New(timeColumn, wpmColumn string, log *zap.Logger) *Loader {
	if timeColumn == "" {
		timeColumn = DefaultTimeColumn
	}
	if wpmColumn == "" {
		wpmColumn = DefaultWPMColumn
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{TimeColumn: timeColumn, WPMColumn: wpmColumn, log: log}
}

// Load reads every path in order. Files that cannot be read are skipped
// with a warning; ErrNoData is returned when nothing loads.
func (l *Loader) Load(paths []string) (Dataset, error) {
	l.log.Info(fmt.Sprintf("Selected %d files", len(paths)), zap.Strings("files", paths))
	var ds Dataset
	for _, path := range paths {
		records, err := l.LoadFile(path)
		if err != nil {
			l.log.Warn(fmt.Sprintf("Could not load %s", path), zap.Error(err))
			ds.Skipped = append(ds.Skipped, path)
			continue
		}
		l.log.Debug(fmt.Sprintf("Loaded %d records from %s", len(records), path))
		ds.Records = append(ds.Records, records...)
		ds.Files++
	}
	if ds.Files == 0 {
		return ds, ErrNoData
	}
	l.log.Info(fmt.Sprintf("Successfully loaded %d records from %d files", len(ds.Records), ds.Files))
	return ds, nil
}

// LoadFile reads a single CSV file.
func (l *Loader) LoadFile(path string) ([]model.RawRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	return l.Read(file, path)
}

// Read parses CSV content from r; source names it in records and errors.
func (l *Loader) Read(r io.Reader, source string) ([]model.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("file is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	timeIdx := columnIndex(header, l.TimeColumn)
	if timeIdx < 0 {
		return nil, fmt.Errorf("missing column %q", l.TimeColumn)
	}
	wpmIdx := columnIndex(header, l.WPMColumn)
	if wpmIdx < 0 {
		return nil, fmt.Errorf("missing column %q", l.WPMColumn)
	}

	var records []model.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(row) {
			continue
		}
		records = append(records, model.RawRecord{
			Source:    source,
			Line:      line,
			Timestamp: field(row, timeIdx),
			WPM:       field(row, wpmIdx),
		})
	}
	return records, nil
}

func columnIndex(header []string, name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}

func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
