package stats

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/verte-zerg/typechart/internal/model"
)

// WriteCSV writes the smoothed series with absent rolling values left empty.
func WriteCSV(w io.Writer, series []model.SmoothedPoint) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "wpm", "observed", "rolling_7", "rolling_30"}); err != nil {
		return err
	}
	for _, p := range series {
		row := []string{
			p.Date.Format(dateLayout),
			strconv.FormatFloat(p.WPM, 'f', -1, 64),
			strconv.FormatBool(p.Observed),
			csvNull(p.Rolling7),
			csvNull(p.Rolling30),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func csvNull(v model.NullFloat) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Value, 'f', -1, 64)
}
