package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/melaniewalsh/tweetframe/internal/dataset"
	"github.com/melaniewalsh/tweetframe/internal/schema"
	"github.com/melaniewalsh/tweetframe/internal/storage"
	"github.com/melaniewalsh/tweetframe/pkg/types"
)

// Resampled files index by calendar date, so the day-only layout is
// tried first.
var resampledDateLayouts = []string{
	"2006-01-02",
	schema.TimestampLayout,
	"2006-01-02 15:04:05",
}

// readResampledCSV loads a pre-aggregated summary CSV. The index
// column is parsed as a timestamp; the remaining columns are counts
// or rates, so their types are inferred over the whole file (int,
// then float, then text).
func readResampledCSV(r io.Reader, indexCol string) (*dataset.Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	indexSeen := false
	cols := make([]*dataset.Series, len(header))
	for i, name := range header {
		if name == indexCol {
			indexSeen = true
			cols[i] = dataset.NewSeries(name, types.TimestampType)
			continue
		}
		cols[i] = dataset.NewSeries(name, inferCountType(records, i))
	}
	if !indexSeen {
		return nil, fmt.Errorf("index column %q not present", indexCol)
	}

	for rowNum, record := range records {
		for i, col := range cols {
			if i >= len(record) || storage.IsNullToken(record[i]) {
				col.AppendNull()
				continue
			}
			v, err := parseResampledCell(record[i], col.Type)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", rowNum+1, col.Name, err)
			}
			col.Append(v)
		}
	}

	frame := dataset.NewFrame()
	for _, col := range cols {
		if err := frame.AddSeries(col); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// inferCountType scans a column and picks the narrowest type that
// fits every non-null cell.
func inferCountType(records [][]string, col int) types.DataType {
	isInt, isFloat := true, true
	for _, record := range records {
		if col >= len(record) || storage.IsNullToken(record[col]) {
			continue
		}
		if isInt {
			if _, err := strconv.ParseInt(record[col], 10, 64); err != nil {
				isInt = false
			}
		}
		if !isInt && isFloat {
			if _, err := strconv.ParseFloat(record[col], 64); err != nil {
				isFloat = false
			}
		}
	}
	switch {
	case isInt:
		return types.IntType
	case isFloat:
		return types.FloatType
	default:
		return types.StringType
	}
}

func parseResampledCell(raw string, dtype types.DataType) (any, error) {
	switch dtype {
	case types.TimestampType:
		for _, layout := range resampledDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("invalid date value: %q", raw)
	case types.IntType:
		return strconv.ParseInt(raw, 10, 64)
	case types.FloatType:
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}
