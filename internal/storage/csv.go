package storage

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/melaniewalsh/tweetframe/internal/dataset"
	"github.com/melaniewalsh/tweetframe/internal/schema"
	"github.com/melaniewalsh/tweetframe/pkg/types"
)

// ConversionError reports a cell that could not be coerced to its
// column's declared type.
type ConversionError struct {
	Row        int
	ColumnName string
	Value      string
	Err        error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion error at row %d, column %q, value %q: %v", e.Row, e.ColumnName, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ReadCSV loads a tweet CSV stream into a frame, coercing every
// column per the schema map. A column is parsed as a timestamp only
// when timeCols tracks it; an untracked timestamp-typed column is
// kept as opaque text, which lets callers toggle "date" parsing per
// load. Columns absent from the schema map degrade to opaque text.
func ReadCSV(r io.Reader, timeCols *schema.TimeColumns) (*dataset.Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make([]*dataset.Series, len(header))
	for i, name := range header {
		dtype := schema.TypeOf(name)
		if dtype == types.TimestampType && !timeCols.Contains(name) {
			dtype = types.ObjectType
		}
		cols[i] = dataset.NewSeries(name, dtype)
	}

	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", row+1, err)
		}
		row++
		for i, col := range cols {
			// Short rows leave trailing cells null.
			if i >= len(record) || IsNullToken(record[i]) {
				col.AppendNull()
				continue
			}
			v, err := parseCell(record[i], col.Type)
			if err != nil {
				return nil, &ConversionError{Row: row, ColumnName: col.Name, Value: record[i], Err: err}
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

// WriteCSV serializes a frame, timestamps in the export layout and
// nulls as empty cells. Reading the output back with the same schema
// map reproduces the frame.
func WriteCSV(w io.Writer, f *dataset.Frame) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	names := f.ColumnNames()
	if err := writer.Write(names); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(names))
	for i := 0; i < f.NumRows(); i++ {
		for j, name := range names {
			col, _ := f.Column(name)
			v, ok := col.Value(i)
			if !ok {
				record[j] = ""
				continue
			}
			record[j] = formatCell(v, col.Type)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}
	return writer.Error()
}
