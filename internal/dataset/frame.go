package dataset

import (
	"errors"
	"fmt"

	"github.com/melaniewalsh/tweetframe/pkg/types"
)

var (
	ErrColumnExists    = errors.New("column already exists")
	ErrRowCountsDiffer = errors.New("column row count differs from frame")
)

// Frame is an eagerly materialized dataset: an ordered collection of
// typed columns sharing row count and row order. Row order reflects
// source order.
type Frame struct {
	cols   []*Series
	byName map[string]*Series
}

func NewFrame() *Frame {
	return &Frame{byName: make(map[string]*Series)}
}

func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

func (f *Frame) NumColumns() int {
	return len(f.cols)
}

// ColumnNames returns column names in frame order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, col := range f.cols {
		names[i] = col.Name
	}
	return names
}

func (f *Frame) Column(name string) (*Series, bool) {
	s, ok := f.byName[name]
	return s, ok
}

func (f *Frame) HasColumn(name string) bool {
	_, ok := f.byName[name]
	return ok
}

func (f *Frame) AddSeries(s *Series) error {
	if _, ok := f.byName[s.Name]; ok {
		return fmt.Errorf("%w: %s", ErrColumnExists, s.Name)
	}
	if len(f.cols) > 0 && s.Len() != f.NumRows() {
		return fmt.Errorf("%w: %s has %d rows, frame has %d", ErrRowCountsDiffer, s.Name, s.Len(), f.NumRows())
	}
	f.cols = append(f.cols, s)
	f.byName[s.Name] = s
	return nil
}

// SetSeries adds the column, replacing any existing column of the same
// name in place.
func (f *Frame) SetSeries(s *Series) error {
	if existing, ok := f.byName[s.Name]; ok {
		if len(f.cols) > 1 && s.Len() != f.NumRows() {
			return fmt.Errorf("%w: %s has %d rows, frame has %d", ErrRowCountsDiffer, s.Name, s.Len(), f.NumRows())
		}
		for i, col := range f.cols {
			if col == existing {
				f.cols[i] = s
				break
			}
		}
		f.byName[s.Name] = s
		return nil
	}
	return f.AddSeries(s)
}

// Rename applies the old-to-new name mapping. Names absent from the
// frame are skipped.
func (f *Frame) Rename(mapping map[string]string) {
	for old, to := range mapping {
		s, ok := f.byName[old]
		if !ok {
			continue
		}
		delete(f.byName, old)
		s.Name = to
		f.byName[to] = s
	}
}

// Select returns a new frame holding only the named columns that are
// present, in the given order. Column data is shared, not copied.
func (f *Frame) Select(names []string) *Frame {
	out := NewFrame()
	for _, name := range names {
		if s, ok := f.byName[name]; ok {
			out.cols = append(out.cols, s)
			out.byName[name] = s
		}
	}
	return out
}

// Schema describes the frame's columns in order. Every column is
// reported nullable: the source exports carry nulls throughout.
func (f *Frame) Schema() types.Schema {
	columns := make([]types.Column, len(f.cols))
	for i, col := range f.cols {
		columns[i] = types.Column{Name: col.Name, Type: col.Type, Nullable: true}
	}
	return types.Schema{Columns: columns}
}

// Collect implements Dataset. A frame is already materialized.
func (f *Frame) Collect() (*Frame, error) {
	return f, nil
}

// Clone deep-copies the frame so derived columns and renames never
// touch the source.
func (f *Frame) Clone() *Frame {
	out := NewFrame()
	for _, col := range f.cols {
		c := col.clone()
		out.cols = append(out.cols, c)
		out.byName[c.Name] = c
	}
	return out
}

// Concat appends frames with identical column names and types into a
// single frame, preserving partition order.
func Concat(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return NewFrame(), nil
	}
	out := frames[0].Clone()
	for _, f := range frames[1:] {
		if f.NumColumns() != out.NumColumns() {
			return nil, fmt.Errorf("cannot concat frames with %d and %d columns", out.NumColumns(), f.NumColumns())
		}
		for _, col := range out.cols {
			other, ok := f.byName[col.Name]
			if !ok {
				return nil, fmt.Errorf("cannot concat: column %q missing from frame", col.Name)
			}
			if err := col.appendSeries(other); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
