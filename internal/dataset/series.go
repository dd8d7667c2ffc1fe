package dataset

import (
	"fmt"
	"time"

	"github.com/melaniewalsh/tweetframe/pkg/types"
)

// Series is a named column of uniform semantic type. Cells hold the
// canonical Go value for the type (string, int64, float64, bool or
// time.Time); object and enum columns hold their raw text. A cell with
// valid=false is null regardless of its stored value.
type Series struct {
	Name string
	Type types.DataType

	vals  []any
	valid []bool
}

func NewSeries(name string, dtype types.DataType) *Series {
	return &Series{Name: name, Type: dtype}
}

func (s *Series) Len() int {
	return len(s.vals)
}

func (s *Series) Append(v any) {
	s.vals = append(s.vals, v)
	s.valid = append(s.valid, true)
}

func (s *Series) AppendNull() {
	s.vals = append(s.vals, nil)
	s.valid = append(s.valid, false)
}

func (s *Series) IsNull(i int) bool {
	return !s.valid[i]
}

// Value returns the cell value and whether it is non-null.
func (s *Series) Value(i int) (any, bool) {
	if !s.valid[i] {
		return nil, false
	}
	return s.vals[i], true
}

func (s *Series) StringAt(i int) (string, bool) {
	v, ok := s.Value(i)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *Series) IntAt(i int) (int64, bool) {
	v, ok := s.Value(i)
	if !ok {
		return 0, false
	}
	n, ok := v.(int64)
	return n, ok
}

func (s *Series) FloatAt(i int) (float64, bool) {
	v, ok := s.Value(i)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func (s *Series) BoolAt(i int) (bool, bool) {
	v, ok := s.Value(i)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func (s *Series) TimeAt(i int) (time.Time, bool) {
	v, ok := s.Value(i)
	if !ok {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}

// Nullable returns the column as NullableValue cells, preserving row
// order.
func (s *Series) Nullable() []types.NullableValue {
	result := make([]types.NullableValue, len(s.vals))
	for i := range s.vals {
		result[i] = types.NullableValue{Value: s.vals[i], Valid: s.valid[i]}
	}
	return result
}

func (s *Series) clone() *Series {
	out := &Series{
		Name:  s.Name,
		Type:  s.Type,
		vals:  make([]any, len(s.vals)),
		valid: make([]bool, len(s.valid)),
	}
	copy(out.vals, s.vals)
	copy(out.valid, s.valid)
	return out
}

func (s *Series) appendSeries(other *Series) error {
	if s.Type != other.Type {
		return fmt.Errorf("cannot append %s series to %s series %q", other.Type, s.Type, s.Name)
	}
	s.vals = append(s.vals, other.vals...)
	s.valid = append(s.valid, other.valid...)
	return nil
}
