package schema

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/melaniewalsh/tweetframe/internal/dataset"
	"github.com/melaniewalsh/tweetframe/pkg/types"
)

// TimestampLayout is the wire format of Twitter API v2 timestamps.
// The same layout is used for parsing on read and serializing on
// write, so a round trip through CSV reproduces the original text.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var (
	ErrNoCreatedAt  = errors.New("created_at column not present")
	ErrNotTimestamp = errors.New("column is not timestamp-typed")
)

// TimeColumns tracks which columns are parsed as timestamps on load.
// It is a plain value handed to each load call, not process state, and
// is not safe for concurrent mutation.
type TimeColumns struct {
	names []string
}

// NewTimeColumns seeds the tracker with the timestamp columns of the
// upstream export.
func NewTimeColumns() *TimeColumns {
	return &TimeColumns{names: []string{
		"attachments.poll.end_datetime",
		"author.created_at",
		"created_at",
		"edit_controls.editable_until",
		"__twarc.retrieved_at",
	}}
}

// Columns returns the tracked column names as a copy; mutating the
// returned slice does not affect the tracker.
func (tc *TimeColumns) Columns() []string {
	out := make([]string, len(tc.names))
	copy(out, tc.names)
	return out
}

func (tc *TimeColumns) Contains(name string) bool {
	return slices.Contains(tc.names, name)
}

// IncludeDate adds "date" to the tracked set. Calling it twice leaves
// a single entry.
func (tc *TimeColumns) IncludeDate() {
	if !tc.Contains("date") {
		tc.names = append(tc.names, "date")
	}
}

// ExcludeDate removes "date" from the tracked set. Removing an absent
// entry is a no-op.
func (tc *TimeColumns) ExcludeDate() {
	if i := slices.Index(tc.names, "date"); i >= 0 {
		tc.names = slices.Delete(tc.names, i, i+1)
	}
}

// AddDate derives a "date" column from created_at: the timestamp
// truncated to midnight with the timezone offset stripped, so values
// become wall-clock midnight of the original date.
func (tc *TimeColumns) AddDate(f *dataset.Frame) error {
	created, ok := f.Column("created_at")
	if !ok {
		return ErrNoCreatedAt
	}
	if created.Type != types.TimestampType {
		return fmt.Errorf("%w: created_at is %s", ErrNotTimestamp, created.Type)
	}

	date := dataset.NewSeries("date", types.TimestampType)
	for i := 0; i < created.Len(); i++ {
		t, ok := created.TimeAt(i)
		if !ok {
			date.AppendNull()
			continue
		}
		date.Append(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	}
	return f.SetSeries(date)
}
