package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melaniewalsh/tweetframe/internal/dataset"
	"github.com/melaniewalsh/tweetframe/pkg/types"
)

func TestTimeColumnsDefaults(t *testing.T) {
	tc := NewTimeColumns()
	assert.Equal(t, []string{
		"attachments.poll.end_datetime",
		"author.created_at",
		"created_at",
		"edit_controls.editable_until",
		"__twarc.retrieved_at",
	}, tc.Columns())
	assert.True(t, tc.Contains("created_at"))
	assert.False(t, tc.Contains("date"))
}

func TestTimeColumnsReturnsCopy(t *testing.T) {
	tc := NewTimeColumns()
	cols := tc.Columns()
	cols[0] = "mutated"
	assert.NotEqual(t, "mutated", tc.Columns()[0])
}

func TestIncludeDateIsIdempotent(t *testing.T) {
	tc := NewTimeColumns()
	tc.IncludeDate()
	tc.IncludeDate()

	count := 0
	for _, name := range tc.Columns() {
		if name == "date" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExcludeDate(t *testing.T) {
	tc := NewTimeColumns()

	// Removing an absent entry is a no-op.
	tc.ExcludeDate()
	assert.False(t, tc.Contains("date"))

	tc.IncludeDate()
	require.True(t, tc.Contains("date"))
	tc.ExcludeDate()
	assert.False(t, tc.Contains("date"))
}

func TestAddDate(t *testing.T) {
	created := dataset.NewSeries("created_at", types.TimestampType)
	ts, err := time.Parse(TimestampLayout, "2023-05-01T14:32:00.000Z")
	require.NoError(t, err)
	created.Append(ts)
	created.AppendNull()

	frame := dataset.NewFrame()
	require.NoError(t, frame.AddSeries(created))

	tc := NewTimeColumns()
	require.NoError(t, tc.AddDate(frame))

	date, ok := frame.Column("date")
	require.True(t, ok)
	assert.Equal(t, types.TimestampType, date.Type)

	got, ok := date.TimeAt(0)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)))
	_, zone := got.Zone()
	assert.Zero(t, zone)

	assert.True(t, date.IsNull(1))
}

func TestAddDateErrors(t *testing.T) {
	tc := NewTimeColumns()

	empty := dataset.NewFrame()
	assert.ErrorIs(t, tc.AddDate(empty), ErrNoCreatedAt)

	wrongType := dataset.NewFrame()
	created := dataset.NewSeries("created_at", types.StringType)
	created.Append("2023-05-01T14:32:00.000Z")
	require.NoError(t, wrongType.AddSeries(created))
	assert.ErrorIs(t, tc.AddDate(wrongType), ErrNotTimestamp)
}
