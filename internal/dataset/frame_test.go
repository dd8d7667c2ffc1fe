package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melaniewalsh/tweetframe/pkg/types"
)

func stringSeries(name string, values ...string) *Series {
	s := NewSeries(name, types.StringType)
	for _, v := range values {
		s.Append(v)
	}
	return s
}

func TestFrameAddSeries(t *testing.T) {
	f := NewFrame()
	require.NoError(t, f.AddSeries(stringSeries("id", "1", "2")))

	err := f.AddSeries(stringSeries("id", "3", "4"))
	assert.ErrorIs(t, err, ErrColumnExists)

	err = f.AddSeries(stringSeries("lang", "en"))
	assert.ErrorIs(t, err, ErrRowCountsDiffer)

	require.NoError(t, f.AddSeries(stringSeries("lang", "en", "fr")))
	assert.Equal(t, 2, f.NumRows())
	assert.Equal(t, []string{"id", "lang"}, f.ColumnNames())
}

func TestFrameSetSeriesReplacesInPlace(t *testing.T) {
	f := NewFrame()
	require.NoError(t, f.AddSeries(stringSeries("id", "1", "2")))
	require.NoError(t, f.AddSeries(stringSeries("lang", "en", "fr")))

	require.NoError(t, f.SetSeries(stringSeries("lang", "de", "pt")))
	assert.Equal(t, []string{"id", "lang"}, f.ColumnNames())

	lang, ok := f.Column("lang")
	require.True(t, ok)
	v, _ := lang.StringAt(0)
	assert.Equal(t, "de", v)
}

func TestFrameRename(t *testing.T) {
	f := NewFrame()
	require.NoError(t, f.AddSeries(stringSeries("author.username", "mw")))

	f.Rename(map[string]string{
		"author.username": "username",
		"missing":         "ignored",
	})

	assert.False(t, f.HasColumn("author.username"))
	col, ok := f.Column("username")
	require.True(t, ok)
	assert.Equal(t, "username", col.Name)
}

func TestFrameSelect(t *testing.T) {
	f := NewFrame()
	require.NoError(t, f.AddSeries(stringSeries("id", "1")))
	require.NoError(t, f.AddSeries(stringSeries("lang", "en")))
	require.NoError(t, f.AddSeries(stringSeries("text", "hi")))

	out := f.Select([]string{"text", "id", "absent"})
	assert.Equal(t, []string{"text", "id"}, out.ColumnNames())
}

func TestFrameCloneIsDeep(t *testing.T) {
	f := NewFrame()
	require.NoError(t, f.AddSeries(stringSeries("id", "1")))

	c := f.Clone()
	require.NoError(t, c.SetSeries(stringSeries("id", "other")))

	orig, _ := f.Column("id")
	v, _ := orig.StringAt(0)
	assert.Equal(t, "1", v)
}

func TestConcat(t *testing.T) {
	a := NewFrame()
	require.NoError(t, a.AddSeries(stringSeries("id", "1", "2")))
	b := NewFrame()
	require.NoError(t, b.AddSeries(stringSeries("id", "3")))

	out, err := Concat(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, out.NumRows())

	// Source frames stay untouched.
	assert.Equal(t, 2, a.NumRows())

	mismatched := NewFrame()
	require.NoError(t, mismatched.AddSeries(stringSeries("lang", "en")))
	_, err = Concat(a, mismatched)
	assert.Error(t, err)
}

func TestSeriesNulls(t *testing.T) {
	s := NewSeries("likes", types.IntType)
	s.Append(int64(5))
	s.AppendNull()

	assert.False(t, s.IsNull(0))
	assert.True(t, s.IsNull(1))

	v, ok := s.IntAt(0)
	assert.True(t, ok)
	assert.Equal(t, int64(5), v)

	_, ok = s.IntAt(1)
	assert.False(t, ok)

	nullable := s.Nullable()
	require.Len(t, nullable, 2)
	assert.Equal(t, types.NullableValue{Value: int64(5), Valid: true}, nullable[0])
	assert.False(t, nullable[1].Valid)
}

func TestMemoryPartitioned(t *testing.T) {
	a := NewFrame()
	require.NoError(t, a.AddSeries(stringSeries("id", "1", "2")))
	b := NewFrame()
	require.NoError(t, b.AddSeries(stringSeries("id", "3")))

	p := NewMemoryPartitioned([]*Frame{a, b}, nil)
	assert.Equal(t, 2, p.NumPartitions())
	assert.Nil(t, p.Divisions())

	out, err := p.Collect()
	require.NoError(t, err)
	assert.Equal(t, 3, out.NumRows())
}

func TestMapPartitionsIsLazy(t *testing.T) {
	a := NewFrame()
	require.NoError(t, a.AddSeries(stringSeries("id", "1")))
	b := NewFrame()
	require.NoError(t, b.AddSeries(stringSeries("id", "2")))

	calls := 0
	p := MapPartitions(NewMemoryPartitioned([]*Frame{a, b}, nil), func(f *Frame) (*Frame, error) {
		calls++
		return f, nil
	})
	assert.Equal(t, 0, calls)

	_, err := p.Partition(1)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = p.Collect()
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}
