package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melaniewalsh/tweetframe/internal/dataset"
	"github.com/melaniewalsh/tweetframe/internal/schema"
	"github.com/melaniewalsh/tweetframe/internal/storage"
	"github.com/melaniewalsh/tweetframe/pkg/types"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestReadTweetCSVFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tweets.csv")
	writeFile(t, path, "id,created_at,lang\n1,2023-02-26T00:00:00.000Z,en\n")

	d := New(Options{})
	frame, err := d.ReadTweetCSV(path, schema.NewTimeColumns())
	require.NoError(t, err)
	assert.Equal(t, 1, frame.NumRows())

	created, ok := frame.Column("created_at")
	require.True(t, ok)
	assert.Equal(t, types.TimestampType, created.Type)
}

func TestReadTweetCSVMissingFile(t *testing.T) {
	d := New(Options{})
	_, err := d.ReadTweetCSV(filepath.Join(t.TempDir(), "absent.csv"), schema.NewTimeColumns())
	assert.Error(t, err)
}

func TestNewAppliesDefaults(t *testing.T) {
	d := New(Options{})
	assert.Equal(t, DefaultResampledDir, d.opts.ResampledDir)
	assert.Equal(t, DefaultFullDatasetPath, d.opts.FullDatasetPath)
	assert.Equal(t, DefaultRegion, d.opts.Region)

	d = New(Options{ResampledDir: "/elsewhere", Region: "eu-west-1"})
	assert.Equal(t, "/elsewhere", d.opts.ResampledDir)
	assert.Equal(t, "eu-west-1", d.opts.Region)
}

func TestResampledDayCounts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "day_tweet-count.csv"),
		"date,tweet_count\n2023-02-26,14\n2023-02-27,0\n2023-02-28,\n")

	d := New(Options{ResampledDir: dir})
	frame, err := d.ResampledDayCounts()
	require.NoError(t, err)
	assert.Equal(t, 3, frame.NumRows())

	date, ok := frame.Column("date")
	require.True(t, ok)
	assert.Equal(t, types.TimestampType, date.Type)
	ts, ok := date.TimeAt(0)
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 2, 26, 0, 0, 0, 0, time.UTC), ts.UTC())

	count, ok := frame.Column("tweet_count")
	require.True(t, ok)
	assert.Equal(t, types.IntType, count.Type)
	n, ok := count.IntAt(0)
	require.True(t, ok)
	assert.Equal(t, int64(14), n)
	assert.True(t, count.IsNull(2))
}

func TestResampledDayTypeCounts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "day_type_tweet-count.csv"),
		"date,original,quote,reply,retweet\n2023-02-26,3,1,2,8\n")

	d := New(Options{ResampledDir: dir})
	frame, err := d.ResampledDayTypeCounts()
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "original", "quote", "reply", "retweet"}, frame.ColumnNames())

	retweet, _ := frame.Column("retweet")
	n, ok := retweet.IntAt(0)
	require.True(t, ok)
	assert.Equal(t, int64(8), n)
}

func TestResampledDayRetweetCounts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "day_retweet-count.csv"),
		"retweet_date,retweet_count\n2023-02-26,41.5\n")

	d := New(Options{ResampledDir: dir})
	frame, err := d.ResampledDayRetweetCounts()
	require.NoError(t, err)

	// The retweet file is indexed by retweet_date, not date.
	idx, ok := frame.Column("retweet_date")
	require.True(t, ok)
	assert.Equal(t, types.TimestampType, idx.Type)

	// A column holding any fractional value infers as float.
	count, _ := frame.Column("retweet_count")
	assert.Equal(t, types.FloatType, count.Type)
	f, ok := count.FloatAt(0)
	require.True(t, ok)
	assert.Equal(t, 41.5, f)
}

func TestResampledMissingIndexColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "day_tweet-count.csv"),
		"day,tweet_count\n2023-02-26,14\n")

	d := New(Options{ResampledDir: dir})
	_, err := d.ResampledDayCounts()
	assert.ErrorContains(t, err, `"date"`)
}

// columnarFixture writes one partition file whose created_at values
// start at the given base time.
func columnarFixture(t *testing.T, path string, base time.Time, rows int) {
	t.Helper()

	id := dataset.NewSeries("id", types.StringType)
	created := dataset.NewSeries("created_at", types.TimestampType)
	for i := 0; i < rows; i++ {
		id.Append(string(rune('a' + i)))
		created.Append(base.Add(time.Duration(i) * time.Hour))
	}

	f := dataset.NewFrame()
	require.NoError(t, f.AddSeries(id))
	require.NoError(t, f.AddSeries(created))

	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()
	require.NoError(t, storage.WriteFrame(out, f))
}

func TestReadColumnarLocalDir(t *testing.T) {
	dir := t.TempDir()
	early := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)

	// Lexical file order disagrees with time order on purpose.
	columnarFixture(t, filepath.Join(dir, "part-aaa.twcol"), late, 2)
	columnarFixture(t, filepath.Join(dir, "part-bbb.twcol"), early, 3)

	d := New(Options{})
	ds, err := d.ReadColumnar(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumPartitions())

	divisions := ds.Divisions()
	require.Len(t, divisions, 3)
	assert.True(t, divisions[0].Equal(early))
	assert.True(t, divisions[1].Equal(late))
	assert.True(t, divisions[2].Equal(late.Add(time.Hour)))

	// Partition 0 must be the chronologically earliest file.
	first, err := ds.Partition(0)
	require.NoError(t, err)
	assert.Equal(t, 3, first.NumRows())

	whole, err := ds.Collect()
	require.NoError(t, err)
	assert.Equal(t, 5, whole.NumRows())
}

func TestReadColumnarEmptyDir(t *testing.T) {
	d := New(Options{})
	_, err := d.ReadColumnar(t.TempDir())
	assert.ErrorContains(t, err, ColumnarExtension)
}
