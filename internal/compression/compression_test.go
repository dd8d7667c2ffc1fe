package compression

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64sToBytes(values ...int64) []byte {
	data := make([]byte, len(values)*8)
	for i, v := range values {
		binary.BigEndian.PutUint64(data[i*8:], uint64(v))
	}
	return data
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"snappy", "delta", "temporal", "boolean"} {
		c, err := Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}

	_, err := Get("zstd")
	assert.ErrorIs(t, err, ErrCompressorNotFound)
}

func TestSnappyRoundTrip(t *testing.T) {
	c := NewSnappyCompressor()
	original := []byte("en,en,en,en,und,en,es,en,en,en")

	compressed, err := c.Compress(original)
	require.NoError(t, err)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestDeltaRoundTrip(t *testing.T) {
	c := NewDeltaCompressor()
	original := int64sToBytes(100, 105, 105, 90, -3, 0, 1<<40)

	compressed, err := c.Compress(original)
	require.NoError(t, err)
	assert.Len(t, compressed, len(original))

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestDeltaEmptyAndInvalid(t *testing.T) {
	c := NewDeltaCompressor()

	compressed, err := c.Compress(nil)
	require.NoError(t, err)
	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, decompressed)

	_, err = c.Compress([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidDataSize)
	_, err = c.Decompress([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidDataSize)
}

func TestTemporalRoundTrip(t *testing.T) {
	c := NewTemporalCompressor()

	base := time.Date(2023, 2, 26, 0, 0, 0, 0, time.UTC).UnixMilli()
	original := int64sToBytes(base, base+250, base+250, base+61_000, base+86_400_000)

	compressed, err := c.Compress(original)
	require.NoError(t, err)
	// Small deltas shrink well below the fixed-width encoding.
	assert.Less(t, len(compressed), len(original))

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestTemporalSingleValue(t *testing.T) {
	c := NewTemporalCompressor()
	original := int64sToBytes(1_677_369_600_000)

	compressed, err := c.Compress(original)
	require.NoError(t, err)
	assert.Len(t, compressed, 8)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestTemporalInvalid(t *testing.T) {
	c := NewTemporalCompressor()

	_, err := c.Compress([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidDataSize)

	_, err = c.Decompress([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestBooleanRoundTrip(t *testing.T) {
	c := NewBooleanCompressor()
	original := []byte{1, 1, 1, 1, 0, 0, 1, 0, 0, 0, 0, 0}

	compressed, err := c.Compress(original)
	require.NoError(t, err)
	// Four runs, five bytes each.
	assert.Len(t, compressed, 20)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestBooleanEmptyAndInvalid(t *testing.T) {
	c := NewBooleanCompressor()

	compressed, err := c.Compress(nil)
	require.NoError(t, err)
	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, decompressed)

	_, err = c.Decompress([]byte{0, 0, 0, 1})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
