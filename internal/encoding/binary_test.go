package encoding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	in := FileHeader{
		Magic:         MagicNumber,
		Version:       Version,
		ColumnCount:   79,
		RowCount:      123456,
		SchemaLen:     2048,
		NullBitmapLen: 512,
		MinTimestamp:  1_677_369_600_000,
		MaxTimestamp:  1_677_456_000_000,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, in))
	assert.Equal(t, HeaderSize, buf.Len())

	out, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadHeaderBadMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, FileHeader{Magic: 0xdeadbeef, Version: Version}))

	_, err := ReadHeader(&buf)
	assert.ErrorContains(t, err, "magic")
}

func TestReadHeaderBadVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, FileHeader{Magic: MagicNumber, Version: 99}))

	_, err := ReadHeader(&buf)
	assert.ErrorContains(t, err, "version")
}
