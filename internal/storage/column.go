package storage

import (
	"github.com/melaniewalsh/tweetframe/pkg/types"
)

type ColumnMetadata struct {
	Type           types.DataType
	Name           string
	Offset         int64
	Length         int64
	CompressedSize int64
	NullCount      int64
}

// ColumnBlock pairs a column's metadata with its raw (decompressed)
// block. Data stays nil until the column is first read.
type ColumnBlock struct {
	Metadata ColumnMetadata
	Data     []byte

	// index is the column's position in the schema, used to address
	// the row-major null bitmap.
	index int
}

func NewColumnBlock(name string, dtype types.DataType) *ColumnBlock {
	return &ColumnBlock{
		Metadata: ColumnMetadata{
			Type: dtype,
			Name: name,
		},
	}
}

// compressorName picks the block compressor for a column type:
// reference-plus-delta codecs for the ordered numeric columns, run
// lengths for flags, snappy for everything else.
func compressorName(dtype types.DataType) string {
	switch dtype {
	case types.TimestampType:
		return "temporal"
	case types.IntType:
		return "delta"
	case types.BooleanType:
		return "boolean"
	default:
		return "snappy"
	}
}
