package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/melaniewalsh/tweetframe/internal/compression"
	"github.com/melaniewalsh/tweetframe/internal/dataset"
	"github.com/melaniewalsh/tweetframe/internal/encoding"
	"github.com/melaniewalsh/tweetframe/pkg/types"
)

// WriteFrame serializes a frame as a single columnar tweet file:
// fixed header, schema JSON, row-major null bitmap, column metadata,
// compressed column blocks. The created_at range lands in the fixed
// header so partitioned readers can order files without decoding
// them.
func WriteFrame(w io.Writer, f *dataset.Frame) error {
	sch := f.Schema()
	schemaJSON, err := json.Marshal(sch)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	rows := f.NumRows()
	ncols := f.NumColumns()
	bitmap := make([]byte, (rows*ncols+7)/8)

	blocks := make([]*ColumnBlock, 0, ncols)
	for colIdx, name := range f.ColumnNames() {
		col, _ := f.Column(name)
		block := NewColumnBlock(name, col.Type)
		for i := 0; i < rows; i++ {
			if col.IsNull(i) {
				bit := uint64(i*ncols + colIdx)
				bitmap[bit/8] |= 1 << (bit % 8)
				block.Metadata.NullCount++
			}
		}
		raw, err := encodeColumn(col)
		if err != nil {
			return fmt.Errorf("failed to encode column %q: %w", name, err)
		}
		block.Metadata.Length = int64(len(raw))

		compressor, err := compression.Get(compressorName(col.Type))
		if err != nil {
			return fmt.Errorf("failed to get compressor for column %q: %w", name, err)
		}
		compressed, err := compressor.Compress(raw)
		if err != nil {
			return fmt.Errorf("compression failed for column %q: %w", name, err)
		}
		block.Data = compressed
		block.Metadata.CompressedSize = int64(len(compressed))
		blocks = append(blocks, block)
	}

	minTS, maxTS := createdAtRange(f)

	header := encoding.FileHeader{
		Magic:         encoding.MagicNumber,
		Version:       encoding.Version,
		ColumnCount:   uint32(ncols),
		RowCount:      uint64(rows),
		SchemaLen:     uint32(len(schemaJSON)),
		NullBitmapLen: uint32(len(bitmap)),
		MinTimestamp:  minTS,
		MaxTimestamp:  maxTS,
	}

	// Blocks start after header, schema, bitmap and all metadata
	// records.
	offset := int64(encoding.HeaderSize + len(schemaJSON) + len(bitmap))
	for _, block := range blocks {
		offset += int64(metadataSize(block.Metadata.Name))
	}
	for _, block := range blocks {
		block.Metadata.Offset = offset
		offset += block.Metadata.CompressedSize
	}

	if err := encoding.WriteHeader(w, header); err != nil {
		return err
	}
	if _, err := w.Write(schemaJSON); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	if _, err := w.Write(bitmap); err != nil {
		return fmt.Errorf("failed to write null bitmap: %w", err)
	}
	for _, block := range blocks {
		if err := writeMetadata(w, block.Metadata); err != nil {
			return fmt.Errorf("failed to write metadata for column %q: %w", block.Metadata.Name, err)
		}
	}
	for _, block := range blocks {
		if _, err := w.Write(block.Data); err != nil {
			return fmt.Errorf("failed to write column %q: %w", block.Metadata.Name, err)
		}
	}
	return nil
}

// metadataSize is the on-disk length of one column metadata record.
func metadataSize(name string) int {
	return 1 + 4 + len(name) + 8*4
}

func writeMetadata(w io.Writer, m ColumnMetadata) error {
	if err := binary.Write(w, binary.BigEndian, uint8(m.Type)); err != nil {
		return err
	}
	nameBytes := []byte(m.Name)
	if err := binary.Write(w, binary.BigEndian, uint32(len(nameBytes))); err != nil {
		return err
	}
	if _, err := w.Write(nameBytes); err != nil {
		return err
	}
	for _, v := range []int64{m.Offset, m.Length, m.CompressedSize, m.NullCount} {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// createdAtRange finds the min and max created_at in Unix
// milliseconds, or zeros when the column is absent or all null.
func createdAtRange(f *dataset.Frame) (int64, int64) {
	col, ok := f.Column("created_at")
	if !ok || col.Type != types.TimestampType {
		return 0, 0
	}
	var minTS, maxTS int64
	seen := false
	for i := 0; i < col.Len(); i++ {
		t, ok := col.TimeAt(i)
		if !ok {
			continue
		}
		ms := t.UnixMilli()
		if !seen || ms < minTS {
			minTS = ms
		}
		if !seen || ms > maxTS {
			maxTS = ms
		}
		seen = true
	}
	return minTS, maxTS
}

// encodeColumn lays a series out as a raw block. Numeric and time
// cells take eight big-endian bytes each, booleans one byte, text
// columns a dictionary followed by per-row indexes. Null cells write
// the type's zero value; the null bitmap is authoritative.
func encodeColumn(col *dataset.Series) ([]byte, error) {
	rows := col.Len()
	switch col.Type {
	case types.IntType:
		data := make([]byte, rows*8)
		for i := 0; i < rows; i++ {
			if v, ok := col.IntAt(i); ok {
				binary.BigEndian.PutUint64(data[i*8:], uint64(v))
			}
		}
		return data, nil
	case types.TimestampType:
		data := make([]byte, rows*8)
		for i := 0; i < rows; i++ {
			if t, ok := col.TimeAt(i); ok {
				binary.BigEndian.PutUint64(data[i*8:], uint64(t.UnixMilli()))
			}
		}
		return data, nil
	case types.FloatType:
		data := make([]byte, rows*8)
		for i := 0; i < rows; i++ {
			if v, ok := col.FloatAt(i); ok {
				binary.BigEndian.PutUint64(data[i*8:], math.Float64bits(v))
			}
		}
		return data, nil
	case types.BooleanType:
		data := make([]byte, rows)
		for i := 0; i < rows; i++ {
			if v, ok := col.BoolAt(i); ok && v {
				data[i] = 1
			}
		}
		return data, nil
	case types.StringType, types.EnumType, types.ObjectType:
		return encodeStringColumn(col)
	}
	return nil, fmt.Errorf("unsupported column type: %s", col.Type)
}

// encodeStringColumn dictionary-encodes a text column: a uint32 entry
// count, length-prefixed entries, then one uint32 dictionary index
// per row. Twitter exports repeat usernames, languages and sources
// heavily, so the dictionary stays small.
func encodeStringColumn(col *dataset.Series) ([]byte, error) {
	rows := col.Len()
	dict := make([]string, 0, 16)
	dictIdx := make(map[string]uint32)
	indexes := make([]uint32, rows)

	lookup := func(s string) uint32 {
		if idx, ok := dictIdx[s]; ok {
			return idx
		}
		idx := uint32(len(dict))
		dict = append(dict, s)
		dictIdx[s] = idx
		return idx
	}

	for i := 0; i < rows; i++ {
		s, ok := col.StringAt(i)
		if !ok {
			s = ""
		}
		indexes[i] = lookup(s)
	}

	var buf []byte
	var scratch [4]byte
	binary.BigEndian.PutUint32(scratch[:], uint32(len(dict)))
	buf = append(buf, scratch[:]...)
	for _, entry := range dict {
		binary.BigEndian.PutUint32(scratch[:], uint32(len(entry)))
		buf = append(buf, scratch[:]...)
		buf = append(buf, entry...)
	}
	for _, idx := range indexes {
		binary.BigEndian.PutUint32(scratch[:], idx)
		buf = append(buf, scratch[:]...)
	}
	return buf, nil
}
