package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/melaniewalsh/tweetframe/internal/compression"
	"github.com/melaniewalsh/tweetframe/internal/dataset"
	"github.com/melaniewalsh/tweetframe/internal/encoding"
	"github.com/melaniewalsh/tweetframe/pkg/types"
)

var ErrInvalidColumn = errors.New("invalid column")

// Reader decodes a columnar tweet file. Column blocks load lazily on
// first access; the header, schema, null bitmap and metadata load up
// front.
type Reader struct {
	r          io.ReadSeeker
	header     encoding.FileHeader
	schema     types.Schema
	nullBitmap []byte
	columns    map[string]*ColumnBlock
	order      []string
}

func NewReader(r io.ReadSeeker) (*Reader, error) {
	reader := &Reader{
		r:       r,
		columns: make(map[string]*ColumnBlock),
	}

	header, err := encoding.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	reader.header = header

	schemaBytes := make([]byte, header.SchemaLen)
	if _, err := io.ReadFull(r, schemaBytes); err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	if err := json.Unmarshal(schemaBytes, &reader.schema); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	reader.nullBitmap = make([]byte, header.NullBitmapLen)
	if _, err := io.ReadFull(r, reader.nullBitmap); err != nil {
		return nil, fmt.Errorf("failed to read null bitmap: %w", err)
	}

	if err := reader.readColumnMetadata(); err != nil {
		return nil, fmt.Errorf("failed to read column metadata: %w", err)
	}
	return reader, nil
}

func (r *Reader) readColumnMetadata() error {
	for i := range r.schema.Columns {
		var m ColumnMetadata

		var typeVal uint8
		if err := binary.Read(r.r, binary.BigEndian, &typeVal); err != nil {
			return err
		}
		m.Type = types.DataType(typeVal)

		var nameLen uint32
		if err := binary.Read(r.r, binary.BigEndian, &nameLen); err != nil {
			return err
		}
		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(r.r, nameBytes); err != nil {
			return err
		}
		m.Name = string(nameBytes)

		for _, dst := range []*int64{&m.Offset, &m.Length, &m.CompressedSize, &m.NullCount} {
			if err := binary.Read(r.r, binary.BigEndian, dst); err != nil {
				return err
			}
		}

		r.columns[m.Name] = &ColumnBlock{Metadata: m, index: i}
		r.order = append(r.order, m.Name)
	}
	return nil
}

func (r *Reader) Schema() types.Schema {
	return r.schema
}

func (r *Reader) RowCount() uint64 {
	return r.header.RowCount
}

// TimeRange returns the created_at range recorded in the header. The
// third return is false when the file carries no range.
func (r *Reader) TimeRange() (time.Time, time.Time, bool) {
	if r.header.MinTimestamp == 0 && r.header.MaxTimestamp == 0 {
		return time.Time{}, time.Time{}, false
	}
	return time.UnixMilli(r.header.MinTimestamp).UTC(), time.UnixMilli(r.header.MaxTimestamp).UTC(), true
}

// ReadColumn decodes a single column, nulls restored from the bitmap.
func (r *Reader) ReadColumn(name string) (*dataset.Series, error) {
	block, ok := r.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidColumn, name)
	}
	if err := r.loadColumnData(block); err != nil {
		return nil, err
	}
	return r.decodeColumn(block)
}

// ReadFrame materializes every column in schema order.
func (r *Reader) ReadFrame() (*dataset.Frame, error) {
	frame := dataset.NewFrame()
	for _, name := range r.order {
		col, err := r.ReadColumn(name)
		if err != nil {
			return nil, err
		}
		if err := frame.AddSeries(col); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

func (r *Reader) loadColumnData(block *ColumnBlock) error {
	if block.Data != nil {
		return nil
	}
	if _, err := r.r.Seek(block.Metadata.Offset, io.SeekStart); err != nil {
		return err
	}
	compressed := make([]byte, block.Metadata.CompressedSize)
	if _, err := io.ReadFull(r.r, compressed); err != nil {
		return err
	}

	compressor, err := compression.Get(compressorName(block.Metadata.Type))
	if err != nil {
		return fmt.Errorf("failed to get decompressor: %w", err)
	}
	decompressed, err := compressor.Decompress(compressed)
	if err != nil {
		return fmt.Errorf("decompression failed for column %q: %w", block.Metadata.Name, err)
	}
	if int64(len(decompressed)) != block.Metadata.Length {
		return fmt.Errorf("column %q: decompressed %d bytes, expected %d",
			block.Metadata.Name, len(decompressed), block.Metadata.Length)
	}
	block.Data = decompressed
	return nil
}

func (r *Reader) isNull(row int, colIndex int) bool {
	bit := uint64(row)*uint64(r.header.ColumnCount) + uint64(colIndex)
	return r.nullBitmap[bit/8]&(1<<(bit%8)) != 0
}

func (r *Reader) decodeColumn(block *ColumnBlock) (*dataset.Series, error) {
	rows := int(r.header.RowCount)
	col := dataset.NewSeries(block.Metadata.Name, block.Metadata.Type)
	data := block.Data

	appendCell := func(row int, v any) {
		if r.isNull(row, block.index) {
			col.AppendNull()
		} else {
			col.Append(v)
		}
	}

	switch block.Metadata.Type {
	case types.IntType:
		if len(data) < rows*8 {
			return nil, fmt.Errorf("column %q: truncated int block", col.Name)
		}
		for i := 0; i < rows; i++ {
			appendCell(i, int64(binary.BigEndian.Uint64(data[i*8:])))
		}
	case types.TimestampType:
		if len(data) < rows*8 {
			return nil, fmt.Errorf("column %q: truncated timestamp block", col.Name)
		}
		for i := 0; i < rows; i++ {
			ms := int64(binary.BigEndian.Uint64(data[i*8:]))
			appendCell(i, time.UnixMilli(ms).UTC())
		}
	case types.FloatType:
		if len(data) < rows*8 {
			return nil, fmt.Errorf("column %q: truncated float block", col.Name)
		}
		for i := 0; i < rows; i++ {
			appendCell(i, math.Float64frombits(binary.BigEndian.Uint64(data[i*8:])))
		}
	case types.BooleanType:
		if len(data) < rows {
			return nil, fmt.Errorf("column %q: truncated boolean block", col.Name)
		}
		for i := 0; i < rows; i++ {
			appendCell(i, data[i] != 0)
		}
	case types.StringType, types.EnumType, types.ObjectType:
		values, err := decodeStringColumn(data, rows)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		for i, v := range values {
			appendCell(i, v)
		}
	default:
		return nil, fmt.Errorf("unsupported column type: %s", block.Metadata.Type)
	}
	return col, nil
}

func decodeStringColumn(data []byte, rows int) ([]string, error) {
	if len(data) < 4 {
		return nil, errors.New("truncated string dictionary")
	}
	dictLen := binary.BigEndian.Uint32(data[:4])
	offset := 4

	dict := make([]string, dictLen)
	for i := uint32(0); i < dictLen; i++ {
		if offset+4 > len(data) {
			return nil, errors.New("truncated string dictionary entry")
		}
		strLen := int(binary.BigEndian.Uint32(data[offset:]))
		offset += 4
		if offset+strLen > len(data) {
			return nil, errors.New("truncated string dictionary entry")
		}
		dict[i] = string(data[offset : offset+strLen])
		offset += strLen
	}

	if len(data)-offset < rows*4 {
		return nil, errors.New("truncated string index block")
	}
	values := make([]string, rows)
	for i := 0; i < rows; i++ {
		idx := binary.BigEndian.Uint32(data[offset+i*4:])
		if idx >= dictLen {
			return nil, errors.New("invalid string dictionary index")
		}
		values[i] = dict[idx]
	}
	return values, nil
}
