package encoding

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	MagicNumber = 0x54574600 // "TWF\0"
	Version     = 1

	// HeaderSize is the fixed byte length of FileHeader on disk. The
	// time range lives in this fixed region so a remote reader can
	// fetch divisions with a small ranged request.
	HeaderSize = 4 + 2 + 4 + 8 + 4 + 4 + 8 + 8
)

// FileHeader opens every columnar tweet file. MinTimestamp and
// MaxTimestamp are the created_at range of the rows in the file, in
// Unix milliseconds, and act as the partition divisions for
// range-based work. Both are zero when the file has no created_at
// column.
type FileHeader struct {
	Magic         uint32
	Version       uint16
	ColumnCount   uint32
	RowCount      uint64
	SchemaLen     uint32
	NullBitmapLen uint32
	MinTimestamp  int64
	MaxTimestamp  int64
}

func WriteHeader(w io.Writer, header FileHeader) error {
	if err := binary.Write(w, binary.BigEndian, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

func ReadHeader(r io.Reader) (FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return header, fmt.Errorf("failed to read header: %w", err)
	}
	if header.Magic != MagicNumber {
		return header, fmt.Errorf("invalid magic number: expected %x, got %x", MagicNumber, header.Magic)
	}
	if header.Version != Version {
		return header, fmt.Errorf("unsupported version: %d", header.Version)
	}
	return header, nil
}
