package compression

import (
	"encoding/binary"
)

// BooleanCompressor run-length encodes one-byte boolean values. Flags
// like verified or possibly_sensitive hold the same value for long
// stretches of rows.
type BooleanCompressor struct{}

func NewBooleanCompressor() *BooleanCompressor {
	return &BooleanCompressor{}
}

func (c *BooleanCompressor) Name() string {
	return "boolean"
}

// Each run is a uint32 count followed by a single value byte.
func (c *BooleanCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	result := make([]byte, 0, 16)
	current := data[0] & 1
	run := uint32(1)

	flush := func() {
		var buf [5]byte
		binary.BigEndian.PutUint32(buf[:4], run)
		buf[4] = current
		result = append(result, buf[:]...)
	}

	for _, b := range data[1:] {
		v := b & 1
		if v == current && run < ^uint32(0) {
			run++
			continue
		}
		flush()
		current = v
		run = 1
	}
	flush()

	return result, nil
}

func (c *BooleanCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	if len(data)%5 != 0 {
		return nil, ErrInvalidFormat
	}

	total := uint64(0)
	for i := 0; i < len(data); i += 5 {
		total += uint64(binary.BigEndian.Uint32(data[i:]))
	}

	result := make([]byte, 0, total)
	for i := 0; i < len(data); i += 5 {
		run := binary.BigEndian.Uint32(data[i:])
		value := data[i+4]
		for j := uint32(0); j < run; j++ {
			result = append(result, value)
		}
	}

	return result, nil
}

func init() {
	Register("boolean", NewBooleanCompressor())
}
