package compression

import (
	"encoding/binary"
)

// TemporalCompressor encodes int64 millisecond timestamps as a
// reference point followed by zigzag varint deltas. Tweet timestamps
// arrive in chronological order, so deltas stay small.
type TemporalCompressor struct{}

func NewTemporalCompressor() *TemporalCompressor {
	return &TemporalCompressor{}
}

func (c *TemporalCompressor) Name() string {
	return "temporal"
}

func (c *TemporalCompressor) Compress(data []byte) ([]byte, error) {
	if len(data)%8 != 0 {
		return nil, ErrInvalidDataSize
	}
	if len(data) == 0 {
		return []byte{}, nil
	}

	count := len(data) / 8
	values := make([]int64, count)
	for i := range values {
		values[i] = int64(binary.BigEndian.Uint64(data[i*8:]))
	}

	// Reference point plus varint deltas. Worst case a delta takes
	// 10 bytes, so reserve that up front.
	result := make([]byte, 8, 8+count*binary.MaxVarintLen64)
	binary.BigEndian.PutUint64(result[0:8], uint64(values[0]))

	buf := make([]byte, binary.MaxVarintLen64)
	prev := values[0]
	for _, v := range values[1:] {
		n := binary.PutVarint(buf, v-prev)
		result = append(result, buf[:n]...)
		prev = v
	}

	return result, nil
}

func (c *TemporalCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	if len(data) < 8 {
		return nil, ErrInvalidFormat
	}

	values := []int64{int64(binary.BigEndian.Uint64(data[0:8]))}
	rest := data[8:]
	for len(rest) > 0 {
		delta, n := binary.Varint(rest)
		if n <= 0 {
			return nil, ErrInvalidFormat
		}
		values = append(values, values[len(values)-1]+delta)
		rest = rest[n:]
	}

	result := make([]byte, len(values)*8)
	for i, v := range values {
		binary.BigEndian.PutUint64(result[i*8:], uint64(v))
	}
	return result, nil
}

func init() {
	Register("temporal", NewTemporalCompressor())
}
