package compression

import (
	"encoding/binary"
)

// DeltaCompressor stores the difference between consecutive int64
// values. Engagement counters and identifiers change slowly between
// neighboring rows, so deltas are small and compress well when
// snappy-framed afterwards.
type DeltaCompressor struct{}

func NewDeltaCompressor() *DeltaCompressor {
	return &DeltaCompressor{}
}

func (c *DeltaCompressor) Name() string {
	return "delta"
}

func (c *DeltaCompressor) Compress(data []byte) ([]byte, error) {
	if len(data)%8 != 0 {
		return nil, ErrInvalidDataSize
	}

	nums := make([]int64, len(data)/8)
	for i := range nums {
		nums[i] = int64(binary.BigEndian.Uint64(data[i*8:]))
	}

	result := make([]byte, len(data))
	if len(nums) > 0 {
		binary.BigEndian.PutUint64(result[0:8], uint64(nums[0]))
	}
	for i := 1; i < len(nums); i++ {
		delta := nums[i] - nums[i-1]
		binary.BigEndian.PutUint64(result[i*8:], uint64(delta))
	}

	return result, nil
}

func (c *DeltaCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data)%8 != 0 {
		return nil, ErrInvalidDataSize
	}
	if len(data) == 0 {
		return []byte{}, nil
	}

	result := make([]byte, len(data))
	copy(result[0:8], data[0:8])
	prev := int64(binary.BigEndian.Uint64(data[0:8]))

	for i := 1; i < len(data)/8; i++ {
		delta := int64(binary.BigEndian.Uint64(data[i*8:]))
		value := prev + delta
		binary.BigEndian.PutUint64(result[i*8:], uint64(value))
		prev = value
	}

	return result, nil
}

func init() {
	Register("delta", NewDeltaCompressor())
}
