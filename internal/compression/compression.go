package compression

import (
	"errors"
	"sync"
)

var (
	ErrCompressorNotFound = errors.New("compressor not found")
	ErrInvalidDataSize    = errors.New("invalid data size for compression")
	ErrInvalidFormat      = errors.New("invalid compressed data format")
)

var (
	compressorsMu sync.RWMutex
	compressors   = make(map[string]Compressor)
)

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

func Register(name string, c Compressor) {
	compressorsMu.Lock()
	defer compressorsMu.Unlock()
	compressors[name] = c
}

func Get(name string) (Compressor, error) {
	compressorsMu.RLock()
	defer compressorsMu.RUnlock()
	if c, ok := compressors[name]; ok {
		return c, nil
	}
	return nil, ErrCompressorNotFound
}
