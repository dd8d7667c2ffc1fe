package dataset

import (
	"time"
)

// Dataset is a loaded table of tweets, either fully materialized or
// evaluated partition by partition. Callers that need partition-wise
// behavior check for the Partitioned capability explicitly rather
// than attempting one code path and recovering from its failure.
type Dataset interface {
	// Collect materializes the whole dataset as a single frame.
	Collect() (*Frame, error)
}

// Partitioned is a deferred dataset stored as ordered partitions. The
// data is sorted by created_at across partitions so that range-based
// operations stay efficient.
type Partitioned interface {
	Dataset
	NumPartitions() int
	// Partition materializes a single partition.
	Partition(i int) (*Frame, error)
	// Divisions returns the partition boundaries: each partition's
	// minimum created_at followed by the final maximum. Nil when the
	// source carries no time range metadata.
	Divisions() []time.Time
}

// memoryPartitioned serves already materialized frames as partitions.
type memoryPartitioned struct {
	frames    []*Frame
	divisions []time.Time
}

func NewMemoryPartitioned(frames []*Frame, divisions []time.Time) Partitioned {
	return &memoryPartitioned{frames: frames, divisions: divisions}
}

func (m *memoryPartitioned) NumPartitions() int {
	return len(m.frames)
}

func (m *memoryPartitioned) Partition(i int) (*Frame, error) {
	return m.frames[i], nil
}

func (m *memoryPartitioned) Divisions() []time.Time {
	return m.divisions
}

func (m *memoryPartitioned) Collect() (*Frame, error) {
	return CollectPartitions(m)
}

// mappedPartitioned defers a per-partition function, keeping
// evaluation lazy. The function must be pure so that partition-wise
// and collected results agree.
type mappedPartitioned struct {
	src Partitioned
	fn  func(*Frame) (*Frame, error)
}

func MapPartitions(src Partitioned, fn func(*Frame) (*Frame, error)) Partitioned {
	return &mappedPartitioned{src: src, fn: fn}
}

func (m *mappedPartitioned) NumPartitions() int {
	return m.src.NumPartitions()
}

func (m *mappedPartitioned) Partition(i int) (*Frame, error) {
	frame, err := m.src.Partition(i)
	if err != nil {
		return nil, err
	}
	return m.fn(frame)
}

func (m *mappedPartitioned) Divisions() []time.Time {
	return m.src.Divisions()
}

func (m *mappedPartitioned) Collect() (*Frame, error) {
	return CollectPartitions(m)
}

// CollectPartitions materializes every partition and concatenates
// them in order.
func CollectPartitions(p Partitioned) (*Frame, error) {
	frames := make([]*Frame, p.NumPartitions())
	for i := range frames {
		frame, err := p.Partition(i)
		if err != nil {
			return nil, err
		}
		frames[i] = frame
	}
	return Concat(frames...)
}
