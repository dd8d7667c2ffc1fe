package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/melaniewalsh/tweetframe/internal/dataset"
	"github.com/melaniewalsh/tweetframe/internal/storage"
)

// ColumnarExtension is the suffix of partition files.
const ColumnarExtension = ".twcol"

// localPartitioned is a partitioned columnar dataset on disk: one
// file per partition, ordered by each file's created_at range.
type localPartitioned struct {
	paths     []string
	divisions []time.Time
}

func openLocalDir(dir string) (dataset.Partitioned, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+ColumnarExtension))
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s partitions found in %s", ColumnarExtension, dir)
	}

	ranges := make([]partitionRange, len(paths))
	for i, path := range paths {
		pr, err := localPartitionRange(path)
		if err != nil {
			return nil, err
		}
		pr.name = path
		ranges[i] = pr
	}
	paths, divisions := orderPartitions(ranges)

	slog.Debug("opened columnar dataset", "dir", dir, "partitions", len(paths))
	return &localPartitioned{paths: paths, divisions: divisions}, nil
}

func localPartitionRange(path string) (partitionRange, error) {
	f, err := os.Open(path)
	if err != nil {
		return partitionRange{}, fmt.Errorf("failed to open partition %s: %w", path, err)
	}
	defer f.Close()

	r, err := storage.NewReader(f)
	if err != nil {
		return partitionRange{}, fmt.Errorf("failed to read partition %s: %w", path, err)
	}
	minT, maxT, ok := r.TimeRange()
	return partitionRange{min: minT, max: maxT, ranged: ok}, nil
}

func (p *localPartitioned) NumPartitions() int {
	return len(p.paths)
}

func (p *localPartitioned) Partition(i int) (*dataset.Frame, error) {
	f, err := os.Open(p.paths[i])
	if err != nil {
		return nil, fmt.Errorf("failed to open partition %s: %w", p.paths[i], err)
	}
	defer f.Close()

	r, err := storage.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read partition %s: %w", p.paths[i], err)
	}
	return r.ReadFrame()
}

func (p *localPartitioned) Divisions() []time.Time {
	return p.divisions
}

func (p *localPartitioned) Collect() (*dataset.Frame, error) {
	return dataset.CollectPartitions(p)
}

// partitionRange carries one partition's created_at range while the
// dataset is being ordered.
type partitionRange struct {
	name   string
	min    time.Time
	max    time.Time
	ranged bool
}

// orderPartitions sorts partitions by their minimum created_at and
// builds the division boundaries: each partition's minimum followed
// by the final maximum. Divisions come back nil when any partition
// lacks a range.
func orderPartitions(ranges []partitionRange) ([]string, []time.Time) {
	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].min.Before(ranges[j].min)
	})

	names := make([]string, len(ranges))
	divisions := make([]time.Time, 0, len(ranges)+1)
	known := true
	for i, pr := range ranges {
		names[i] = pr.name
		if !pr.ranged {
			known = false
		}
		divisions = append(divisions, pr.min)
	}
	if !known {
		return names, nil
	}
	divisions = append(divisions, ranges[len(ranges)-1].max)
	return names, divisions
}
