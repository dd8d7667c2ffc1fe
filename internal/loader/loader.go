// Package loader wraps the retrieval paths for tweet datasets: raw
// CSV exports from disk or URL, partitioned columnar datasets from
// disk or an object store, and the pre-aggregated resampled CSVs.
package loader

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/melaniewalsh/tweetframe/internal/dataset"
	"github.com/melaniewalsh/tweetframe/internal/schema"
	"github.com/melaniewalsh/tweetframe/internal/storage"
)

const (
	// DefaultResampledDir holds the pre-baked resampled summary CSVs.
	DefaultResampledDir = "./data/baldwin/resampled"

	// DefaultFullDatasetPath is the full tweet dataset in columnar
	// form on S3.
	DefaultFullDatasetPath = "s3://melwalshtweets/full_baldwin_tweets_2006-2023/"

	DefaultRegion = "us-east-1"
)

// Well-known resampled summary files. The retweet counts file is
// irregularly indexed by retweet_date.
const (
	dayCountFile        = "day_tweet-count.csv"
	dayTypeCountFile    = "day_type_tweet-count.csv"
	dayRetweetCountFile = "day_retweet-count.csv"
)

// Credentials holds the object-store access pair. Only remote reads
// need it.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

type Options struct {
	ResampledDir    string
	FullDatasetPath string
	Region          string
	Credentials     Credentials
}

// Data loads datasets according to its options. The zero Options
// value selects the default locations.
type Data struct {
	opts Options
}

func New(opts Options) *Data {
	if opts.ResampledDir == "" {
		opts.ResampledDir = DefaultResampledDir
	}
	if opts.FullDatasetPath == "" {
		opts.FullDatasetPath = DefaultFullDatasetPath
	}
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}
	return &Data{opts: opts}
}

// ReadTweetCSV loads a tweet CSV export from a local path or an
// http(s) URL, coerced per the schema map. timeCols decides which
// columns are parsed as timestamps.
func (d *Data) ReadTweetCSV(pathOrURL string, timeCols *schema.TimeColumns) (*dataset.Frame, error) {
	r, err := openSource(pathOrURL)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	frame, err := storage.ReadCSV(r, timeCols)
	if err != nil {
		return nil, fmt.Errorf("failed to load tweet CSV %s: %w", pathOrURL, err)
	}
	slog.Debug("loaded tweet CSV", "source", pathOrURL, "rows", frame.NumRows(), "columns", frame.NumColumns())
	return frame, nil
}

// FullDataset opens the full columnar tweet dataset at its fixed
// upstream location.
func (d *Data) FullDataset() (dataset.Partitioned, error) {
	return d.ReadColumnar(d.opts.FullDatasetPath)
}

// ReadColumnar opens a partitioned columnar dataset from a local
// directory or an s3://bucket/prefix location. Partitions come back
// ordered by their created_at divisions.
func (d *Data) ReadColumnar(location string) (dataset.Partitioned, error) {
	if strings.HasPrefix(location, "s3://") {
		return d.openS3(location)
	}
	return openLocalDir(location)
}

func openSource(pathOrURL string) (io.ReadCloser, error) {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		resp, err := http.Get(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", pathOrURL, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to fetch %s: status %s", pathOrURL, resp.Status)
		}
		return resp.Body, nil
	}
	f, err := os.Open(pathOrURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", pathOrURL, err)
	}
	return f, nil
}

// ResampledDayCounts loads tweet counts resampled by day.
func (d *Data) ResampledDayCounts() (*dataset.Frame, error) {
	return d.readResampled(dayCountFile, "date")
}

// ResampledDayTypeCounts loads tweet counts grouped by type and
// resampled by day.
func (d *Data) ResampledDayTypeCounts() (*dataset.Frame, error) {
	return d.readResampled(dayTypeCountFile, "date")
}

// ResampledDayRetweetCounts loads retweet counts resampled by day.
func (d *Data) ResampledDayRetweetCounts() (*dataset.Frame, error) {
	return d.readResampled(dayRetweetCountFile, "retweet_date")
}

func (d *Data) readResampled(filename, indexCol string) (*dataset.Frame, error) {
	path := filepath.Join(d.opts.ResampledDir, filename)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resampled file: %w", err)
	}
	defer f.Close()

	frame, err := readResampledCSV(f, indexCol)
	if err != nil {
		return nil, fmt.Errorf("failed to load resampled file %s: %w", path, err)
	}
	slog.Debug("loaded resampled CSV", "file", filename, "rows", frame.NumRows())
	return frame, nil
}
