// Package transform implements the batch format pass over a loaded
// tweet dataset: derived permalink, media and classification columns,
// a constant count column, and the readability renames.
package transform

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/melaniewalsh/tweetframe/internal/dataset"
	"github.com/melaniewalsh/tweetframe/internal/schema"
	"github.com/melaniewalsh/tweetframe/pkg/types"
)

// NoImage stands in for "no applicable media URL". It is a sentinel
// value, distinct from null.
const NoImage = "No image URL"

type Options struct {
	// IncludeHTML wraps extracted media URLs in clickable image markup.
	IncludeHTML bool
}

// Format applies the format pass. A Partitioned dataset stays
// deferred: the pass is mapped over each partition, which gives
// identical results because every per-row function is pure.
func Format(ds dataset.Dataset, opts Options) (dataset.Dataset, error) {
	if p, ok := ds.(dataset.Partitioned); ok {
		return dataset.MapPartitions(p, func(f *dataset.Frame) (*dataset.Frame, error) {
			return formatFrame(f, opts)
		}), nil
	}
	frame, err := ds.Collect()
	if err != nil {
		return nil, err
	}
	return formatFrame(frame, opts)
}

// formatFrame derives the new columns in a fixed order. Each step
// reads only source columns, never a column added earlier in the same
// pass, so the steps commute with partitioning.
func formatFrame(src *dataset.Frame, opts Options) (*dataset.Frame, error) {
	f := src.Clone()
	rows := f.NumRows()

	// Tweet permalink from (username, id). The nested author.username
	// is preferred over a flat username when both exist.
	usernameCol := "username"
	if f.HasColumn("author.username") {
		usernameCol = "author.username"
	}
	usernames, _ := f.Column(usernameCol)
	ids, _ := f.Column("id")

	tweetURL := dataset.NewSeries("tweet_url", types.StringType)
	for i := 0; i < rows; i++ {
		username, okU := stringCell(usernames, i)
		id, okID := stringCell(ids, i)
		if !okU || !okID {
			tweetURL.AppendNull()
			continue
		}
		tweetURL.Append(TweetURL(username, id))
	}
	if err := f.SetSeries(tweetURL); err != nil {
		return nil, err
	}

	// Media URL from the raw attachments descriptor. The raw column
	// may be absent entirely; every row then carries the sentinel.
	attachments, _ := f.Column("attachments.media")
	media := dataset.NewSeries("media", types.StringType)
	for i := 0; i < rows; i++ {
		raw, ok := stringCell(attachments, i)
		url := NoImage
		if ok {
			url = ImageURL(raw)
		}
		if opts.IncludeHTML {
			url = ImageHTML(url)
		}
		media.Append(url)
	}
	if err := f.SetSeries(media); err != nil {
		return nil, err
	}

	// Tweet classification from the three referenced-tweet id fields.
	retweeted, _ := f.Column("referenced_tweets.retweeted.id")
	quoted, _ := f.Column("referenced_tweets.quoted.id")
	replied, _ := f.Column("referenced_tweets.replied_to.id")

	tweetType := dataset.NewSeries("type", types.EnumType)
	for i := 0; i < rows; i++ {
		_, hasRetweet := stringCell(retweeted, i)
		_, hasQuote := stringCell(quoted, i)
		_, hasReply := stringCell(replied, i)
		tweetType.Append(TweetType(hasRetweet, hasQuote, hasReply))
	}
	if err := f.SetSeries(tweetType); err != nil {
		return nil, err
	}

	// Constant count column for later summation.
	count := dataset.NewSeries("tweet_count", types.IntType)
	for i := 0; i < rows; i++ {
		count.Append(int64(1))
	}
	if err := f.SetSeries(count); err != nil {
		return nil, err
	}

	f.Rename(schema.Renames())
	return f, nil
}

// Keep projects a formatted frame down to the keeper columns that are
// present, dropping the rest.
func Keep(f *dataset.Frame) *dataset.Frame {
	return f.Select(schema.Keepers())
}

// TweetURL builds the tweet permalink.
func TweetURL(username, id string) string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s", username, id)
}

// ImageURL extracts the URL of the first media descriptor from the
// raw attachments text: a list of records serialized with either
// single or double quotes. Missing, unparsable or URL-less
// descriptors degrade to the NoImage sentinel, never an error.
func ImageURL(raw string) string {
	records, ok := decodeMediaList(raw)
	if !ok || len(records) == 0 {
		return NoImage
	}
	if url, ok := records[0]["url"].(string); ok && url != "" {
		return url
	}
	return NoImage
}

func decodeMediaList(raw string) ([]map[string]any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	var records []map[string]any
	if err := json.Unmarshal([]byte(raw), &records); err == nil {
		return records, true
	}
	// Descriptors exported via Python repr use single quotes.
	fixed := strings.ReplaceAll(raw, "'", `"`)
	if err := json.Unmarshal([]byte(fixed), &records); err == nil {
		return records, true
	}
	return nil, false
}

// ImageHTML wraps a media URL in an anchor tag rendering the image at
// fixed width. The sentinel passes through unchanged.
func ImageHTML(url string) string {
	if url == NoImage {
		return url
	}
	return fmt.Sprintf("<a href='%s'>'<img src='%s' width='500px'></a>", url, url)
}

// TweetType classifies a tweet from the presence of its three
// referenced-tweet ids. The retweet check runs strictly first, then
// the quote/reply combination, then quote alone, then reply alone.
func TweetType(hasRetweet, hasQuote, hasReply bool) string {
	switch {
	case hasRetweet:
		return "retweet"
	case hasQuote && hasReply:
		return "quote/reply"
	case hasQuote:
		return "quote"
	case hasReply:
		return "reply"
	default:
		return "original"
	}
}

// stringCell reads a text cell from a possibly absent column. An
// absent column, a null cell and an empty string all count as "no
// value here".
func stringCell(s *dataset.Series, i int) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.StringAt(i)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
