package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/melaniewalsh/tweetframe/internal/schema"
	"github.com/melaniewalsh/tweetframe/pkg/types"
)

// timestampLayouts are tried in order when parsing a timestamp cell.
// The export layout comes first; the others cover hand-edited files.
var timestampLayouts = []string{
	schema.TimestampLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// IsNullToken reports whether a raw CSV cell encodes a missing value.
func IsNullToken(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "null", "na", "n/a", "<na>":
		return true
	}
	return false
}

// parseCell coerces a raw cell to the canonical Go value for the
// semantic type.
func parseCell(raw string, dtype types.DataType) (any, error) {
	switch dtype {
	case types.StringType, types.EnumType, types.ObjectType:
		return raw, nil
	case types.IntType:
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v, nil
		}
		// Exports that round-tripped through a float frame write
		// integers as "42.0".
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int64(f)) {
			return int64(f), nil
		}
		return nil, fmt.Errorf("invalid integer value: %q", raw)
	case types.FloatType:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float value: %q", raw)
		}
		return v, nil
	case types.BooleanType:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean value: %q", raw)
	case types.TimestampType:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("invalid timestamp value: %q", raw)
	}
	return nil, fmt.Errorf("unsupported data type: %s", dtype)
}

// formatCell serializes a canonical cell value back to text. Inverse
// of parseCell for values written by this package.
func formatCell(v any, dtype types.DataType) string {
	switch dtype {
	case types.IntType:
		return strconv.FormatInt(v.(int64), 10)
	case types.FloatType:
		return strconv.FormatFloat(v.(float64), 'g', -1, 64)
	case types.BooleanType:
		return strconv.FormatBool(v.(bool))
	case types.TimestampType:
		return v.(time.Time).UTC().Format(schema.TimestampLayout)
	default:
		return v.(string)
	}
}
