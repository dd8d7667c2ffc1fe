package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataTypeString(t *testing.T) {
	assert.Equal(t, "String", StringType.String())
	assert.Equal(t, "Timestamp", TimestampType.String())
	assert.Equal(t, "Object", ObjectType.String())
	assert.Equal(t, "DataType(42)", DataType(42).String())
}

func TestSchemaJSONRoundTrip(t *testing.T) {
	in := Schema{Columns: []Column{
		{Name: "id", Type: StringType, Nullable: true},
		{Name: "created_at", Type: TimestampType, Nullable: true},
		{Name: "public_metrics.like_count", Type: IntType, Nullable: true},
	}}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Timestamp"`)

	var out Schema
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestDataTypeUnmarshalUnknown(t *testing.T) {
	var d DataType
	err := json.Unmarshal([]byte(`"Widget"`), &d)
	assert.Error(t, err)
}

func TestSchemaColumn(t *testing.T) {
	s := Schema{Columns: []Column{{Name: "lang", Type: StringType}}}

	col, ok := s.Column("lang")
	require.True(t, ok)
	assert.Equal(t, StringType, col.Type)

	_, ok = s.Column("missing")
	assert.False(t, ok)
}
