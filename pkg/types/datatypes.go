package types

import (
	"encoding/json"
	"fmt"
)

// DataType is the semantic type of a column, independent of how the
// column is represented on disk.
type DataType int

const (
	StringType DataType = iota
	IntType
	FloatType
	BooleanType
	EnumType
	TimestampType
	ObjectType
)

var dataTypeNames = [...]string{
	"String", "Int", "Float", "Boolean", "Enum", "Timestamp", "Object",
}

func (d DataType) String() string {
	if d < 0 || int(d) >= len(dataTypeNames) {
		return fmt.Sprintf("DataType(%d)", int(d))
	}
	return dataTypeNames[d]
}

func (d DataType) MarshalJSON() ([]byte, error) {
	if d < 0 || int(d) >= len(dataTypeNames) {
		return nil, fmt.Errorf("unknown data type: %d", int(d))
	}
	return json.Marshal(dataTypeNames[d])
}

func (d *DataType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range dataTypeNames {
		if n == name {
			*d = DataType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown data type: %q", name)
}

type Column struct {
	Name     string   `json:"name"`
	Type     DataType `json:"type"`
	Nullable bool     `json:"nullable"`
}

type Schema struct {
	Columns []Column `json:"columns"`
}

// Column returns the schema entry for name, if present.
func (s Schema) Column(name string) (Column, bool) {
	for _, col := range s.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// NullableValue wraps a cell value with its validity. Valid is false
// when the cell is null.
type NullableValue struct {
	Value any
	Valid bool
}
