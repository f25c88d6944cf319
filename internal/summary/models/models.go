// Package models holds the request and response shapes for summary tables.
// All values are request-scoped; nothing here is shared across requests.
package models

import (
	"bytes"
	"encoding/json"
)

// DefaultLimit is the row cap applied when the request omits limit.
const DefaultLimit = 10

// ObligationsColumn names the trailing summed-spending column in responses.
const ObligationsColumn = "obligations"

// GroupKey is the ordered, validated list of group-by field keys for one
// request. Must be non-empty; duplicates are redundant but not rejected.
type GroupKey []string

// FilterSet holds the validated filter values for one request. Nil slices
// and empty strings impose no constraint.
type FilterSet struct {
	ATC        []string
	Awag       []string
	Awid       []string
	CFDA       []string
	NAICS      []string
	PPoPSt     []string
	PPoPCt     []string
	PSC        []string
	UEI        []string
	Years      []int
	YearMonths []string
	StartDate  string
	EndDate    string
}

// ResultRow is one tuple from the executed aggregation query: group values
// in GroupKey order followed by the summed obligation.
type ResultRow []any

// SchemaField describes one response column.
type SchemaField struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// SchemaFields is the schema block of a summary table response.
type SchemaFields struct {
	Fields []SchemaField `json:"fields"`
}

// Row is one data row: group-key name to value, plus the trailing
// obligations value.
type Row map[string]any

// Table is the full summary table response: a self-describing schema block
// plus ordered data rows.
type Table struct {
	Schema SchemaFields `json:"schema"`
	Data   []Row        `json:"data"`
}

// MarshalJSON writes data rows with keys in schema field order, so each row
// reads group values in request order with obligations last instead of the
// map's alphabetical order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"schema":`)
	schema, err := json.Marshal(t.Schema)
	if err != nil {
		return nil, err
	}
	buf.Write(schema)

	buf.WriteString(`,"data":[`)
	for i, row := range t.Data {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		wrote := false
		for _, field := range t.Schema.Fields {
			value, ok := row[field.Name]
			if !ok {
				continue
			}
			if wrote {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(field.Name)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(value)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
			wrote = true
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}
