package core

import (
	"github.com/jmoiron/sqlx"
)

// Row is one result record with its column order preserved.
type Row struct {
	columns []string
	values  []any
}

// NewRow builds a Row from parallel column and value slices.
func NewRow(columns []string, values []any) Row {
	return Row{columns: columns, values: values}
}

// Columns returns the column names in result order.
func (r Row) Columns() []string {
	return r.columns
}

// Values returns the values in result order.
func (r Row) Values() []any {
	return r.values
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.values)
}

// Value returns the i-th value.
func (r Row) Value(i int) any {
	return r.values[i]
}

// Get returns the value of the first column with the given name.
func (r Row) Get(name string) (any, bool) {
	for i, col := range r.columns {
		if col == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Map returns the row as a map. Later duplicate column names win.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, col := range r.columns {
		m[col] = r.values[i]
	}
	return m
}

// scanRows reads up to limit rows (all when limit is 0) and closes rows.
// Driver []byte values are copied into strings since the driver may reuse
// the buffer on the next Next call.
func scanRows(rows *sqlx.Rows, limit int) ([]Row, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []Row{}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result = append(result, Row{columns: columns, values: values})
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
