package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/sal/internal/util"
)

// LiteralMarker prefixes string values that must be spliced into SQL verbatim.
//
//	fields := core.Fields{{"updated_at", "``NOW()"}}
//
// The text after the marker is never escaped and never bound. Callers are
// responsible for its safety. Prefer Raw, which cannot be confused with data.
const LiteralMarker = "``"

// Raw is a SQL expression emitted verbatim in place of a value.
type Raw string

// Expr returns a Raw expression.
func Expr(sql string) Raw {
	return Raw(sql)
}

// LiteralSQL returns the expression text.
func (r Raw) LiteralSQL() string {
	return string(r)
}

// Field is one column/value pair.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered field map. Its order defines both the generated column
// list and the order of bound parameters.
type Fields []Field

// NewFields builds Fields from alternating name/value arguments.
// It panics if a name is not a string or the argument count is odd.
//
//	core.NewFields("name", "Alice", "age", 30)
func NewFields(pairs ...any) Fields {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("NewFields: odd number of arguments (%d)", len(pairs)))
	}
	fields := make(Fields, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("NewFields: argument %d must be a column name, got %T", i, pairs[i]))
		}
		fields = append(fields, Field{Name: name, Value: pairs[i+1]})
	}
	return fields
}

// FieldsFromMap converts a map into Fields sorted by column name so that
// generated SQL is deterministic.
func FieldsFromMap(m map[string]any) Fields {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make(Fields, len(keys))
	for i, k := range keys {
		fields[i] = Field{Name: k, Value: m[k]}
	}
	return fields
}

// FieldsFromStruct converts a struct with db tags into Fields in field
// declaration order. The second result lists the columns tagged "pk", usable
// as the conflict target of InsertOrUpdate.
//
//	type Account struct {
//	    ID    int64  `db:"id,pk"`
//	    Owner string `db:"owner"`
//	    Note  string `db:"note,omitempty"`
//	}
func FieldsFromStruct(v any) (Fields, []string, error) {
	columns, err := util.StructColumns(v)
	if err != nil {
		return nil, nil, err
	}

	fields := make(Fields, len(columns))
	var pk []string
	for i, c := range columns {
		fields[i] = Field{Name: c.Name, Value: c.Value}
		if c.PK {
			pk = append(pk, c.Name)
		}
	}
	return fields, pk, nil
}

// Set appends a field, or replaces the value of an existing column in place.
func (f Fields) Set(name string, value any) Fields {
	for i := range f {
		if f[i].Name == name {
			f[i].Value = value
			return f
		}
	}
	return append(f, Field{Name: name, Value: value})
}

// Names returns the column names in order.
func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i, field := range f {
		names[i] = field.Name
	}
	return names
}

// Values returns the values in order.
func (f Fields) Values() []any {
	values := make([]any, len(f))
	for i, field := range f {
		values[i] = field.Value
	}
	return values
}

// Get returns the value of a column.
func (f Fields) Get(name string) (any, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// literalSQL reports whether v is a literal expression and returns its text.
func literalSQL(v any) (string, bool) {
	switch val := v.(type) {
	case Raw:
		return string(val), true
	case string:
		if strings.HasPrefix(val, LiteralMarker) {
			return val[len(LiteralMarker):], true
		}
	}
	return "", false
}
