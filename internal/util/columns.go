// Package util maps tagged structs onto ordered column lists.
package util

import (
	"errors"
	"reflect"
	"strings"
)

// Column is one exported struct field mapped to a database column.
type Column struct {
	Name  string
	Value any
	PK    bool
}

// parseDBTag parses db tag to extract column name and flags.
//
// Supported formats:
//   - "column"           -> column="column"
//   - "column,pk"        -> primary key column
//   - "column,omitempty" -> skipped when the value is zero
//   - "-"                -> skip field
func parseDBTag(tag string) (column string, isPK, omitEmpty bool) {
	parts := strings.Split(tag, ",")
	column = strings.TrimSpace(parts[0])

	for _, part := range parts[1:] {
		switch strings.TrimSpace(part) {
		case "pk":
			isPK = true
		case "omitempty":
			omitEmpty = true
		}
	}
	return column, isPK, omitEmpty
}

// StructColumns returns the columns of a struct in declaration order.
//
// Rules:
//   - Unexported fields are skipped.
//   - db:"-" fields are skipped.
//   - Fields without db tag use the field name.
//   - Embedded structs without a db tag are flattened.
//
// Returns error if data is not a struct, *struct, or is a nil pointer.
func StructColumns(data any) ([]Column, error) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errors.New("StructColumns: nil pointer")
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, errors.New("StructColumns: expected struct, got " + v.Kind().String())
	}

	var columns []Column
	appendColumns(v, &columns)
	return columns, nil
}

func appendColumns(v reflect.Value, columns *[]Column) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag, tagged := field.Tag.Lookup("db")
		if field.Anonymous && !tagged && field.Type.Kind() == reflect.Struct {
			appendColumns(v.Field(i), columns)
			continue
		}

		name := field.Name
		var isPK, omitEmpty bool
		if tagged {
			name, isPK, omitEmpty = parseDBTag(tag)
			if name == "-" {
				continue
			}
			if name == "" {
				name = field.Name
			}
		}

		fv := v.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		*columns = append(*columns, Column{Name: name, Value: fv.Interface(), PK: isPK})
	}
}
