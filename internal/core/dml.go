package core

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// InsertDML renders an insert with every value inlined. Nothing is bound.
func (qb *QueryBuilder) InsertDML(table string, fields Fields) (string, error) {
	if len(fields) == 0 {
		return "", ErrNoFields
	}

	d := qb.db.dialect
	cols := make([]string, len(fields))
	vals := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = d.QuoteIdentifier(f.Name)
		v, err := qb.inlineValue(f.Value)
		if err != nil {
			return "", err
		}
		vals[i] = v
	}

	return "insert into " + d.QuoteIdentifier(table) +
		" (" + strings.Join(cols, ", ") + ")" +
		" values (" + strings.Join(vals, ", ") + ")", nil
}

// UpdateDML renders an update with every value inlined. It returns
// ErrWhereRequired when where yields no predicate.
func (qb *QueryBuilder) UpdateDML(table string, fields Fields, where any) (string, error) {
	predicate, err := qb.where(where)
	if err != nil {
		return "", err
	}
	if len(fields) == 0 {
		return "", ErrNoFields
	}

	d := qb.db.dialect
	sets := make([]string, len(fields))
	for i, f := range fields {
		v, err := qb.inlineValue(f.Value)
		if err != nil {
			return "", err
		}
		sets[i] = d.QuoteIdentifier(f.Name) + " = " + v
	}

	return "update " + d.QuoteIdentifier(table) +
		" set " + strings.Join(sets, ", ") +
		" where " + predicate, nil
}

// inlineValue renders one value for a DML string: literals verbatim, null,
// true/false, bare numbers, and dialect quoting for everything else.
func (qb *QueryBuilder) inlineValue(v any) (string, error) {
	if sql, ok := literalSQL(v); ok {
		if err := qb.db.validateLiteral(sql); err != nil {
			return "", err
		}
		return sql, nil
	}

	return qb.inlineData(v)
}

// inlineData renders a plain value. Valuers are resolved first and their
// errors returned.
func (qb *QueryBuilder) inlineData(v any) (string, error) {
	if v == nil {
		return "null", nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return "null", nil
	}
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil {
			return "", fmt.Errorf("inline value: %w", err)
		}
		return qb.inlineData(dv)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		// NaN and infinities have no SQL literal; let the dialect decide.
		f := rv.Float()
		if f != f || f > 1e308 || f < -1e308 {
			return qb.db.dialect.QuoteValue(v), nil
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	return qb.db.dialect.QuoteValue(v), nil
}
