package dialects

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// valueQuoter renders Go values as SQL literals. The per-dialect parts are the
// string, bytes and time encoders; everything else is shared.
type valueQuoter struct {
	str   func(string) string
	bytes func([]byte) string
	time  func(time.Time) string
}

func (q valueQuoter) quote(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case Literal:
		return val.LiteralSQL()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return q.str(val)
	case []byte:
		if val == nil {
			return "NULL"
		}
		return q.bytes(val)
	case time.Time:
		return q.time(val)
	case *time.Time:
		if val == nil {
			return "NULL"
		}
		return q.time(*val)
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return formatFloat(float64(val), 32)
	case float64:
		return formatFloat(val, 64)
	case driver.Valuer:
		// A failing Valuer renders NULL here; the builders check Valuers
		// before rendering and report the error instead.
		dv, err := val.Value()
		if err != nil {
			return "NULL"
		}
		return q.quote(dv)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "NULL"
		}
		return q.quote(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return q.bytes(rv.Bytes())
		}
		return q.list(rv)
	case reflect.Bool:
		return q.quote(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float(), 64)
	case reflect.String:
		return q.str(rv.String())
	}

	// fmt.Sprint uses String() for Stringers with non-scalar kinds.
	return q.str(fmt.Sprint(v))
}

// list renders slices as comma separated values; nested slices become
// parenthesised groups, which is what bulk "in (...)" and multi-row values need.
func (q valueQuoter) list(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		for elem.Kind() == reflect.Interface && !elem.IsNil() {
			elem = elem.Elem()
		}
		if (elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array) &&
			elem.Type().Elem().Kind() != reflect.Uint8 {
			parts[i] = "(" + q.list(elem) + ")"
			continue
		}
		parts[i] = q.quote(elem.Interface())
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "NULL"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// quoteStandard escapes a string by doubling single quotes (SQL standard).
func quoteStandard(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteHexBlob renders bytes as an X'..' blob literal.
func quoteHexBlob(b []byte) string {
	return "X'" + hex.EncodeToString(b) + "'"
}
