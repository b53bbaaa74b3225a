// Copyright (c) 2025 COREGX. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/coregx/sal/internal/dialects"
)

// Where normalizes a filter into a single boolean SQL predicate.
//
// Accepted inputs:
//
//	nil                  -> no filter
//	string               -> trimmed and used as is
//	[]string             -> elements joined with " and "
//	Fields               -> "key = value" per entry, joined with " and "
//	map[string]any       -> like Fields, keys sorted
//	Filter               -> rendered expression
//
// For Fields and maps a key containing "?" is a template: its first "?" is
// replaced by the quoted value, so {"age > ?": 18} renders "age > 18". Keys are
// not identifier-quoted, which allows expressions as keys.
//
// The second result is false when the input yields no usable predicate
// (nil, blank string, empty collection, unsupported type). The predicate is
// never an empty string when ok is true.
func Where(d dialects.Dialect, input any) (string, bool) {
	var predicate string

	switch where := input.(type) {
	case nil:
		return "", false
	case string:
		predicate = strings.TrimSpace(where)
	case []string:
		parts := make([]string, 0, len(where))
		for _, s := range where {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
		predicate = strings.Join(parts, " and ")
	case Fields:
		parts := make([]string, len(where))
		for i, f := range where {
			parts[i] = wherePair(d, f.Name, f.Value)
		}
		predicate = strings.Join(parts, " and ")
	case map[string]any:
		predicate = strings.Join(whereMap(d, where), " and ")
	case Filter:
		if isNilFilter(where) {
			return "", false
		}
		predicate = where.Build(d)
	default:
		return "", false
	}

	if strings.TrimSpace(predicate) == "" {
		return "", false
	}
	return predicate, true
}

func wherePair(d dialects.Dialect, key string, value any) string {
	if !strings.Contains(key, "?") {
		key += " = ?"
	}
	return strings.Replace(key, "?", d.QuoteValue(value), 1)
}

func whereMap(d dialects.Dialect, m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = wherePair(d, k, m[k])
	}
	return parts
}

// Where normalizes a filter using the DB dialect. See the package-level Where.
func (db *DB) Where(input any) (string, bool) {
	return Where(db.dialect, input)
}

// Filter is a structured predicate. Values are inlined through the dialect's
// value quoting and columns through its identifier quoting. An empty rendering
// means "no condition".
//
// Example:
//
//	db.Delete(ctx, "sessions", core.And(
//	    core.Eq("user_id", 7),
//	    core.LessThan("expires_at", core.Expr("NOW()")),
//	))
type Filter interface {
	Build(d dialects.Dialect) string
}

// HashFilter matches every column to its value, joined with "and".
// nil values render "is null" and slices render IN lists. Keys are sorted.
type HashFilter map[string]any

// Build renders the hash filter.
func (h HashFilter) Build(d dialects.Dialect) string {
	if len(h) == 0 {
		return ""
	}

	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		var part string
		switch v := h[k].(type) {
		case []any:
			part = In(k, v...).Build(d)
		case Filter:
			if isNilFilter(v) {
				continue
			}
			if sub := v.Build(d); sub != "" {
				part = "(" + sub + ")"
			}
		default:
			part = Eq(k, v).Build(d)
		}
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " and ")
}

// CompareFilter is a binary comparison (=, <>, >, <, >=, <=).
type CompareFilter struct {
	Col      string
	Operator string
	Value    any
}

// Eq renders "col = value", or "col is null" for nil.
func Eq(col string, value any) Filter {
	return &CompareFilter{Col: col, Operator: "=", Value: value}
}

// NotEq renders "col <> value", or "col is not null" for nil.
func NotEq(col string, value any) Filter {
	return &CompareFilter{Col: col, Operator: "<>", Value: value}
}

// GreaterThan renders "col > value".
func GreaterThan(col string, value any) Filter {
	return &CompareFilter{Col: col, Operator: ">", Value: value}
}

// LessThan renders "col < value".
func LessThan(col string, value any) Filter {
	return &CompareFilter{Col: col, Operator: "<", Value: value}
}

// GreaterOrEqual renders "col >= value".
func GreaterOrEqual(col string, value any) Filter {
	return &CompareFilter{Col: col, Operator: ">=", Value: value}
}

// LessOrEqual renders "col <= value".
func LessOrEqual(col string, value any) Filter {
	return &CompareFilter{Col: col, Operator: "<=", Value: value}
}

// Build renders the comparison.
func (c *CompareFilter) Build(d dialects.Dialect) string {
	col := d.QuoteIdentifier(c.Col)

	if c.Value == nil {
		switch c.Operator {
		case "=":
			return col + " is null"
		case "<>":
			return col + " is not null"
		}
	}

	if sub, ok := c.Value.(Filter); ok && !isNilFilter(sub) {
		return col + " " + c.Operator + " (" + sub.Build(d) + ")"
	}
	return col + " " + c.Operator + " " + filterValue(d, c.Value)
}

// InFilter is an IN or NOT IN list.
type InFilter struct {
	Col    string
	Values []any
	Not    bool
}

// In renders "col in (v1, v2, ...)". An empty list renders "1 = 0".
func In(col string, values ...any) Filter {
	return &InFilter{Col: col, Values: values}
}

// NotIn renders "col not in (v1, v2, ...)". An empty list renders nothing.
func NotIn(col string, values ...any) Filter {
	return &InFilter{Col: col, Values: values, Not: true}
}

// Build renders the list membership test.
func (f *InFilter) Build(d dialects.Dialect) string {
	if len(f.Values) == 0 {
		if f.Not {
			return ""
		}
		return "1 = 0"
	}

	if len(f.Values) == 1 {
		if f.Not {
			return NotEq(f.Col, f.Values[0]).Build(d)
		}
		return Eq(f.Col, f.Values[0]).Build(d)
	}

	vals := make([]string, len(f.Values))
	for i, v := range f.Values {
		vals[i] = filterValue(d, v)
	}

	op := "in"
	if f.Not {
		op = "not in"
	}
	return fmt.Sprintf("%s %s (%s)", d.QuoteIdentifier(f.Col), op, strings.Join(vals, ", "))
}

// BetweenFilter is a BETWEEN or NOT BETWEEN range.
type BetweenFilter struct {
	Col      string
	From, To any
	Not      bool
}

// Between renders "col between from and to".
func Between(col string, from, to any) Filter {
	return &BetweenFilter{Col: col, From: from, To: to}
}

// NotBetween renders "col not between from and to".
func NotBetween(col string, from, to any) Filter {
	return &BetweenFilter{Col: col, From: from, To: to, Not: true}
}

// Build renders the range test.
func (b *BetweenFilter) Build(d dialects.Dialect) string {
	op := "between"
	if b.Not {
		op = "not between"
	}
	return fmt.Sprintf("%s %s %s and %s", d.QuoteIdentifier(b.Col), op,
		filterValue(d, b.From), filterValue(d, b.To))
}

// likeEscaper escapes LIKE wildcards in the searched text.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// LikeFilter matches a column against one or more substrings.
type LikeFilter struct {
	Col         string
	Values      []string
	Not         bool
	Or          bool
	Left, Right bool
}

// Like renders "col like '%v%'" per value, joined with "and".
func Like(col string, values ...string) *LikeFilter {
	return &LikeFilter{Col: col, Values: values, Left: true, Right: true}
}

// NotLike renders "col not like '%v%'" per value.
func NotLike(col string, values ...string) *LikeFilter {
	l := Like(col, values...)
	l.Not = true
	return l
}

// OrLike is Like with values joined by "or".
func OrLike(col string, values ...string) *LikeFilter {
	l := Like(col, values...)
	l.Or = true
	return l
}

// Match sets wildcard matching on the left and/or right of the values.
func (l *LikeFilter) Match(left, right bool) *LikeFilter {
	l.Left, l.Right = left, right
	return l
}

// Build renders the pattern match.
func (l *LikeFilter) Build(d dialects.Dialect) string {
	if len(l.Values) == 0 {
		return ""
	}

	op := "like"
	if l.Not {
		op = "not like"
	}
	col := d.QuoteIdentifier(l.Col)

	parts := make([]string, len(l.Values))
	for i, v := range l.Values {
		escaped := likeEscaper.Replace(v)
		v = escaped
		if l.Left {
			v = "%" + v
		}
		if l.Right {
			v += "%"
		}
		parts[i] = col + " " + op + " " + d.QuoteValue(v)
		// sqlite has no default LIKE escape character
		if escaped != l.Values[i] && d.Name() == "sqlite" {
			parts[i] += ` escape '\'`
		}
	}

	join := " and "
	if l.Or {
		join = " or "
	}
	if len(parts) > 1 {
		return "(" + strings.Join(parts, join) + ")"
	}
	return parts[0]
}

// LogicFilter joins filters with "and" or "or".
type LogicFilter struct {
	Filters []Filter
	Op      string
}

// And joins filters with "and". nil and empty filters are skipped.
func And(filters ...Filter) Filter {
	return &LogicFilter{Filters: filters, Op: "and"}
}

// Or joins filters with "or". nil and empty filters are skipped.
func Or(filters ...Filter) Filter {
	return &LogicFilter{Filters: filters, Op: "or"}
}

// Build renders the combination, parenthesising each operand.
func (l *LogicFilter) Build(d dialects.Dialect) string {
	parts := make([]string, 0, len(l.Filters))
	for _, f := range l.Filters {
		if isNilFilter(f) {
			continue
		}
		if s := f.Build(d); s != "" {
			parts = append(parts, s)
		}
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return "(" + strings.Join(parts, ") "+l.Op+" (") + ")"
}

// NotFilter negates a filter.
type NotFilter struct {
	Filter Filter
}

// Not renders "not (filter)".
func Not(f Filter) Filter {
	return &NotFilter{Filter: f}
}

// Build renders the negation.
func (n *NotFilter) Build(d dialects.Dialect) string {
	if isNilFilter(n.Filter) {
		return ""
	}
	s := n.Filter.Build(d)
	if s == "" {
		return ""
	}
	return "not (" + s + ")"
}

// filterValue quotes v unless it is a literal expression. Literals still go
// through the dialect so a validating dialect sees them.
func filterValue(d dialects.Dialect, v any) string {
	if sql, ok := literalSQL(v); ok {
		return d.QuoteValue(Raw(sql))
	}
	return d.QuoteValue(v)
}

// isNilFilter reports whether f is nil or a nil pointer, map or slice.
func isNilFilter(f Filter) bool {
	if f == nil {
		return true
	}
	rv := reflect.ValueOf(f)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}
