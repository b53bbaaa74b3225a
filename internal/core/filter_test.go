// Copyright (c) 2025 COREGX. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package core

import (
	"testing"
	"time"
)

func TestWhere_NoPredicate(t *testing.T) {
	db := builderDB("mysql")

	inputs := map[string]any{
		"nil":          nil,
		"empty string": "",
		"blank string": "   \t ",
		"empty slice":  []string{},
		"empty fields": Fields{},
		"empty map":    map[string]any{},
		"unsupported":  42,
		"empty filter": And(),
		"blank slice":  []string{"", "  "},
		"nil filter":   Filter((*CompareFilter)(nil)),
		"and of nil":   And((*CompareFilter)(nil), nil),
		"not of nil":   Not((*InFilter)(nil)),
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			got, ok := db.Where(input)
			if ok {
				t.Errorf("Expected no predicate, got %q", got)
			}
			if got != "" {
				t.Errorf("Expected empty result with ok=false, got %q", got)
			}
		})
	}
}

func TestWhere_Inputs(t *testing.T) {
	db := builderDB("mysql")

	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string trimmed", "  id = 1  ", "id = 1"},
		{"slice", []string{"a = 1", "b = 2"}, "a = 1 and b = 2"},
		{"slice skips blanks", []string{"", "a = 1", "  "}, "a = 1"},
		{"duration", Fields{{"timeout", 5 * time.Second}}, "timeout = 5000000000"},
		{"nil operand", And(Eq("a", 1), (*CompareFilter)(nil)), "`a` = 1"},
		{"fields", Fields{{"id", 5}, {"name", "x"}}, "id = 5 and name = 'x'"},
		{"map sorted", map[string]any{"b": 2, "a": 1}, "a = 1 and b = 2"},
		{"template key", Fields{{"age > ?", 18}}, "age > 18"},
		{"first placeholder only", Fields{{"a between ? and 9", 1}}, "a between 1 and 9"},
		{"nil value", Fields{{"deleted_at", nil}}, "deleted_at = NULL"},
		{"escaped value", Fields{{"name", "a'b"}}, `name = 'a\'b'`},
		{"raw value", Fields{{"ts", Expr("NOW()")}}, "ts = NOW()"},
		{"marker is data", Fields{{"ts", "``NOW()"}}, "ts = '``NOW()'"},
		{"filter", Eq("id", 3), "`id` = 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := db.Where(tt.input)
			if !ok {
				t.Fatalf("Expected predicate for %v", tt.input)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFilters_Build(t *testing.T) {
	db := builderDB("sqlite")

	tests := []struct {
		name     string
		filter   Filter
		expected string
	}{
		{"eq", Eq("name", "Alice"), `"name" = 'Alice'`},
		{"eq nil", Eq("deleted_at", nil), `"deleted_at" is null`},
		{"not eq nil", NotEq("deleted_at", nil), `"deleted_at" is not null`},
		{"greater", GreaterThan("age", 18), `"age" > 18`},
		{"less or equal", LessOrEqual("age", 65), `"age" <= 65`},
		{"raw value", LessThan("expires_at", Expr("CURRENT_TIMESTAMP")), `"expires_at" < CURRENT_TIMESTAMP`},
		{"in", In("id", 1, 2, 3), `"id" in (1, 2, 3)`},
		{"in single", In("id", 1), `"id" = 1`},
		{"in empty", In("id"), "1 = 0"},
		{"not in empty", NotIn("id"), ""},
		{"not in", NotIn("id", 1, 2), `"id" not in (1, 2)`},
		{"between", Between("age", 18, 30), `"age" between 18 and 30`},
		{"not between", NotBetween("age", 18, 30), `"age" not between 18 and 30`},
		{"like", Like("name", "al"), `"name" like '%al%'`},
		{"like prefix", Like("name", "al").Match(false, true), `"name" like 'al%'`},
		{"or like", OrLike("name", "a", "b"), `("name" like '%a%' or "name" like '%b%')`},
		{"not like", NotLike("name", "x"), `"name" not like '%x%'`},
		{"like escaped", Like("code", "50%"), `"code" like '%50\%%' escape '\'`},
		{"and", And(Eq("a", 1), nil, Eq("b", 2)), `("a" = 1) and ("b" = 2)`},
		{"or single", Or(Eq("a", 1)), `"a" = 1`},
		{"not", Not(Eq("a", 1)), `not ("a" = 1)`},
		{"hash", HashFilter{"b": []any{1, 2}, "a": nil}, `"a" is null and "b" in (1, 2)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Build(db.Dialect())
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
