package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFields(t *testing.T) {
	f := NewFields("name", "Alice", "age", 30)

	assert.Equal(t, Fields{{"name", "Alice"}, {"age", 30}}, f)
	assert.Panics(t, func() { NewFields("name") })
	assert.Panics(t, func() { NewFields(1, "x") })
}

func TestFieldsFromMap_Sorted(t *testing.T) {
	f := FieldsFromMap(map[string]any{"c": 3, "a": 1, "b": 2})
	assert.Equal(t, []string{"a", "b", "c"}, f.Names())
	assert.Equal(t, []any{1, 2, 3}, f.Values())
}

func TestFields_SetGet(t *testing.T) {
	f := Fields{{"a", 1}}
	f = f.Set("b", 2).Set("a", 10)

	assert.Equal(t, []string{"a", "b"}, f.Names())
	v, ok := f.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, v)

	_, ok = f.Get("missing")
	assert.False(t, ok)
}

func TestLiteralSQL(t *testing.T) {
	tests := []struct {
		value   any
		sql     string
		literal bool
	}{
		{"``NOW()", "NOW()", true},
		{"``", "", true},
		{Expr("a + 1"), "a + 1", true},
		{"`NOW()", "", false},
		{"NOW()", "", false},
		{42, "", false},
		{nil, "", false},
	}

	for _, tt := range tests {
		sql, ok := literalSQL(tt.value)
		assert.Equal(t, tt.literal, ok, "%#v", tt.value)
		assert.Equal(t, tt.sql, sql, "%#v", tt.value)
	}
}

func TestRow_Accessors(t *testing.T) {
	r := NewRow([]string{"id", "name", "id"}, []any{int64(1), "x", int64(2)})

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, "x", r.Value(1))

	v, ok := r.Get("id")
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)

	assert.Equal(t, map[string]any{"id": int64(2), "name": "x"}, r.Map())
}

func TestFieldsFromStruct(t *testing.T) {
	type account struct {
		ID    int64  `db:"id,pk"`
		Owner string `db:"owner"`
		Note  string `db:"note,omitempty"`
		Skip  bool   `db:"-"`
	}

	fields, pk, err := FieldsFromStruct(account{ID: 3, Owner: "bob"})
	assert.NoError(t, err)
	assert.Equal(t, Fields{{"id", int64(3)}, {"owner", "bob"}}, fields)
	assert.Equal(t, []string{"id"}, pk)

	_, _, err = FieldsFromStruct("nope")
	assert.Error(t, err)
}
