package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer_MaskParams_DefaultFields(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		params []any
		want   []any
	}{
		{
			name:   "Password field",
			sql:    "update users set password = ? where id = ?",
			params: []any{"secret123", 1},
			want:   []any{maskValue, maskValue},
		},
		{
			name:   "API key field",
			sql:    "select * from integrations where api_key = ?",
			params: []any{"sk_test_123456"},
			want:   []any{maskValue},
		},
		{
			name:   "No sensitive fields",
			sql:    "select * from users where id = ? and name = ?",
			params: []any{1, "Alice"},
			want:   []any{1, "Alice"},
		},
		{
			name:   "Empty params",
			sql:    "select count(*) from users",
			params: []any{},
			want:   []any{},
		},
		{
			name:   "Case insensitive",
			sql:    "UPDATE users SET PASSWORD = ? WHERE id = ?",
			params: []any{"secret", 1},
			want:   []any{maskValue, maskValue},
		},
		{
			name:   "Partial word does not match",
			sql:    "select * from authors where id = ?",
			params: []any{7},
			want:   []any{7},
		},
	}

	s := NewSanitizer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.MaskParams(tt.sql, tt.params))
		})
	}
}

func TestSanitizer_MaskColumns(t *testing.T) {
	s := NewSanitizer(nil)

	sql := "insert into `users` (`name`, `password`, `age`) values (?, ?, ?)"
	params := []any{"alice", "hunter2", 30}

	got := s.MaskColumns(sql, []string{"name", "password", "age"}, params)
	assert.Equal(t, []any{"alice", maskValue, 30}, got)
	assert.Equal(t, "hunter2", params[1], "original params must not be modified")
}

func TestSanitizer_MaskColumns_TailFallsBackToSQL(t *testing.T) {
	s := NewSanitizer([]string{"token"})

	// Columns cover the first param only; the tail follows the raw SQL rule.
	got := s.MaskColumns("update sessions set token = ? where id = ?", []string{"token"}, []any{"abc", 5})
	assert.Equal(t, []any{maskValue, maskValue}, got)

	got = s.MaskColumns("update sessions set name = ? where id = ?", []string{"name"}, []any{"x", 5})
	assert.Equal(t, []any{"x", 5}, got)
}

func TestSanitizer_CustomFields(t *testing.T) {
	s := NewSanitizer([]string{"pin"})
	assert.True(t, s.IsSensitive("PIN"))
	assert.False(t, s.IsSensitive("password"))
}

func TestSanitizer_FormatParams(t *testing.T) {
	s := NewSanitizer(nil)

	assert.Equal(t, "[]", s.FormatParams(nil))
	assert.Equal(t, "[1, NULL, abc, <3 bytes>]", s.FormatParams([]any{1, nil, "abc", []byte("xyz")}))

	long := strings.Repeat("x", 150)
	out := s.FormatParams([]any{long})
	assert.True(t, strings.HasSuffix(out, "...]"))
	assert.Len(t, out, 1+100+3+1)
}
