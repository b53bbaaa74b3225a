package logger

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultSensitiveFields lists column names whose values are never logged verbatim.
var DefaultSensitiveFields = []string{
	"password", "passwd", "pwd",
	"token", "api_key", "apikey", "api_token",
	"secret", "auth", "authorization",
	"credit_card", "card_number", "cvv", "cvc",
	"ssn", "social_security",
	"private_key", "priv_key",
}

const maskValue = "***REDACTED***"

// Sanitizer masks sensitive data in query parameters before they reach a log line.
//
// Statements produced by the builders know which column every bound parameter
// belongs to, so only the parameters of sensitive columns are masked. For raw
// statements the column mapping is unknown and all parameters are masked as soon
// as the SQL mentions a sensitive field.
type Sanitizer struct {
	fields   map[string]struct{}
	patterns []*regexp.Regexp
}

// NewSanitizer creates a sanitizer for the given field names.
// If no fields are provided, DefaultSensitiveFields is used.
func NewSanitizer(sensitiveFields []string) *Sanitizer {
	if len(sensitiveFields) == 0 {
		sensitiveFields = DefaultSensitiveFields
	}

	s := &Sanitizer{
		fields:   make(map[string]struct{}, len(sensitiveFields)),
		patterns: make([]*regexp.Regexp, 0, len(sensitiveFields)),
	}
	for _, field := range sensitiveFields {
		s.fields[strings.ToLower(field)] = struct{}{}
		s.patterns = append(s.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(field)+`\b`))
	}
	return s
}

// IsSensitive reports whether a column name is configured as sensitive.
func (s *Sanitizer) IsSensitive(column string) bool {
	_, ok := s.fields[strings.ToLower(column)]
	return ok
}

// MaskColumns masks params whose column (same index in columns) is sensitive.
// A params slice longer than columns is handled by MaskParams for the tail.
// The original slice is never modified.
func (s *Sanitizer) MaskColumns(sql string, columns []string, params []any) []any {
	if len(columns) == 0 {
		return s.MaskParams(sql, params)
	}

	masked := make([]any, len(params))
	copy(masked, params)
	for i := range masked {
		if i < len(columns) {
			if s.IsSensitive(columns[i]) {
				masked[i] = maskValue
			}
			continue
		}
		if s.mentionsSensitive(sql) {
			masked[i] = maskValue
		}
	}
	return masked
}

// MaskParams masks every parameter if the SQL mentions a sensitive field.
// It returns a new slice when masking happens and the original otherwise.
func (s *Sanitizer) MaskParams(sql string, params []any) []any {
	if len(params) == 0 || !s.mentionsSensitive(sql) {
		return params
	}

	masked := make([]any, len(params))
	for i := range masked {
		masked[i] = maskValue
	}
	return masked
}

func (s *Sanitizer) mentionsSensitive(sql string) bool {
	for _, pattern := range s.patterns {
		if pattern.MatchString(sql) {
			return true
		}
	}
	return false
}

// FormatParams converts parameters to a printable form for logging.
// Sensitive values should be masked before calling this.
func (s *Sanitizer) FormatParams(params []any) string {
	if len(params) == 0 {
		return "[]"
	}

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = formatValue(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatValue truncates very long values to keep log lines bounded.
func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}

	var str string
	switch val := v.(type) {
	case []byte:
		str = fmt.Sprintf("<%d bytes>", len(val))
	default:
		str = fmt.Sprintf("%v", v)
	}

	const maxLen = 100
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}
