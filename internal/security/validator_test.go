package security

import (
	"errors"
	"testing"
)

func TestValidator_ValidateExpression(t *testing.T) {
	tests := []struct {
		name      string
		fragment  string
		strict    bool
		wantError bool
		wantRule  string
	}{
		// Legitimate expressions (should pass)
		{name: "now", fragment: "NOW()"},
		{name: "arithmetic", fragment: "counter + 1"},
		{name: "function with args", fragment: "COALESCE(`a`, 0) * 2"},
		{name: "filter", fragment: "status = 'active' and age > 18"},
		{name: "trailing semicolon only", fragment: "NOW();"},
		{name: "or allowed by default", fragment: "a = 1 or b = 2"},

		// Attacks
		{name: "line comment", fragment: "1 -- ", wantError: true, wantRule: "line comment"},
		{name: "block comment", fragment: "1 /* x */", wantError: true, wantRule: "block comment"},
		{name: "stacked", fragment: "1; drop table users", wantError: true, wantRule: "stacked statement"},
		{name: "union", fragment: "1 UNION ALL SELECT password FROM users", wantError: true, wantRule: "union select"},
		{name: "sleep", fragment: "SLEEP(5)", wantError: true, wantRule: "sleep"},
		{name: "pg sleep", fragment: "pg_sleep (5)", wantError: true, wantRule: "sleep"},
		{name: "tautology", fragment: "x = 1 OR 1=1", wantError: true, wantRule: "tautology"},
		{name: "quoted tautology", fragment: "x = '' or '1'='1'", wantError: true, wantRule: "tautology"},
		{name: "outfile", fragment: "1 into outfile '/tmp/x'", wantError: true, wantRule: "file access"},

		// Strict mode
		{name: "strict subselect", fragment: "(select max(id) from t)", strict: true, wantError: true, wantRule: "sub-select"},
		{name: "strict or", fragment: "a = 1 or b = 2", strict: true, wantError: true, wantRule: "or"},
		{name: "strict passes simple", fragment: "NOW()", strict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(WithStrict(tt.strict))
			err := v.ValidateExpression(tt.fragment)

			if (err != nil) != tt.wantError {
				t.Fatalf("ValidateExpression(%q) error = %v, wantError %v", tt.fragment, err, tt.wantError)
			}
			if err == nil {
				return
			}

			var violation *ViolationError
			if !errors.As(err, &violation) {
				t.Fatalf("Expected *ViolationError, got %T", err)
			}
			if violation.Rule != tt.wantRule {
				t.Errorf("Expected rule %q, got %q", tt.wantRule, violation.Rule)
			}
			if violation.Fragment != tt.fragment {
				t.Errorf("Expected fragment %q, got %q", tt.fragment, violation.Fragment)
			}
		})
	}
}

func TestValidator_WithPatterns(t *testing.T) {
	v := NewValidator(WithPatterns(`\bdrop\b`))

	if err := v.ValidateExpression("DROP"); err == nil {
		t.Error("Expected custom pattern to reject DROP")
	}
	if err := v.ValidateExpression("NOW()"); err != nil {
		t.Errorf("Expected NOW() to pass, got %v", err)
	}
}
