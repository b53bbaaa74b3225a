// Package security vets caller-supplied SQL fragments that bypass escaping:
// literal expressions in field values and raw string filters.
package security

import (
	"fmt"
	"regexp"
)

// Validator rejects SQL fragments that contain common injection constructs.
type Validator struct {
	patterns []namedPattern
}

type namedPattern struct {
	name string
	re   *regexp.Regexp
}

// ValidatorOption configures the Validator.
type ValidatorOption func(*validatorConfig)

type validatorConfig struct {
	strict bool
	extra  []string
}

// WithStrict additionally rejects sub-selects and boolean connectives inside
// literal expressions. Expect false positives on legitimate filters.
func WithStrict(strict bool) ValidatorOption {
	return func(c *validatorConfig) {
		c.strict = strict
	}
}

// WithPatterns adds case-insensitive regular expressions to the deny list.
// Invalid expressions panic at construction.
func WithPatterns(patterns ...string) ValidatorOption {
	return func(c *validatorConfig) {
		c.extra = append(c.extra, patterns...)
	}
}

// dangerousPatterns are constructs that have no business inside a single
// expression such as NOW() or "counter + 1".
var dangerousPatterns = []namedPattern{
	{"line comment", regexp.MustCompile(`--`)},
	{"block comment", regexp.MustCompile(`/\*`)},
	{"hash comment", regexp.MustCompile(`#\s`)},
	{"stacked statement", regexp.MustCompile(`;\s*\S`)},
	{"union select", regexp.MustCompile(`(?i)\bunion\b(\s+all)?\s+select\b`)},
	{"information schema", regexp.MustCompile(`(?i)\binformation_schema\b`)},
	{"sleep", regexp.MustCompile(`(?i)\b(sleep|pg_sleep)\s*\(`)},
	{"benchmark", regexp.MustCompile(`(?i)\bbenchmark\s*\(`)},
	{"waitfor delay", regexp.MustCompile(`(?i)\bwaitfor\s+delay\b`)},
	{"file access", regexp.MustCompile(`(?i)\b(load_file|into\s+outfile|into\s+dumpfile)\b`)},
	{"tautology", regexp.MustCompile(`(?i)\bor\s+('?)1('?)\s*=\s*('?)1('?)`)},
}

var strictPatterns = []namedPattern{
	{"sub-select", regexp.MustCompile(`(?i)\bselect\b`)},
	{"or", regexp.MustCompile(`(?i)\bor\b`)},
	{"exec", regexp.MustCompile(`(?i)\bexec(ute)?\b`)},
}

// NewValidator creates a validator with the default deny list.
func NewValidator(opts ...ValidatorOption) *Validator {
	cfg := &validatorConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	v := &Validator{patterns: append([]namedPattern(nil), dangerousPatterns...)}
	if cfg.strict {
		v.patterns = append(v.patterns, strictPatterns...)
	}
	for _, p := range cfg.extra {
		v.patterns = append(v.patterns, namedPattern{name: p, re: regexp.MustCompile("(?i)" + p)})
	}
	return v
}

// ViolationError describes the rejected fragment.
type ViolationError struct {
	Fragment string
	Rule     string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("unsafe SQL fragment (%s): %q", e.Rule, e.Fragment)
}

// ValidateExpression checks one raw fragment and returns a *ViolationError on
// the first matching rule.
func (v *Validator) ValidateExpression(fragment string) error {
	for _, p := range v.patterns {
		if p.re.MatchString(fragment) {
			return &ViolationError{Fragment: fragment, Rule: p.name}
		}
	}
	return nil
}
