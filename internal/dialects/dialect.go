// Package dialects provides database-specific SQL dialect implementations for
// PostgreSQL, MySQL, and SQLite. A dialect owns the two escaping primitives every
// statement builder depends on: identifier quoting and value quoting.
package dialects

import (
	"errors"
	"strings"
	"sync"
)

// ErrConflictTarget is returned by UpsertSQL when the dialect cannot express an
// upsert without explicit conflict columns.
var ErrConflictTarget = errors.New("upsert requires conflict columns for this dialect")

// Dialect defines database-specific behaviors.
type Dialect interface {
	// Name returns the canonical dialect name (mysql, postgres, sqlite).
	Name() string
	// QuoteIdentifier quotes a table or column name. Dotted names are quoted per part.
	QuoteIdentifier(string) string
	// QuoteValue renders a Go value as a SQL literal.
	QuoteValue(any) string
	// Placeholder returns the positional placeholder for the 1-based index.
	Placeholder(int) string
	// UpsertSQL returns the conflict clause appended to an INSERT. The
	// assignments are complete "col = expr" fragments.
	UpsertSQL(conflictColumns, assignments []string) (string, error)
}

// Literal is implemented by values that must be emitted verbatim instead of quoted.
type Literal interface {
	LiteralSQL() string
}

var (
	mu       sync.RWMutex
	dialects = make(map[string]Dialect)
)

// RegisterDialect registers a database dialect by driver name.
func RegisterDialect(name string, d Dialect) {
	mu.Lock()
	defer mu.Unlock()
	dialects[name] = d
}

// Lookup retrieves a registered dialect by driver name.
func Lookup(name string) (Dialect, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := dialects[name]
	return d, ok
}

// GetDialect retrieves a registered dialect by driver name, panics if not found.
func GetDialect(name string) Dialect {
	if d, ok := Lookup(name); ok {
		return d
	}
	panic("unsupported dialect: " + name)
}

// quoteQualified splits schema.table style names and quotes each part.
func quoteQualified(name string, quote func(string) string) string {
	if !strings.Contains(name, ".") {
		return quote(strings.TrimSpace(name))
	}
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = quote(strings.TrimSpace(part))
	}
	return strings.Join(parts, ".")
}
