package dialects

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// PostgresDialect implements PostgreSQL-specific SQL dialect.
type PostgresDialect struct{}

var postgresValues = valueQuoter{
	str: quoteStandard,
	bytes: func(b []byte) string {
		return `'\x` + hex.EncodeToString(b) + "'"
	},
	time: func(t time.Time) string {
		return "'" + t.Format("2006-01-02 15:04:05.999999Z07:00") + "'"
	},
}

func init() {
	RegisterDialect("postgres", &PostgresDialect{})
	RegisterDialect("postgresql", &PostgresDialect{})
	RegisterDialect("pgx", &PostgresDialect{})
}

// Name returns "postgres".
func (d *PostgresDialect) Name() string { return "postgres" }

// QuoteIdentifier quotes a PostgreSQL identifier using double quotes.
func (d *PostgresDialect) QuoteIdentifier(s string) string {
	return quoteQualified(s, pq.QuoteIdentifier)
}

// QuoteValue quotes a value as a standard conforming string literal.
func (d *PostgresDialect) QuoteValue(v any) string {
	return postgresValues.quote(v)
}

// Placeholder returns PostgreSQL placeholder format ($1, $2, etc.).
func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

// UpsertSQL generates PostgreSQL UPSERT syntax using ON CONFLICT.
// PostgreSQL requires a conflict target for DO UPDATE.
func (d *PostgresDialect) UpsertSQL(conflictColumns, assignments []string) (string, error) {
	if len(conflictColumns) == 0 {
		return "", ErrConflictTarget
	}
	return fmt.Sprintf(" on conflict (%s) do update set %s",
		strings.Join(conflictColumns, ", "),
		strings.Join(assignments, ", "),
	), nil
}
