package dialects

import (
	"fmt"
	"strings"
	"time"
)

// SQLiteDialect implements SQLite-specific SQL dialect.
type SQLiteDialect struct{}

var sqliteValues = valueQuoter{
	str:   quoteStandard,
	bytes: quoteHexBlob,
	time: func(t time.Time) string {
		return "'" + t.Format("2006-01-02 15:04:05.999999999-07:00") + "'"
	},
}

func init() {
	RegisterDialect("sqlite", &SQLiteDialect{})
	RegisterDialect("sqlite3", &SQLiteDialect{})
}

// Name returns "sqlite".
func (d *SQLiteDialect) Name() string { return "sqlite" }

// QuoteIdentifier quotes a SQLite identifier using double quotes.
func (d *SQLiteDialect) QuoteIdentifier(s string) string {
	return quoteQualified(s, func(part string) string {
		return `"` + strings.ReplaceAll(part, `"`, `""`) + `"`
	})
}

// QuoteValue quotes a value as a SQLite literal.
func (d *SQLiteDialect) QuoteValue(v any) string {
	return sqliteValues.quote(v)
}

// Placeholder returns SQLite placeholder format (always "?").
func (d *SQLiteDialect) Placeholder(_ int) string {
	return "?"
}

// UpsertSQL generates SQLite UPSERT syntax using ON CONFLICT. The conflict
// target may be omitted since SQLite 3.35.
func (d *SQLiteDialect) UpsertSQL(conflictColumns, assignments []string) (string, error) {
	target := ""
	if len(conflictColumns) > 0 {
		target = " (" + strings.Join(conflictColumns, ", ") + ")"
	}
	return fmt.Sprintf(" on conflict%s do update set %s", target, strings.Join(assignments, ", ")), nil
}
