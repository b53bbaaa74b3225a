package dialects

import (
	"fmt"
	"strings"
	"time"
)

// MySQLDialect implements MySQL-specific SQL dialect.
type MySQLDialect struct{}

var mysqlValues = valueQuoter{
	str:   quoteMySQLString,
	bytes: quoteHexBlob,
	time: func(t time.Time) string {
		return "'" + t.Format("2006-01-02 15:04:05.000") + "'"
	},
}

// mysqlReplacer escapes the characters the MySQL lexer treats specially inside
// a quoted string.
var mysqlReplacer = strings.NewReplacer(
	"\x00", `\0`,
	"\b", `\b`,
	"\t", `\t`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
	`"`, `\"`,
	`'`, `\'`,
	`\`, `\\`,
)

func quoteMySQLString(s string) string {
	return "'" + mysqlReplacer.Replace(s) + "'"
}

// Name returns "mysql".
func (d *MySQLDialect) Name() string { return "mysql" }

// QuoteIdentifier quotes a MySQL identifier using backticks.
func (d *MySQLDialect) QuoteIdentifier(s string) string {
	return quoteQualified(s, func(part string) string {
		return "`" + strings.ReplaceAll(part, "`", "``") + "`"
	})
}

// QuoteValue quotes a value using MySQL backslash escaping.
func (d *MySQLDialect) QuoteValue(v any) string {
	return mysqlValues.quote(v)
}

// Placeholder returns MySQL placeholder format (always "?").
func (d *MySQLDialect) Placeholder(_ int) string {
	return "?"
}

// UpsertSQL generates MySQL UPSERT syntax using ON DUPLICATE KEY UPDATE.
// MySQL resolves conflicts through any unique key, so conflict columns are ignored.
func (d *MySQLDialect) UpsertSQL(_, assignments []string) (string, error) {
	return fmt.Sprintf(" on duplicate key update %s", strings.Join(assignments, ", ")), nil
}

func init() {
	RegisterDialect("mysql", &MySQLDialect{})
}
