package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coregx/sal/internal/dialects"
)

// Params holds named substitution values for EscapeNamedParams.
//
// Example:
//
//	db.EscapeNamedParams("select ::col from users where id = :id",
//	    core.Params{"col": "email", "id": 7})
//	// MySQL: select `email` from users where id = 7
type Params map[string]any

// namedParamRegex matches ::name (identifier) and :name (value) placeholders.
// Leftmost-first matching always takes both colons of "::name", so the value
// form can never start on the second colon of an identifier placeholder.
var namedParamRegex = regexp.MustCompile(`::?(\w+)`)

// EscapeNamedParams substitutes named placeholders in query.
//
// ::name is replaced by the identifier-quoted value and :name by the
// value-quoted value. Placeholders whose name is not in values are left as they
// are. Substituted text is never rescanned, so an identifier that happens to
// contain ":x" is not touched by the value substitution. With nil values the
// query is returned unchanged.
func EscapeNamedParams(d dialects.Dialect, query string, values Params) string {
	if values == nil {
		return query
	}

	return namedParamRegex.ReplaceAllStringFunc(query, func(match string) string {
		name := strings.TrimLeft(match, ":")
		value, ok := values[name]
		if !ok {
			return match
		}
		if strings.HasPrefix(match, "::") {
			return d.QuoteIdentifier(identifierText(value))
		}
		return d.QuoteValue(value)
	})
}

func identifierText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// EscapeNamedParams substitutes named placeholders using the DB dialect.
func (db *DB) EscapeNamedParams(query string, values Params) string {
	return EscapeNamedParams(db.dialect, query, values)
}
