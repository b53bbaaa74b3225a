package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/coregx/sal"
)

// decimalFloat matches plain decimal numbers. strconv.ParseFloat also takes
// nan, inf and hex floats, which must stay strings here.
var decimalFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// parseValue maps command line text to a SQL value: null, true/false,
// integers and finite decimal floats are typed, everything else stays a string. Strings
// starting with the literal marker are kept verbatim for the literal-aware
// builders.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if decimalFloat.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func parseValues(args []string) []any {
	values := make([]any, len(args))
	for i, arg := range args {
		values[i] = parseValue(arg)
	}
	return values
}

// parseAssignments parses col=value pairs in order.
func parseAssignments(pairs []string) (sal.Fields, error) {
	fields := make(sal.Fields, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q, want col=value", pair)
		}
		fields = fields.Set(name, parseValue(value))
	}
	return fields, nil
}

// parseParams parses name=value pairs for named parameter substitution.
func parseParams(pairs []string) (sal.Params, error) {
	fields, err := parseAssignments(pairs)
	if err != nil {
		return nil, err
	}
	params := make(sal.Params, len(fields))
	for _, f := range fields {
		params[f.Name] = f.Value
	}
	return params, nil
}

// writeRow writes a row as a JSON object with the result column order kept.
func writeRow(w io.Writer, row sal.Row) error {
	var b strings.Builder
	b.WriteByte('{')
	for i, col := range row.Columns() {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return err
		}
		val, err := json.Marshal(row.Value(i))
		if err != nil {
			return err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// writeTable renders rows with a header taken from the first row.
func writeTable(w io.Writer, rows []sal.Row) error {
	if len(rows) == 0 {
		return nil
	}

	data := pterm.TableData{rows[0].Columns()}
	for _, r := range rows {
		line := make([]string, r.Len())
		for i, v := range r.Values() {
			if v == nil {
				line[i] = "null"
				continue
			}
			line[i] = fmt.Sprint(v)
		}
		data = append(data, line)
	}

	text, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(v)
}
