package core

import (
	"context"
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/coregx/sal/internal/dialects"
)

// QueryBuilder builds statements for one DB, optionally bound to a transaction.
// Builders are pure: they never touch the connection.
type QueryBuilder struct {
	db  *DB
	tx  *sqlx.Tx        // nil for non-transactional queries
	ctx context.Context // context for all queries built by this builder
}

// WithContext sets the context for all queries built by this builder.
func (qb *QueryBuilder) WithContext(ctx context.Context) *QueryBuilder {
	qb.ctx = ctx
	return qb
}

// compiledFields is the result of classifying a field list.
type compiledFields struct {
	columns   []string // quoted column names
	exprs     []string // placeholder or literal per column
	params    []any
	paramCols []string // unquoted column of each param
}

// compileFields classifies every field as literal or bound. With literals
// disabled every value is bound, including strings that carry the marker.
// Placeholders are numbered from start+1.
func (qb *QueryBuilder) compileFields(fields Fields, literals bool, start int) (*compiledFields, error) {
	c := &compiledFields{
		columns: make([]string, len(fields)),
		exprs:   make([]string, len(fields)),
		params:  make([]any, 0, len(fields)),
	}

	d := qb.db.dialect
	for i, f := range fields {
		c.columns[i] = d.QuoteIdentifier(f.Name)

		if literals {
			if sql, ok := literalSQL(f.Value); ok {
				if err := qb.db.validateLiteral(sql); err != nil {
					return nil, err
				}
				c.exprs[i] = sql
				continue
			}
		}

		c.params = append(c.params, f.Value)
		c.paramCols = append(c.paramCols, f.Name)
		c.exprs[i] = d.Placeholder(start + len(c.params))
	}
	return c, nil
}

func (c *compiledFields) assignments() []string {
	out := make([]string, len(c.columns))
	for i := range c.columns {
		out[i] = c.columns[i] + " = " + c.exprs[i]
	}
	return out
}

// where normalizes the filter for a statement that must have one. Every value
// the filter renders is inspected: literal expressions go through the
// validator and failing Valuers are reported.
func (qb *QueryBuilder) where(input any) (string, error) {
	if err := qb.validateFilter(input); err != nil {
		return "", err
	}

	inspect := &valueInspector{Dialect: qb.db.dialect}
	predicate, ok := Where(inspect, input)
	if !ok {
		return "", ErrWhereRequired
	}
	if inspect.err != nil {
		return "", fmt.Errorf("where: %w", inspect.err)
	}
	for _, fragment := range inspect.literals {
		if err := qb.db.validateLiteral(fragment); err != nil {
			return "", err
		}
	}
	return predicate, nil
}

// valueInspector is a Dialect that records what QuoteValue is asked to render.
type valueInspector struct {
	dialects.Dialect
	literals []string
	err      error
}

func (vi *valueInspector) QuoteValue(v any) string {
	vi.inspect(reflect.ValueOf(v))
	return vi.Dialect.QuoteValue(v)
}

func (vi *valueInspector) inspect(rv reflect.Value) {
	if !rv.IsValid() {
		return
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return
		}
	}

	if rv.CanInterface() {
		switch val := rv.Interface().(type) {
		case dialects.Literal:
			vi.literals = append(vi.literals, val.LiteralSQL())
			return
		case driver.Valuer:
			if _, err := val.Value(); err != nil && vi.err == nil {
				vi.err = err
			}
			return
		}
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		vi.inspect(rv.Elem())
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return
		}
		for i := 0; i < rv.Len(); i++ {
			vi.inspect(rv.Index(i))
		}
	}
}

// validateFilter vets caller-written SQL in a filter. Values are quoted and
// Filter expressions quote their columns, so only raw text is checked.
func (qb *QueryBuilder) validateFilter(input any) error {
	if qb.db.validator == nil {
		return nil
	}
	var raw []string
	switch where := input.(type) {
	case string:
		raw = []string{where}
	case []string:
		raw = where
	case Fields:
		raw = where.Names()
	case map[string]any:
		for k := range where {
			raw = append(raw, k)
		}
	}
	for _, fragment := range raw {
		if err := qb.db.validateLiteral(fragment); err != nil {
			return err
		}
	}
	return nil
}

func (qb *QueryBuilder) newQuery(sql string, params []any, paramCols []string) *Query {
	return &Query{
		sql:       sql,
		params:    params,
		paramCols: paramCols,
		db:        qb.db,
		tx:        qb.tx,
		ctx:       qb.ctx,
	}
}

func (qb *QueryBuilder) insert(table string, fields Fields, literals bool) (*Query, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	c, err := qb.compileFields(fields, literals, 0)
	if err != nil {
		return nil, err
	}

	sql := "insert into " + qb.db.dialect.QuoteIdentifier(table) +
		" (" + strings.Join(c.columns, ", ") + ")" +
		" values (" + strings.Join(c.exprs, ", ") + ")"
	return qb.newQuery(sql, c.params, c.paramCols), nil
}

// Insert builds "insert into T (cols) values (?, ...)" with every value bound.
func (qb *QueryBuilder) Insert(table string, fields Fields) (*Query, error) {
	return qb.insert(table, fields, false)
}

// InsertExpr is Insert with literal expressions spliced into the values list.
func (qb *QueryBuilder) InsertExpr(table string, fields Fields) (*Query, error) {
	return qb.insert(table, fields, true)
}

// InsertOrUpdate builds an insert that updates every field on key conflict.
// All values are bound twice: once for the insert and once for the update.
// conflict names the unique columns; MySQL ignores it, PostgreSQL requires it.
func (qb *QueryBuilder) InsertOrUpdate(table string, fields Fields, conflict ...string) (*Query, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	ins, err := qb.compileFields(fields, false, 0)
	if err != nil {
		return nil, err
	}
	upd, err := qb.compileFields(fields, false, len(ins.params))
	if err != nil {
		return nil, err
	}

	d := qb.db.dialect
	target := make([]string, len(conflict))
	for i, col := range conflict {
		target[i] = d.QuoteIdentifier(col)
	}
	clause, err := d.UpsertSQL(target, upd.assignments())
	if err != nil {
		return nil, fmt.Errorf("insert or update %s: %w", table, err)
	}

	sql := "insert into " + d.QuoteIdentifier(table) +
		" (" + strings.Join(ins.columns, ", ") + ")" +
		" values (" + strings.Join(ins.exprs, ", ") + ")" + clause

	params := append(ins.params, upd.params...)
	paramCols := append(ins.paramCols, upd.paramCols...)
	return qb.newQuery(sql, params, paramCols), nil
}

func (qb *QueryBuilder) update(table string, fields Fields, where any, literals bool) (*Query, error) {
	predicate, err := qb.where(where)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	c, err := qb.compileFields(fields, literals, 0)
	if err != nil {
		return nil, err
	}

	sql := "update " + qb.db.dialect.QuoteIdentifier(table) +
		" set " + strings.Join(c.assignments(), ", ") +
		" where " + predicate
	return qb.newQuery(sql, c.params, c.paramCols), nil
}

// Update builds "update T set col = ?, ... where P" with every value bound.
// It returns ErrWhereRequired when where yields no predicate.
func (qb *QueryBuilder) Update(table string, fields Fields, where any) (*Query, error) {
	return qb.update(table, fields, where, false)
}

// UpdateExpr is Update with literal expressions spliced into the set list.
func (qb *QueryBuilder) UpdateExpr(table string, fields Fields, where any) (*Query, error) {
	return qb.update(table, fields, where, true)
}

// Delete builds "delete from T where P". It returns ErrWhereRequired when
// where yields no predicate.
func (qb *QueryBuilder) Delete(table string, where any) (*Query, error) {
	predicate, err := qb.where(where)
	if err != nil {
		return nil, err
	}

	sql := "delete from " + qb.db.dialect.QuoteIdentifier(table) + " where " + predicate
	return qb.newQuery(sql, []any{}, nil), nil
}

// NewQuery wraps a raw statement and its positional params.
func (qb *QueryBuilder) NewQuery(sql string, params ...any) *Query {
	return qb.newQuery(sql, params, nil)
}
