package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/coregx/sal/internal/tracer"
)

// Query is a built statement with its bound params.
// When tx is not nil, the query executes within that transaction.
type Query struct {
	sql       string
	params    []any
	paramCols []string // column of each param, when known
	db        *DB
	tx        *sqlx.Tx // nil for non-transactional queries
	ctx       context.Context
}

// SQL returns the statement text.
func (q *Query) SQL() string {
	return q.sql
}

// Params returns the bound parameters in placeholder order.
func (q *Query) Params() []any {
	return q.params
}

// WithContext sets the context used when the query is executed.
func (q *Query) WithContext(ctx context.Context) *Query {
	q.ctx = ctx
	return q
}

func (q *Query) context() context.Context {
	if q.ctx != nil {
		return q.ctx
	}
	return context.Background()
}

func (q *Query) conn() (sqlx.ExtContext, error) {
	if q.tx != nil {
		return q.tx, nil
	}
	if q.db.sqlDB == nil {
		return nil, ErrNoConnection
	}
	return q.db.sqlDB, nil
}

// outcome is what an execution reports to logs, spans and hooks.
type outcome struct {
	rowsAffected int64
	rows         int
	err          error
	elapsed      time.Duration
}

// record logs the statement, finishes the span and calls the hook.
func (q *Query) record(ctx context.Context, span tracer.Span, o outcome) {
	db := q.db
	params := db.sanitizer.FormatParams(db.sanitizer.MaskColumns(q.sql, q.paramCols, q.params))

	if o.err != nil {
		db.logger.Error("statement failed",
			"sql", q.sql,
			"params", params,
			"duration_ms", o.elapsed.Milliseconds(),
			"database", db.driverName,
			"error", o.err,
		)
	} else {
		db.logger.Debug("statement executed",
			"sql", q.sql,
			"params", params,
			"duration_ms", o.elapsed.Milliseconds(),
			"rows_affected", o.rowsAffected,
			"rows", o.rows,
			"database", db.driverName,
		)
	}

	tracer.AddStatementAttributes(span, &tracer.StatementMetadata{
		SQL:          q.sql,
		ParamCount:   len(q.params),
		Duration:     o.elapsed,
		RowsAffected: o.rowsAffected,
		Rows:         o.rows,
		Error:        o.err,
		Database:     db.driverName,
		InTx:         q.tx != nil,
	})
	span.End()

	db.invokeHook(ctx, QueryEvent{
		SQL:          q.sql,
		Args:         q.params,
		Duration:     o.elapsed,
		RowsAffected: o.rowsAffected,
		Rows:         o.rows,
		Error:        o.err,
		Operation:    tracer.DetectOperation(q.sql),
		InTx:         q.tx != nil,
	})
}

// Execute runs a statement that returns no rows.
func (q *Query) Execute() (sql.Result, error) {
	conn, err := q.conn()
	if err != nil {
		return nil, err
	}
	ctx, span := q.db.tracer.StartSpan(q.context(), "sal.execute")

	start := time.Now()
	result, err := conn.ExecContext(ctx, q.sql, q.params...)
	o := outcome{err: err, elapsed: time.Since(start)}
	if err == nil {
		o.rowsAffected, _ = result.RowsAffected()
	}

	q.record(ctx, span, o)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// fetch runs the query and reads at most limit rows of the first result set.
// A limit of zero reads every row.
func (q *Query) fetch(name string, limit int) ([]Row, error) {
	conn, err := q.conn()
	if err != nil {
		return nil, err
	}
	ctx, span := q.db.tracer.StartSpan(q.context(), name)

	start := time.Now()
	rows, err := conn.QueryxContext(ctx, q.sql, q.params...)
	if err != nil {
		q.record(ctx, span, outcome{err: err, elapsed: time.Since(start)})
		return nil, err
	}

	result, err := scanRows(rows, limit)
	q.record(ctx, span, outcome{rows: len(result), err: err, elapsed: time.Since(start)})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// All returns every row of the first result set.
func (q *Query) All() ([]Row, error) {
	return q.fetch("sal.fetch", 0)
}

// Row returns the first row. ok is false when the statement produced no rows.
func (q *Query) Row() (row Row, ok bool, err error) {
	rows, err := q.fetch("sal.fetch_row", 1)
	if err != nil || len(rows) == 0 {
		return Row{}, false, err
	}
	return rows[0], true, nil
}

// One returns the first column of the first row. ok is false when the
// statement produced no rows or no columns.
func (q *Query) One() (value any, ok bool, err error) {
	row, ok, err := q.Row()
	if !ok || row.Len() == 0 {
		return nil, false, err
	}
	return row.Value(0), true, nil
}
