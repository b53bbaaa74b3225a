package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Tx is a database transaction. It must be used from a single goroutine.
type Tx struct {
	tx  *sqlx.Tx
	db  *DB
	ctx context.Context
}

// TxOptions represents transaction options including isolation level.
type TxOptions struct {
	Isolation sql.IsolationLevel
	ReadOnly  bool
}

// Begin starts a transaction with default options.
func (db *DB) Begin(ctx context.Context) (*Tx, error) {
	return db.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with specified options.
func (db *DB) BeginTx(ctx context.Context, opts *TxOptions) (*Tx, error) {
	var sqlOpts *sql.TxOptions
	if opts != nil {
		sqlOpts = &sql.TxOptions{
			Isolation: opts.Isolation,
			ReadOnly:  opts.ReadOnly,
		}
	}

	if db.sqlDB == nil {
		return nil, ErrNoConnection
	}
	tx, err := db.sqlDB.BeginTxx(ctx, sqlOpts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, db: db, ctx: ctx}, nil
}

// Builder returns a query builder bound to the transaction and its context.
func (tx *Tx) Builder() *QueryBuilder {
	return &QueryBuilder{db: tx.db, tx: tx.tx, ctx: tx.ctx}
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	return translateTxDone(tx.tx.Commit())
}

// Rollback rolls back the transaction.
func (tx *Tx) Rollback() error {
	return translateTxDone(tx.tx.Rollback())
}

func translateTxDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("%w: %w", ErrTxDone, err)
	}
	return err
}

// Transactional runs fn in a transaction. The transaction is committed when fn
// returns nil and rolled back when fn returns an error or panics. Panics are
// re-raised after the rollback. A failed rollback is reported as *TxError.
func (db *DB) Transactional(ctx context.Context, fn func(*Tx) error) error {
	return db.TransactionalTx(ctx, nil, fn)
}

// TransactionalTx is Transactional with transaction options.
func (db *DB) TransactionalTx(ctx context.Context, opts *TxOptions, fn func(*Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return WrapError(err, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		return rollbackErr(err, tx.tx.Rollback())
	}

	if err := tx.tx.Commit(); err != nil {
		return WrapError(err, "commit transaction")
	}
	return nil
}

// QueryTrans runs stmt in its own transaction and returns its rows.
func (db *DB) QueryTrans(ctx context.Context, stmt string, params ...any) ([]Row, error) {
	var rows []Row
	err := db.Transactional(ctx, func(tx *Tx) error {
		var err error
		rows, err = tx.Fetch(stmt, params...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ExecTrans runs stmt in its own transaction.
func (db *DB) ExecTrans(ctx context.Context, stmt string, params ...any) (sql.Result, error) {
	var result sql.Result
	err := db.Transactional(ctx, func(tx *Tx) error {
		var err error
		result, err = tx.Exec(stmt, params...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Query creates a raw query executed within the transaction.
func (tx *Tx) Query(stmt string, params ...any) *Query {
	return tx.Builder().NewQuery(stmt, params...)
}

// Exec runs a raw statement within the transaction.
func (tx *Tx) Exec(stmt string, params ...any) (sql.Result, error) {
	return tx.Query(stmt, params...).Execute()
}

// Fetch returns every row of the first result set.
func (tx *Tx) Fetch(stmt string, params ...any) ([]Row, error) {
	return tx.Query(stmt, params...).All()
}

// FetchRow returns the first row. ok is false when there are no rows.
func (tx *Tx) FetchRow(stmt string, params ...any) (Row, bool, error) {
	return tx.Query(stmt, params...).Row()
}

// FetchOne returns the first column of the first row. ok is false when there
// are no rows.
func (tx *Tx) FetchOne(stmt string, params ...any) (any, bool, error) {
	return tx.Query(stmt, params...).One()
}

// Insert inserts fields into table within the transaction.
func (tx *Tx) Insert(table string, fields Fields) (sql.Result, error) {
	return execBuilt(tx.Builder().Insert(table, fields))
}

// InsertExpr inserts fields, splicing literal expressions verbatim.
func (tx *Tx) InsertExpr(table string, fields Fields) (sql.Result, error) {
	return execBuilt(tx.Builder().InsertExpr(table, fields))
}

// InsertOrUpdate inserts fields, updating every field on key conflict.
func (tx *Tx) InsertOrUpdate(table string, fields Fields, conflict ...string) (sql.Result, error) {
	return execBuilt(tx.Builder().InsertOrUpdate(table, fields, conflict...))
}

// Update updates the rows matching where.
func (tx *Tx) Update(table string, fields Fields, where any) (sql.Result, error) {
	return execBuilt(tx.Builder().Update(table, fields, where))
}

// UpdateExpr updates the rows matching where, splicing literal expressions verbatim.
func (tx *Tx) UpdateExpr(table string, fields Fields, where any) (sql.Result, error) {
	return execBuilt(tx.Builder().UpdateExpr(table, fields, where))
}

// Delete deletes the rows matching where.
func (tx *Tx) Delete(table string, where any) (sql.Result, error) {
	return execBuilt(tx.Builder().Delete(table, where))
}

// InsertDML renders an insert with inlined values.
func (tx *Tx) InsertDML(table string, fields Fields) (string, error) {
	return tx.Builder().InsertDML(table, fields)
}

// UpdateDML renders an update with inlined values.
func (tx *Tx) UpdateDML(table string, fields Fields, where any) (string, error) {
	return tx.Builder().UpdateDML(table, fields, where)
}
