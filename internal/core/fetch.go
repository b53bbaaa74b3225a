package core

import (
	"context"
	"database/sql"
)

// Query creates a raw query with positional params bound to ctx.
func (db *DB) Query(ctx context.Context, stmt string, params ...any) *Query {
	return db.Builder().WithContext(ctx).NewQuery(stmt, params...)
}

// Exec runs a raw statement outside of any transaction.
func (db *DB) Exec(ctx context.Context, stmt string, params ...any) (sql.Result, error) {
	return db.Query(ctx, stmt, params...).Execute()
}

// Fetch returns every row of the first result set.
func (db *DB) Fetch(ctx context.Context, stmt string, params ...any) ([]Row, error) {
	return db.Query(ctx, stmt, params...).All()
}

// FetchRow returns the first row of the first result set.
// ok is false when the statement produced no rows.
func (db *DB) FetchRow(ctx context.Context, stmt string, params ...any) (Row, bool, error) {
	return db.Query(ctx, stmt, params...).Row()
}

// FetchOne returns the first column of the first row.
// ok is false when the statement produced no rows.
func (db *DB) FetchOne(ctx context.Context, stmt string, params ...any) (any, bool, error) {
	return db.Query(ctx, stmt, params...).One()
}

// Insert inserts fields into table with every value bound.
func (db *DB) Insert(ctx context.Context, table string, fields Fields) (sql.Result, error) {
	return execBuilt(db.Builder().WithContext(ctx).Insert(table, fields))
}

// InsertExpr inserts fields into table, splicing literal expressions verbatim.
func (db *DB) InsertExpr(ctx context.Context, table string, fields Fields) (sql.Result, error) {
	return execBuilt(db.Builder().WithContext(ctx).InsertExpr(table, fields))
}

// InsertOrUpdate inserts fields, updating every field on key conflict.
func (db *DB) InsertOrUpdate(ctx context.Context, table string, fields Fields, conflict ...string) (sql.Result, error) {
	return execBuilt(db.Builder().WithContext(ctx).InsertOrUpdate(table, fields, conflict...))
}

// Update updates the rows matching where.
func (db *DB) Update(ctx context.Context, table string, fields Fields, where any) (sql.Result, error) {
	return execBuilt(db.Builder().WithContext(ctx).Update(table, fields, where))
}

// UpdateExpr updates the rows matching where, splicing literal expressions verbatim.
func (db *DB) UpdateExpr(ctx context.Context, table string, fields Fields, where any) (sql.Result, error) {
	return execBuilt(db.Builder().WithContext(ctx).UpdateExpr(table, fields, where))
}

// Delete deletes the rows matching where.
func (db *DB) Delete(ctx context.Context, table string, where any) (sql.Result, error) {
	return execBuilt(db.Builder().WithContext(ctx).Delete(table, where))
}

// InsertDML renders an insert with inlined values.
func (db *DB) InsertDML(table string, fields Fields) (string, error) {
	return db.Builder().InsertDML(table, fields)
}

// UpdateDML renders an update with inlined values.
func (db *DB) UpdateDML(table string, fields Fields, where any) (string, error) {
	return db.Builder().UpdateDML(table, fields, where)
}

func execBuilt(q *Query, err error) (sql.Result, error) {
	if err != nil {
		return nil, err
	}
	return q.Execute()
}
