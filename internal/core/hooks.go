package core

import (
	"context"
	"time"
)

// QueryEvent contains information about an executed statement.
// This is passed to QueryHook callbacks for logging, metrics, or tracing.
type QueryEvent struct {
	// SQL is the executed SQL text
	SQL string
	// Args are the bound parameters (unmasked)
	Args []any
	// Duration is how long the statement took to execute
	Duration time.Duration
	// RowsAffected is the number of rows affected (for INSERT/UPDATE/DELETE)
	RowsAffected int64
	// Rows is the number of rows read (for fetches)
	Rows int
	// Error is any error that occurred during execution (nil on success)
	Error error
	// Operation is SELECT, INSERT, UPDATE, DELETE, REPLACE or UNKNOWN
	Operation string
	// InTx is true when the statement ran inside a transaction
	InTx bool
}

// QueryHook is a callback function invoked after each statement execution.
//
// Example:
//
//	db, _ := sal.Open("mysql", dsn,
//	    sal.WithQueryHook(func(ctx context.Context, e sal.QueryEvent) {
//	        metrics.Observe(e.Operation, e.Duration)
//	    }))
type QueryHook func(ctx context.Context, event QueryEvent)

// invokeHook calls the query hook if set.
func (db *DB) invokeHook(ctx context.Context, event QueryEvent) {
	if db.queryHook != nil {
		db.queryHook(ctx, event)
	}
}
