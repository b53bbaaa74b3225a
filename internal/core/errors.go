package core

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/coregx/sal/internal/dialects"
)

// Predefined errors returned by statement builders and executors.
var (
	// ErrWhereRequired is returned by update and delete builders when the filter
	// does not normalize to a usable predicate.
	ErrWhereRequired = errors.New("where always needed")
	// ErrNoFields is returned when a builder receives an empty field list.
	ErrNoFields = errors.New("no fields to write")
	// ErrConflictTarget is returned when the dialect needs conflict columns for an upsert.
	ErrConflictTarget = dialects.ErrConflictTarget
	// ErrUnsupportedDialect is returned when no dialect is registered for a driver.
	ErrUnsupportedDialect = errors.New("unsupported database dialect")
	// ErrUnsafeLiteral wraps validator rejections of literal expressions and raw filters.
	ErrUnsafeLiteral = errors.New("unsafe literal expression")
	// ErrNoConnection is returned when a detached DB is asked to execute.
	ErrNoConnection = errors.New("no database connection")
	// ErrTxDone is returned when operating on an already committed or rolled back transaction.
	ErrTxDone = errors.New("transaction has already been committed or rolled back")
)

// WrapError wraps an error with additional context message.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}

// TxError is returned when a statement failed inside a transaction and the
// rollback that followed failed as well. errors.Is and errors.As see both.
type TxError struct {
	// Err is the original failure.
	Err error
	// RollbackErr is the error returned by the rollback attempt.
	RollbackErr error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("%v (rollback failed: %v)", e.Err, e.RollbackErr)
}

func (e *TxError) Unwrap() []error {
	return []error{e.Err, e.RollbackErr}
}

// rollbackErr combines the original error with a failed rollback.
// A nil rollback error (or sql.ErrTxDone) leaves the original untouched.
func rollbackErr(err, rbErr error) error {
	if rbErr == nil || errors.Is(rbErr, sql.ErrTxDone) {
		return err
	}
	return &TxError{Err: err, RollbackErr: rbErr}
}
