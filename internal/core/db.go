// Package core implements statement synthesis and parameter binding on top of
// a database/sql connection pool: named-parameter substitution, filter
// normalization, insert/update/upsert/delete builders, execution with logging
// and tracing, row reducers and a transaction wrapper.
package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/coregx/sal/internal/dialects"
	"github.com/coregx/sal/internal/logger"
	"github.com/coregx/sal/internal/security"
	"github.com/coregx/sal/internal/tracer"
)

// DB is a connection pool decorated with statement builders.
// It is safe for concurrent use.
type DB struct {
	sqlDB      *sqlx.DB
	driverName string
	dialect    dialects.Dialect
	logger     logger.Logger
	sanitizer  *logger.Sanitizer
	tracer     tracer.Tracer
	queryHook  QueryHook
	validator  *security.Validator
}

// Option is a functional option for configuring DB.
type Option func(*DB)

// WithMaxOpenConns sets the maximum number of open connections.
func WithMaxOpenConns(n int) Option {
	return func(db *DB) {
		if db.sqlDB != nil {
			db.sqlDB.SetMaxOpenConns(n)
		}
	}
}

// WithMaxIdleConns sets the maximum number of idle connections.
func WithMaxIdleConns(n int) Option {
	return func(db *DB) {
		if db.sqlDB != nil {
			db.sqlDB.SetMaxIdleConns(n)
		}
	}
}

// WithConnMaxLifetime sets the maximum amount of time a connection may be reused.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(db *DB) {
		if db.sqlDB != nil {
			db.sqlDB.SetConnMaxLifetime(d)
		}
	}
}

// WithLogger enables statement logging.
func WithLogger(l logger.Logger) Option {
	return func(db *DB) {
		if l == nil {
			l = &logger.NoopLogger{}
		}
		db.logger = l
	}
}

// WithSensitiveFields replaces the column names whose values are masked in logs.
func WithSensitiveFields(fields ...string) Option {
	return func(db *DB) {
		db.sanitizer = logger.NewSanitizer(fields)
	}
}

// WithTracer enables tracing of executed statements.
func WithTracer(t tracer.Tracer) Option {
	return func(db *DB) {
		if t == nil {
			t = &tracer.NoopTracer{}
		}
		db.tracer = t
	}
}

// WithQueryHook registers a callback invoked after every executed statement.
func WithQueryHook(hook QueryHook) Option {
	return func(db *DB) {
		db.queryHook = hook
	}
}

// WithLiteralValidator vets every literal expression and raw filter before a
// statement is built. Rejections surface as ErrUnsafeLiteral.
func WithLiteralValidator(v *security.Validator) Option {
	return func(db *DB) {
		db.validator = v
	}
}

func newDB(sqlDB *sqlx.DB, driverName string, dialect dialects.Dialect, opts []Option) *DB {
	db := &DB{
		sqlDB:      sqlDB,
		driverName: driverName,
		dialect:    dialect,
		logger:     &logger.NoopLogger{},
		sanitizer:  logger.NewSanitizer(nil),
		tracer:     &tracer.NoopTracer{},
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// NewDB opens a pool for driverName. The connection is established lazily.
func NewDB(driverName, dsn string) (*DB, error) {
	return Open(driverName, dsn)
}

// Open opens a pool for driverName and applies options.
func Open(driverName, dsn string, opts ...Option) (*DB, error) {
	dialect, ok := dialects.Lookup(driverName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, driverName)
	}

	sqlDB, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	return newDB(sqlDB, driverName, dialect, opts), nil
}

// WrapDB decorates an existing *sql.DB. The caller keeps ownership of the pool
// settings. It panics if no dialect is registered for driverName.
func WrapDB(sqlDB *sql.DB, driverName string, opts ...Option) *DB {
	return newDB(sqlx.NewDb(sqlDB, driverName), driverName, dialects.GetDialect(driverName), opts)
}

// Detached returns a DB that renders statements for driverName without a
// connection pool. Executing a query on it returns ErrNoConnection.
func Detached(driverName string, opts ...Option) (*DB, error) {
	dialect, ok := dialects.Lookup(driverName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, driverName)
	}
	return newDB(nil, driverName, dialect, opts), nil
}

// Close releases all database resources.
func (db *DB) Close() error {
	if db.sqlDB == nil {
		return nil
	}
	return db.sqlDB.Close()
}

// Ping verifies a connection to the database is still alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.sqlDB == nil {
		return ErrNoConnection
	}
	return db.sqlDB.PingContext(ctx)
}

// SQLDB returns the underlying *sql.DB, or nil for a detached DB.
func (db *DB) SQLDB() *sql.DB {
	if db.sqlDB == nil {
		return nil
	}
	return db.sqlDB.DB
}

// DriverName returns the driver name the pool was opened with.
func (db *DB) DriverName() string {
	return db.driverName
}

// Dialect returns the SQL dialect in use.
func (db *DB) Dialect() dialects.Dialect {
	return db.dialect
}

// Builder returns a query builder for this database.
func (db *DB) Builder() *QueryBuilder {
	return &QueryBuilder{db: db}
}

// QuoteIdentifier quotes a table or column name for the DB dialect.
func (db *DB) QuoteIdentifier(name string) string {
	return db.dialect.QuoteIdentifier(name)
}

// QuoteValue renders a value as a SQL literal for the DB dialect.
func (db *DB) QuoteValue(v any) string {
	return db.dialect.QuoteValue(v)
}

// validateLiteral runs the configured validator, if any, on a raw fragment.
func (db *DB) validateLiteral(fragment string) error {
	if db.validator == nil {
		return nil
	}
	if err := db.validator.ValidateExpression(fragment); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsafeLiteral, err)
	}
	return nil
}
