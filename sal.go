// Package sal synthesizes and binds SQL statements on top of a pooled
// database/sql connection. It renders insert, update, upsert and delete
// statements from ordered field lists, substitutes named parameters,
// normalizes filters and wraps single statements in transactions.
package sal

import (
	"github.com/coregx/sal/internal/core"
	"github.com/coregx/sal/internal/dialects"
	"github.com/coregx/sal/internal/logger"
	"github.com/coregx/sal/internal/security"
	"github.com/coregx/sal/internal/tracer"
)

type (
	// DB is a connection pool decorated with statement builders.
	DB = core.DB
	// Option is a functional option for configuring DB.
	Option = core.Option
	// Query is a built statement with its bound params.
	Query = core.Query
	// QueryBuilder builds statements for one DB or transaction.
	QueryBuilder = core.QueryBuilder
	// Tx represents a database transaction.
	Tx = core.Tx
	// TxOptions represents transaction options including isolation level.
	TxOptions = core.TxOptions
	// TxError reports a failed statement whose rollback failed too.
	TxError = core.TxError
	// Row is one result record with its column order preserved.
	Row = core.Row

	// Field is one column/value pair.
	Field = core.Field
	// Fields is an ordered list of column/value pairs.
	Fields = core.Fields
	// Params holds named substitution values.
	Params = core.Params
	// Raw is a SQL expression emitted verbatim in place of a value.
	Raw = core.Raw

	// Filter is a structured where predicate.
	Filter = core.Filter
	// HashFilter matches every column to its value.
	HashFilter = core.HashFilter
	// LikeFilter matches a column against substrings.
	LikeFilter = core.LikeFilter

	// Dialect renders identifiers, values, placeholders and upserts.
	Dialect = dialects.Dialect

	// QueryEvent describes an executed statement.
	QueryEvent = core.QueryEvent
	// QueryHook is called after every executed statement.
	QueryHook = core.QueryHook

	// Logger is the logging interface used for executed statements.
	Logger = logger.Logger
	// Tracer starts spans for executed statements.
	Tracer = tracer.Tracer
	// Validator vets literal expressions and raw filters.
	Validator = security.Validator
)

// LiteralMarker prefixes string values that are spliced into SQL verbatim
// by the literal-aware builders.
const LiteralMarker = core.LiteralMarker

// Re-export core functions.
var (
	Open     = core.Open
	NewDB    = core.NewDB
	WrapDB   = core.WrapDB
	Detached = core.Detached

	WithMaxOpenConns     = core.WithMaxOpenConns
	WithMaxIdleConns     = core.WithMaxIdleConns
	WithConnMaxLifetime  = core.WithConnMaxLifetime
	WithLogger           = core.WithLogger
	WithSensitiveFields  = core.WithSensitiveFields
	WithTracer           = core.WithTracer
	WithQueryHook        = core.WithQueryHook
	WithLiteralValidator = core.WithLiteralValidator

	NewFields           = core.NewFields
	FieldsFromMap       = core.FieldsFromMap
	FieldsFromStruct    = core.FieldsFromStruct
	NewRow              = core.NewRow
	Expr                = core.Expr
	Where               = core.Where
	EscapeNamedParams   = core.EscapeNamedParams
	WrapError           = core.WrapError
	GetDialect          = dialects.GetDialect
	LookupDialect       = dialects.Lookup
	RegisterDialect     = dialects.RegisterDialect
	NewSlogLogger       = logger.New
	NewOtelTracer       = tracer.NewOtelTracer
	NewLiteralValidator = security.NewValidator

	// Filter builders
	Eq             = core.Eq
	NotEq          = core.NotEq
	GreaterThan    = core.GreaterThan
	LessThan       = core.LessThan
	GreaterOrEqual = core.GreaterOrEqual
	LessOrEqual    = core.LessOrEqual
	In             = core.In
	NotIn          = core.NotIn
	Between        = core.Between
	NotBetween     = core.NotBetween
	Like           = core.Like
	NotLike        = core.NotLike
	OrLike         = core.OrLike
	And            = core.And
	Or             = core.Or
	Not            = core.Not
)

// Sentinel errors.
var (
	ErrWhereRequired      = core.ErrWhereRequired
	ErrNoFields           = core.ErrNoFields
	ErrConflictTarget     = core.ErrConflictTarget
	ErrUnsupportedDialect = core.ErrUnsupportedDialect
	ErrUnsafeLiteral      = core.ErrUnsafeLiteral
	ErrNoConnection       = core.ErrNoConnection
	ErrTxDone             = core.ErrTxDone
)
