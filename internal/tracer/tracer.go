// Package tracer provides distributed tracing for statement execution.
// It supports OpenTelemetry and allows custom tracer implementations.
package tracer

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer starts spans around statement execution.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a tracing span that captures the execution of an operation.
type Span interface {
	SetAttributes(attrs ...attribute.KeyValue)
	RecordError(err error)
	SetStatus(code codes.Code, description string)
	End()
}

// NoopTracer is the default tracer when tracing is not configured.
type NoopTracer struct{}

// StartSpan returns the context unchanged with a no-op span.
func (n *NoopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, &NoopSpan{}
}

// NoopSpan is a span that does nothing.
type NoopSpan struct{}

func (n *NoopSpan) SetAttributes(_ ...attribute.KeyValue) {}
func (n *NoopSpan) RecordError(_ error)                   {}
func (n *NoopSpan) SetStatus(_ codes.Code, _ string)      {}
func (n *NoopSpan) End()                                  {}

// OtelTracer wraps an OpenTelemetry tracer to implement the Tracer interface.
type OtelTracer struct {
	tracer trace.Tracer
}

// NewOtelTracer creates a new OpenTelemetry tracer adapter.
// The provided tracer must not be nil.
func NewOtelTracer(tracer trace.Tracer) *OtelTracer {
	return &OtelTracer{tracer: tracer}
}

// StartSpan starts a new client-kind OpenTelemetry span.
func (t *OtelTracer) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	return ctx, &OtelSpan{span: span}
}

// OtelSpan wraps an OpenTelemetry span.
type OtelSpan struct {
	span trace.Span
}

func (s *OtelSpan) SetAttributes(attrs ...attribute.KeyValue) { s.span.SetAttributes(attrs...) }
func (s *OtelSpan) RecordError(err error)                     { s.span.RecordError(err) }
func (s *OtelSpan) SetStatus(code codes.Code, description string) {
	s.span.SetStatus(code, description)
}
func (s *OtelSpan) End() { s.span.End() }

// StatementMetadata describes one executed statement.
// Attribute names follow the OpenTelemetry database semantic conventions.
type StatementMetadata struct {
	SQL          string
	ParamCount   int
	Duration     time.Duration
	RowsAffected int64
	Rows         int
	Error        error
	Database     string
	// InTx is true when the statement ran inside a transaction.
	InTx bool
}

// AddStatementAttributes records the statement on the span and sets its status.
func AddStatementAttributes(span Span, meta *StatementMetadata) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", meta.Database),
		attribute.String("db.statement", meta.SQL),
		attribute.String("db.operation", DetectOperation(meta.SQL)),
		attribute.Int("db.params", meta.ParamCount),
		attribute.Float64("db.duration_ms", float64(meta.Duration.Microseconds())/1000.0),
		attribute.Bool("db.transaction", meta.InTx),
	}

	if table := DetectTable(meta.SQL); table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", table))
	}
	if meta.RowsAffected > 0 {
		attrs = append(attrs, attribute.Int64("db.rows_affected", meta.RowsAffected))
	}
	if meta.Rows > 0 {
		attrs = append(attrs, attribute.Int("db.rows_returned", meta.Rows))
	}

	span.SetAttributes(attrs...)

	if meta.Error != nil {
		span.RecordError(meta.Error)
		span.SetStatus(codes.Error, meta.Error.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// DetectOperation returns SELECT, INSERT, UPDATE, DELETE, REPLACE or UNKNOWN.
func DetectOperation(sql string) string {
	sql = strings.TrimSpace(strings.ToUpper(sql))
	switch {
	case strings.HasPrefix(sql, "SELECT"), strings.HasPrefix(sql, "WITH"):
		return "SELECT"
	case strings.HasPrefix(sql, "INSERT"):
		return "INSERT"
	case strings.HasPrefix(sql, "UPDATE"):
		return "UPDATE"
	case strings.HasPrefix(sql, "DELETE"):
		return "DELETE"
	case strings.HasPrefix(sql, "REPLACE"):
		return "REPLACE"
	}
	return "UNKNOWN"
}

var tableRegex = regexp.MustCompile("(?i)^\\s*(?:insert\\s+into|update|delete\\s+from|replace\\s+into)\\s+([`\"\\w.]+)")

// DetectTable extracts the target table of an insert/update/delete statement
// with its quotes removed. It returns "" for anything else.
func DetectTable(sql string) string {
	m := tableRegex.FindStringSubmatch(sql)
	if m == nil {
		return ""
	}
	return strings.NewReplacer("`", "", `"`, "").Replace(m[1])
}
