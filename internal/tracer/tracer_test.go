package tracer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNoopTracer(t *testing.T) {
	tracer := &NoopTracer{}

	// Should not panic
	_, span := tracer.StartSpan(context.Background(), "sal.exec")
	assert.NotNil(t, span)

	span.SetAttributes(attribute.String("key", "value"))
	span.RecordError(errors.New("test error"))
	span.SetStatus(codes.Error, "error")
	span.End()
}

func newRecorder(t *testing.T) (*OtelTracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewOtelTracer(tp.Tracer("test")), recorder
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value
	}
	return m
}

func TestOtelTracer_StatementAttributes(t *testing.T) {
	tr, recorder := newRecorder(t)

	_, span := tr.StartSpan(context.Background(), "sal.exec")
	AddStatementAttributes(span, &StatementMetadata{
		SQL:          "insert into `app`.`users` (`name`) values (?)",
		ParamCount:   1,
		Duration:     1500 * time.Microsecond,
		RowsAffected: 1,
		Database:     "mysql",
	})
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "sal.exec", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "mysql", attrs["db.system"].AsString())
	assert.Equal(t, "INSERT", attrs["db.operation"].AsString())
	assert.Equal(t, "app.users", attrs["db.sql.table"].AsString())
	assert.Equal(t, int64(1), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, int64(1), attrs["db.params"].AsInt64())
	assert.InDelta(t, 1.5, attrs["db.duration_ms"].AsFloat64(), 0.001)
	assert.False(t, attrs["db.transaction"].AsBool())
}

func TestOtelTracer_StatementError(t *testing.T) {
	tr, recorder := newRecorder(t)

	_, span := tr.StartSpan(context.Background(), "sal.fetch")
	AddStatementAttributes(span, &StatementMetadata{
		SQL:      "select * from missing",
		Error:    errors.New("no such table: missing"),
		Database: "sqlite",
		InTx:     true,
	})
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "no such table: missing", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)

	attrs := attrMap(spans[0].Attributes())
	_, hasTable := attrs["db.sql.table"]
	assert.False(t, hasTable)
	assert.True(t, attrs["db.transaction"].AsBool())
}

func TestDetectOperation(t *testing.T) {
	tests := map[string]string{
		"select 1":                        "SELECT",
		"  WITH x AS (select 1) select *": "SELECT",
		"insert into t values (1)":        "INSERT",
		"update t set a = 1":              "UPDATE",
		"delete from t":                   "DELETE",
		"replace into t values (1)":       "REPLACE",
		"create table t (id int)":         "UNKNOWN",
	}
	for sql, want := range tests {
		assert.Equal(t, want, DetectOperation(sql), sql)
	}
}

func TestDetectTable(t *testing.T) {
	assert.Equal(t, "users", DetectTable("insert into `users` (`a`) values (?)"))
	assert.Equal(t, "public.users", DetectTable(`update "public"."users" set "a" = $1 where id = 1`))
	assert.Equal(t, "users", DetectTable("DELETE FROM users WHERE id = 1"))
	assert.Equal(t, "", DetectTable("select * from users"))
}
