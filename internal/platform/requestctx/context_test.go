package requestctx

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestLoggerRoundTrip(t *testing.T) {
	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	if got := Logger(ctx); got != logger {
		t.Fatalf("expected stored logger, got %v", got)
	}
}

func TestLoggerFallsBackToNoop(t *testing.T) {
	if Logger(context.Background()) != NoopLogger() {
		t.Fatalf("expected noop logger for empty context")
	}
	//nolint:staticcheck // nil context is tolerated
	if Logger(nil) != NoopLogger() {
		t.Fatalf("expected noop logger for nil context")
	}
	if Logger(WithLogger(context.Background(), nil)) != NoopLogger() {
		t.Fatalf("nil logger should be replaced with noop")
	}
}

func TestTraceRoundTrip(t *testing.T) {
	if _, ok := Trace(context.Background()); ok {
		t.Fatalf("expected no trace info")
	}
	ctx := WithTrace(context.Background(), TraceInfo{TraceID: "abc", SpanID: "def", Sampled: true})
	info, ok := Trace(ctx)
	if !ok || info.TraceID != "abc" || info.SpanID != "def" || !info.Sampled {
		t.Fatalf("unexpected trace info %+v", info)
	}
}
