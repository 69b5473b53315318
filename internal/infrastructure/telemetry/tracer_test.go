package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:4318", "localhost:4318"},
		{"https://collector:4318/v1/traces", "collector:4318"},
		{"localhost:4318/", "localhost:4318"},
		{"  jaeger:4318  ", "jaeger:4318"},
	}
	for _, tt := range tests {
		if got := parseEndpoint(tt.in); got != tt.want {
			t.Errorf("parseEndpoint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInjectExtractRoundTrip(t *testing.T) {
	SetPropagator()

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	ctx := trace.ContextWithRemoteSpanContext(context.Background(), sc)

	headers := InjectMap(ctx)
	if headers["traceparent"] == "" {
		t.Fatalf("traceparent missing: %v", headers)
	}

	upper := map[string]string{"Traceparent": headers["traceparent"]}
	got := trace.SpanContextFromContext(ExtractMap(context.Background(), upper))
	if got.TraceID() != traceID {
		t.Errorf("trace id = %s, want %s", got.TraceID(), traceID)
	}
}
