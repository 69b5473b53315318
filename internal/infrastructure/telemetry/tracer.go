package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// TracerProvider is set by InitTracer and handed to otelhttp. Nil means
// tracing is disabled and the global no-op provider is in use.
var TracerProvider *sdktrace.TracerProvider

// parseEndpoint strips scheme and signal path so otlptracehttp gets host:port.
func parseEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimSuffix(endpoint, "/")
	endpoint = strings.TrimSuffix(endpoint, "/v1/traces")
	return endpoint
}

// InitTracer installs an OTLP/HTTP batch exporter and the W3C propagators,
// returning the provider's shutdown func.
func InitTracer(otelEndpoint, serviceName, serviceVersion string) (func(context.Context) error, error) {
	ctx := context.Background()

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(parseEndpoint(otelEndpoint)),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	SetPropagator()
	TracerProvider = tp
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// SetPropagator installs TraceContext + Baggage. Safe to call without a
// tracer so that incoming trace headers still flow into outgoing events.
func SetPropagator() {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// InjectMap serialises the trace context of ctx into a header map.
func InjectMap(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier
}

// ExtractMap restores a trace context from a header map. Keys are matched
// case-insensitively.
func ExtractMap(parent context.Context, headers map[string]string) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range headers {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		carrier.Set(key, v)
	}
	return otel.GetTextMapPropagator().Extract(parent, carrier)
}
