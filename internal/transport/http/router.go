package http

import (
	"net/http"

	"github.com/IgorGrieder/short-links/internal/infrastructure/telemetry"
	"github.com/IgorGrieder/short-links/internal/processing/links"
	"github.com/IgorGrieder/short-links/internal/transport/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

type RouterOptions struct {
	ServiceName string

	EnableCORS    bool
	EnableLogging bool
	EnableMetrics bool

	LinksHandlerOptions LinksHandlerOptions
}

func DefaultRouterOptions() RouterOptions {
	return RouterOptions{
		ServiceName:   "short-links",
		EnableCORS:    true,
		EnableLogging: true,
		EnableMetrics: true,
		LinksHandlerOptions: LinksHandlerOptions{
			RedirectStatus: http.StatusMovedPermanently,
		},
	}
}

func NewRouter(linkService *links.Service, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	healthHandler := NewHealthHandler()
	linksHandler := NewLinksHandler(linkService, opts.LinksHandlerOptions)

	mux.HandleFunc("GET /health", named("health", healthHandler.Health))
	mux.Handle("GET /metrics", healthHandler.Metrics())

	mux.HandleFunc("GET /api/links", named("links.list", linksHandler.List))
	mux.HandleFunc("POST /api/links", named("links.create", linksHandler.Create))
	mux.HandleFunc("GET /api/metrics", named("links.metrics", linksHandler.Metrics))
	mux.HandleFunc("GET /{code}", named("links.redirect", linksHandler.Redirect))

	var chain []func(http.Handler) http.Handler
	if opts.EnableMetrics {
		chain = append(chain, middleware.MetricsMiddleware)
	}
	if opts.EnableLogging {
		chain = append(chain, middleware.LoggingMiddleware)
	}
	if opts.EnableCORS {
		chain = append(chain, middleware.CORSMiddleware)
	}
	innerHandler := middleware.Chain(mux, chain...)

	otelOptions := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method
		}),
	}
	if telemetry.TracerProvider != nil {
		otelOptions = append(otelOptions, otelhttp.WithTracerProvider(telemetry.TracerProvider))
	}

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "short-links"
	}
	return otelhttp.NewHandler(innerHandler, serviceName, otelOptions...)
}

// named renames the server span once the route is known, so span names do
// not carry short codes.
func named(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trace.SpanFromContext(r.Context()).SetName(name)
		h(w, r)
	}
}
