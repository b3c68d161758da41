// Package middleware provides net/http middleware for metrics and tracing.
//
// # Prometheus Metrics
//
// NewMetrics registers the application's collectors in its own registry, so
// several instances can coexist in one process (tests do this).
//
//	m := middleware.NewMetrics(middleware.WithNamespace("datedmemo"))
//	r := chi.NewRouter()
//	r.Use(m.Handler)
//	r.Handle("/metrics", m.Exposition())
//
// Requests are labeled by chi route pattern. Binder sessions report through
// RecordRevalidation, RecordSessionOpen, RecordSessionClose and
// RecordWebSocketError.
//
// # OpenTelemetry Middleware
//
// OpenTelemetry opens one server span per request:
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("datedmemo"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
package middleware
