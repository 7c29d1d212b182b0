package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"marketpulse/internal"
)

// requestLogger logs one line per request at info level, with the
// request id chi's middleware put on the context.
func requestLogger(logger *internal.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http %s %s status=%d bytes=%d rid=%s latency=%s",
				r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
				chimiddleware.GetReqID(r.Context()), time.Since(start))
		})
	}
}

// instrument records request count and latency per chi route pattern, so
// /api/campaigns/{id} stays one series regardless of the id.
func instrument(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
			m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}
