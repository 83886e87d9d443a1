package logging

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger binds a logger carrying the request ID and, when a
// traceparent header and a project are known, Cloud Trace fields.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			reqID := chimiddleware.GetReqID(ctx)
			correlation := reqID

			var fields []zap.Field
			if tp, ok := parseTraceparent(r.Header.Get(traceparentHeader)); ok {
				if project := projectID(); project != "" {
					fields = append(fields, tp.fields(project)...)
					correlation = tp.resource(project)
				}
			}
			if reqID != "" {
				fields = append(fields, zap.String("requestId", reqID))
			}

			logger := Logger()
			if len(fields) > 0 {
				logger = logger.With(fields...)
			}
			ctx = withCorrelationID(ContextWithLogger(ctx, logger), correlation)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLogger writes one summary per request. 5xx responses log at error
// level and 4xx responses as warnings.
func AccessLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remoteIp", r.RemoteAddr),
				zap.String("userAgent", r.UserAgent()),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					fields = append(fields, zap.String("route", pattern))
				}
			}

			logger := LoggerFromContext(r.Context())
			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("request completed", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("request completed", fields...)
			default:
				logger.Info("request completed", fields...)
			}
		})
	}
}
