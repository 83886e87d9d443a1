package tracker

import (
	"context"
	"net/http"
)

// Request is the ambient context attached to each entry.
type Request struct {
	URL       string
	UserAgent string
	UserID    string
}

// Ambient resolves request context for an entry. Missing values are left empty.
type Ambient func(ctx context.Context) Request

// UserResolver returns the current user identifier, or "" when unknown.
type UserResolver func(ctx context.Context) string

type requestKey struct{}

// WithRequest stores request details for later reports.
func WithRequest(ctx context.Context, r Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

// RequestFromContext returns the request details stored by Middleware.
func RequestFromContext(ctx context.Context) (Request, bool) {
	r, ok := ctx.Value(requestKey{}).(Request)
	return r, ok
}

// Middleware captures the URL and user agent of each request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithRequest(r.Context(), Request{
				URL:       requestURL(r),
				UserAgent: r.UserAgent(),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func contextAmbient(users UserResolver) Ambient {
	return func(ctx context.Context) Request {
		req, _ := RequestFromContext(ctx)
		if req.UserID == "" && users != nil {
			req.UserID = users(ctx)
		}
		return req
	}
}
