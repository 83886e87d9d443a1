package auth

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/legalhelp-api/internal/api"
	"github.com/janisto/legalhelp-api/internal/platform/logging"
)

type userContextKey struct{}

// Reporter receives authentication failures, typically the error tracker.
type Reporter interface {
	LogAuthError(ctx context.Context, err any, action string)
}

// Middleware guards operations that declare a Security requirement. Failures
// are answered with a response envelope carrying an auth error code.
func Middleware(hapi huma.API, verifier Verifier, reporter Reporter) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if len(ctx.Operation().Security) == 0 {
			next(ctx)
			return
		}

		token, err := BearerToken(ctx.Header("Authorization"))
		if err == nil {
			var user *User
			user, err = verifier.Verify(ctx.Context(), token)
			if err == nil && user != nil {
				rctx := context.WithValue(ctx.Context(), userContextKey{}, user)
				rctx = logging.With(rctx, zap.String("userId", user.UID))
				next(huma.WithContext(ctx, rctx))
				return
			}
			if err == nil {
				err = ErrInvalidToken
			}
		}

		reason := reasonOf(err)
		logging.LogWarn(ctx.Context(), "auth failed", zap.String("reason", reason))
		if reporter != nil && !errors.Is(err, ErrNoToken) {
			reporter.LogAuthError(ctx.Context(), err, "verify token ("+reason+")")
		}
		deny(hapi, ctx, err)
	}
}

func deny(hapi huma.API, ctx huma.Context, err error) {
	code := api.CodeUnauthorized
	switch {
	case errors.Is(err, ErrTokenExpired):
		code = api.CodeTokenExpired
	case errors.Is(err, ErrCertificateFetch):
		code = api.CodeExternalServiceError
		ctx.SetHeader("Retry-After", "30")
	}
	if code != api.CodeExternalServiceError {
		ctx.SetHeader("WWW-Authenticate", "Bearer")
	}

	body := api.Failure[any](api.NewCodeError(code, nil))
	ct, nerr := hapi.Negotiate(ctx.Header("Accept"))
	if nerr != nil {
		ct = "application/json"
	}
	ctx.SetHeader("Content-Type", ct)
	ctx.SetStatus(code.Status())
	if merr := hapi.Marshal(ctx.BodyWriter(), ct, body); merr != nil {
		logging.LogError(ctx.Context(), "auth response write failed", merr)
	}
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, ErrNoToken):
		return "no_token"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrTokenRevoked):
		return "token_revoked"
	case errors.Is(err, ErrUserDisabled):
		return "user_disabled"
	case errors.Is(err, ErrCertificateFetch):
		return "certificate_fetch_failed"
	default:
		return "invalid_token"
	}
}

// UserFromContext returns the verified user, or nil on unsecured operations.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}

// UserID returns the verified user's UID or "". It fits tracker.UserResolver.
func UserID(ctx context.Context) string {
	if u := UserFromContext(ctx); u != nil {
		return u.UID
	}
	return ""
}

