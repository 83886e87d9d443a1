// Package health serves the liveness and readiness endpoint.
package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/janisto/legalhelp-api/internal/api"
	"github.com/janisto/legalhelp-api/internal/platform/logging"
	"github.com/janisto/legalhelp-api/internal/platform/respond"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// Response is the health payload.
type Response struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Handler answers with a success envelope when every check passes. Otherwise
// it answers 503 EXTERNAL_SERVICE_ERROR with the check results as details.
// Each check gets two seconds.
func Handler(version string, checks map[string]Check) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := Response{Status: "healthy", Version: version}
		if len(names) > 0 {
			resp.Checks = make(map[string]string, len(names))
		}
		for _, name := range names {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := checks[name](ctx)
			cancel()
			if err != nil {
				logging.LogError(r.Context(), "health check failed", err)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				continue
			}
			resp.Checks[name] = "ok"
		}

		w.Header().Set("Cache-Control", "no-store")
		if resp.Status != "healthy" {
			respond.WriteFailure(w, r, api.NewCodeError(api.CodeExternalServiceError, map[string]any{
				"status":  resp.Status,
				"version": resp.Version,
				"checks":  resp.Checks,
			}))
			return
		}
		respond.WriteResponse(w, r, http.StatusOK, api.Success(resp))
	}
}
