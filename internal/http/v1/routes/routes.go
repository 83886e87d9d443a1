// Package routes mounts the v1 API operations.
package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/legalhelp-api/internal/http/v1/collector"
	"github.com/janisto/legalhelp-api/internal/http/v1/forms"
	"github.com/janisto/legalhelp-api/internal/http/v1/registration"
	"github.com/janisto/legalhelp-api/internal/platform/auth"
	"github.com/janisto/legalhelp-api/internal/service/reports"
	regsvc "github.com/janisto/legalhelp-api/internal/service/registration"
	"github.com/janisto/legalhelp-api/internal/tracker"
)

// Deps are the collaborators of the v1 handlers.
type Deps struct {
	Verifier      auth.Verifier
	Tracker       *tracker.Tracker
	Reports       reports.Service
	Registrations regsvc.Service
}

// Register adds the bearer security scheme, the auth middleware and every v1
// operation.
func Register(hapi huma.API, deps Deps) {
	prefix := apiPrefix(hapi)

	oapi := hapi.OpenAPI()
	if oapi.Components.SecuritySchemes == nil {
		oapi.Components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}
	oapi.Components.SecuritySchemes["bearerAuth"] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
		Description:  "Firebase ID token",
	}

	var authReporter auth.Reporter
	var dbReporter registration.Reporter
	if deps.Tracker != nil {
		authReporter, dbReporter = deps.Tracker, deps.Tracker
	}
	hapi.UseMiddleware(auth.Middleware(hapi, deps.Verifier, authReporter))

	collector.Register(hapi, deps.Reports, prefix)
	forms.Register(hapi)
	registration.Register(hapi, deps.Registrations, dbReporter, prefix)
}

func apiPrefix(hapi huma.API) string {
	for _, s := range hapi.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
