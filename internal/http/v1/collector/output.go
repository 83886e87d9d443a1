package collector

import "github.com/janisto/legalhelp-api/internal/api"

// SubmitOutput for POST /errors (202 Accepted).
type SubmitOutput struct {
	Body api.Response[Accepted]
}

// ListOutput for GET /errors.
type ListOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body api.Response[[]Report]
}
