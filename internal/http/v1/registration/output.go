package registration

import "github.com/janisto/legalhelp-api/internal/api"

// CreateOutput for POST /registration (201 Created).
type CreateOutput struct {
	Location string `header:"Location" doc:"URL of the registration"`
	Body     api.Response[Registration]
}

// Output for GET, PATCH and the complete action.
type Output struct {
	Body api.Response[Registration]
}
