package collector

import (
	"github.com/janisto/legalhelp-api/internal/platform/pagination"
	"github.com/janisto/legalhelp-api/internal/tracker"
)

// SubmitInput for POST /errors; the body matches the tracker's delivery payload.
type SubmitInput struct {
	Body struct {
		// maxItems is tracker.MaxBatch.
		Errors []tracker.Entry `json:"errors" minItems:"1" maxItems:"100" doc:"Error entries"`
	}
}

// ListInput for GET /errors.
type ListInput struct {
	pagination.Params
	Category string `query:"category" enum:"javascript,api,database,auth,payment,performance,security" doc:"Only this category"`
	Severity string `query:"severity" enum:"low,medium,high,critical"                                  doc:"Only this severity"`
}
