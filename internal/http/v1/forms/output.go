package forms

import "github.com/janisto/legalhelp-api/internal/api"

// Validated reports a passing submission.
type Validated struct {
	Valid  bool     `json:"valid"  doc:"Always true on success"`
	Fields []string `json:"fields" doc:"Validated field names in descriptor order"`
}

// Checked is the result of a single identifier check.
type Checked struct {
	Kind      string `json:"kind"                doc:"Identifier kind"        example:"phone"`
	Valid     bool   `json:"valid"               doc:"Whether the value is well formed"`
	Formatted string `json:"formatted,omitempty" doc:"Display form, for valid phone numbers" example:"+65 9123 4567"`
}

type ValidateOutput struct {
	Body api.Response[Validated]
}

type CheckOutput struct {
	Body api.Response[Checked]
}
