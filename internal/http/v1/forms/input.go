package forms

import "github.com/janisto/legalhelp-api/internal/validation"

// ValidateInput for POST /forms/validate.
type ValidateInput struct {
	Body struct {
		Fields []validation.FieldDescriptor `json:"fields" minItems:"1" maxItems:"200" doc:"Field descriptors of the form"`
		Values map[string]string            `json:"values"                             doc:"Submitted values keyed by variable_name"`
	}
}

// CheckInput for GET /forms/check/{kind}.
type CheckInput struct {
	Kind  string `path:"kind"   enum:"nric,uen,phone,postal" doc:"Identifier kind"`
	Value string `query:"value" maxLength:"64"               doc:"Value to check" required:"true"`
}
