// Package forms validates dynamic form submissions and single Singapore
// identifiers.
package forms

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/legalhelp-api/internal/api"
	"github.com/janisto/legalhelp-api/internal/platform/respond"
	"github.com/janisto/legalhelp-api/internal/validation"
)

var checks = map[string]func(string) bool{
	"nric":   validation.ValidNRIC,
	"uen":    validation.ValidUEN,
	"phone":  validation.ValidPhone,
	"postal": validation.ValidPostalCode,
}

// Register adds the form endpoints.
func Register(hapi huma.API) {
	huma.Register(hapi, huma.Operation{
		OperationID: "validate-form",
		Method:      http.MethodPost,
		Path:        "/forms/validate",
		Summary:     "Validate a form submission",
		Description: "Builds validation rules from the field descriptors and checks the submitted values. " +
			"Failures return 422 with a VALIDATION_ERROR envelope listing each failing field.",
		Tags: []string{"Forms"},
	}, func(ctx context.Context, input *ValidateInput) (*ValidateOutput, error) {
		schema := validation.BuildContext(ctx, input.Body.Fields)
		if errs := schema.Validate(input.Body.Values); errs != nil {
			return nil, respond.Failure(ctx, errs.APIError())
		}
		return &ValidateOutput{Body: api.Success(Validated{Valid: true, Fields: schema.Fields()})}, nil
	})

	huma.Register(hapi, huma.Operation{
		OperationID: "check-identifier",
		Method:      http.MethodGet,
		Path:        "/forms/check/{kind}",
		Summary:     "Check a Singapore identifier",
		Description: "Checks an NRIC, UEN, mobile number or postal code.",
		Tags:        []string{"Forms"},
	}, func(_ context.Context, input *CheckInput) (*CheckOutput, error) {
		out := Checked{Kind: input.Kind, Valid: checks[input.Kind](input.Value)}
		if out.Valid && input.Kind == "phone" {
			out.Formatted = validation.FormatPhone(input.Value)
		}
		return &CheckOutput{Body: api.Success(out)}, nil
	})
}
