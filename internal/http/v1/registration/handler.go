// Package registration serves the multi-step registration of the signed-in
// user.
package registration

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/legalhelp-api/internal/api"
	"github.com/janisto/legalhelp-api/internal/platform/auth"
	"github.com/janisto/legalhelp-api/internal/platform/respond"
	regsvc "github.com/janisto/legalhelp-api/internal/service/registration"
	"github.com/janisto/legalhelp-api/internal/validation"
)

// Reporter receives storage failures, typically the error tracker.
type Reporter interface {
	LogDatabaseError(ctx context.Context, err any, operation string, metadata map[string]any)
}

var bearer = []map[string][]string{{"bearerAuth": {}}}

// Register adds the registration endpoints. reporter may be nil.
func Register(hapi huma.API, svc regsvc.Service, reporter Reporter, prefix string) {
	h := &handler{reporter: reporter}

	huma.Register(hapi, huma.Operation{
		OperationID:   "create-registration",
		Method:        http.MethodPost,
		Path:          "/registration",
		Summary:       "Start registration",
		Description:   "Opens a registration for the authenticated user with the personal step.",
		Tags:          []string{"Registration"},
		DefaultStatus: http.StatusCreated,
		Security:      bearer,
	}, func(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
		if errs := validation.Struct(input.Body); errs != nil {
			return nil, respond.Failure(ctx, errs.APIError())
		}
		r, err := svc.Create(ctx, auth.UserID(ctx), regsvc.CreateParams{
			FullName:  input.Body.FullName,
			Email:     input.Body.Email,
			Mobile:    input.Body.Mobile,
			Marketing: input.Body.Marketing,
		})
		if err != nil {
			return nil, h.fail(ctx, "create", err)
		}
		return &CreateOutput{Location: prefix + "/registration", Body: api.Success(toHTTP(r))}, nil
	})

	huma.Register(hapi, huma.Operation{
		OperationID: "get-registration",
		Method:      http.MethodGet,
		Path:        "/registration",
		Summary:     "Get registration",
		Tags:        []string{"Registration"},
		Security:    bearer,
	}, func(ctx context.Context, _ *struct{}) (*Output, error) {
		r, err := svc.Get(ctx, auth.UserID(ctx))
		if err != nil {
			return nil, h.fail(ctx, "get", err)
		}
		return &Output{Body: api.Success(toHTTP(r))}, nil
	})

	huma.Register(hapi, huma.Operation{
		OperationID: "update-registration",
		Method:      http.MethodPatch,
		Path:        "/registration",
		Summary:     "Update registration",
		Description: "Saves wizard steps. NRIC, UEN, mobile and postal code use Singapore formats.",
		Tags:        []string{"Registration"},
		Security:    bearer,
	}, func(ctx context.Context, input *UpdateInput) (*Output, error) {
		if input.empty() {
			return nil, respond.Failure(ctx, api.NewAPIError(
				"At least one field must be provided", api.CodeMissingRequiredField, http.StatusUnprocessableEntity, nil))
		}
		if errs := validation.Struct(input.Body); errs != nil {
			return nil, respond.Failure(ctx, errs.APIError())
		}
		b := input.Body
		params := regsvc.UpdateParams{
			FullName: b.FullName, Email: b.Email, Mobile: b.Mobile, NRIC: b.NRIC,
			CompanyName: b.CompanyName, UEN: b.UEN, PostalCode: b.PostalCode, Address: b.Address,
			Terms: b.Terms, Marketing: b.Marketing,
		}
		if b.AccountType != nil {
			at := regsvc.AccountType(*b.AccountType)
			params.AccountType = &at
		}
		r, err := svc.Update(ctx, auth.UserID(ctx), params)
		if err != nil {
			return nil, h.fail(ctx, "update", err)
		}
		return &Output{Body: api.Success(toHTTP(r))}, nil
	})

	huma.Register(hapi, huma.Operation{
		OperationID: "complete-registration",
		Method:      http.MethodPost,
		Path:        "/registration/complete",
		Summary:     "Complete registration",
		Description: "Marks the registration complete once every step is filled. Repeat calls are no-ops.",
		Tags:        []string{"Registration"},
		Security:    bearer,
	}, func(ctx context.Context, _ *struct{}) (*Output, error) {
		uid := auth.UserID(ctx)
		r, err := svc.Complete(ctx, uid)
		if errors.Is(err, regsvc.ErrIncomplete) {
			current, gerr := svc.Get(ctx, uid)
			if gerr != nil {
				return nil, h.fail(ctx, "complete", gerr)
			}
			return nil, respond.Failure(ctx, api.NewCodeError(api.CodeMissingRequiredField,
				map[string]any{"missing": current.Missing()}))
		}
		if err != nil {
			return nil, h.fail(ctx, "complete", err)
		}
		return &Output{Body: api.Success(toHTTP(r))}, nil
	})

	huma.Register(hapi, huma.Operation{
		OperationID:   "delete-registration",
		Method:        http.MethodDelete,
		Path:          "/registration",
		Summary:       "Delete registration",
		Tags:          []string{"Registration"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearer,
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		if err := svc.Delete(ctx, auth.UserID(ctx)); err != nil {
			return nil, h.fail(ctx, "delete", err)
		}
		return nil, nil
	})
}

type handler struct {
	reporter Reporter
}

// fail maps service errors to envelopes; storage failures are reported.
func (h *handler) fail(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, regsvc.ErrNotFound):
		return respond.Failure(ctx, api.NewAPIError("Registration not found", "", http.StatusNotFound, nil))
	case errors.Is(err, regsvc.ErrAlreadyExists):
		return respond.Failure(ctx, api.NewAPIError("Registration already exists", "", http.StatusConflict, nil))
	}
	if h.reporter != nil {
		h.reporter.LogDatabaseError(ctx, err, "registration "+op, nil)
	}
	return respond.Failure(ctx, fmt.Errorf("%w: registration %s: %w", api.ErrDatabase, op, err))
}
