// Package registration stores the multi-step sign-up profile of a user:
// personal details, Singapore identity, and address with consent.
package registration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/janisto/legalhelp-api/internal/validation"
)

var (
	ErrNotFound      = errors.New("registration not found")
	ErrAlreadyExists = errors.New("registration already exists")
	// ErrIncomplete is returned by Complete while required steps are missing.
	ErrIncomplete = errors.New("registration incomplete")
)

// AccountType selects whether business details are required.
type AccountType string

const (
	AccountIndividual AccountType = "individual"
	AccountBusiness   AccountType = "business"
)

// Wizard steps.
const (
	StepPersonal = 1
	StepIdentity = 2
	StepAddress  = 3
	StepDone     = 4
)

// Registration is a stored registration. Mobile holds 8 digits; NRIC and UEN are upper case.
type Registration struct {
	ID          string
	FullName    string
	Email       string
	Mobile      string
	NRIC        string
	AccountType AccountType
	CompanyName string
	UEN         string
	PostalCode  string
	Address     string
	Terms       bool
	Marketing   bool
	Step        int
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateParams is the personal step that opens a registration.
type CreateParams struct {
	FullName  string
	Email     string
	Mobile    string
	Marketing bool
}

// UpdateParams carries later steps; nil fields are left unchanged.
type UpdateParams struct {
	FullName    *string
	Email       *string
	Mobile      *string
	NRIC        *string
	AccountType *AccountType
	CompanyName *string
	UEN         *string
	PostalCode  *string
	Address     *string
	Terms       *bool
	Marketing   *bool
}

// Service defines registration storage. Implementations normalize input with
// the helpers in this file so stores agree on stored forms.
type Service interface {
	Create(ctx context.Context, userID string, params CreateParams) (*Registration, error)
	Get(ctx context.Context, userID string) (*Registration, error)
	Update(ctx context.Context, userID string, params UpdateParams) (*Registration, error)
	Complete(ctx context.Context, userID string) (*Registration, error)
	Delete(ctx context.Context, userID string) error
}

func newRegistration(userID string, p CreateParams, now time.Time) *Registration {
	r := &Registration{
		ID:          userID,
		FullName:    strings.TrimSpace(p.FullName),
		Email:       normalizeEmail(p.Email),
		Mobile:      validation.NormalizePhone(p.Mobile),
		AccountType: AccountIndividual,
		Marketing:   p.Marketing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.Step = r.nextStep()
	return r
}

func (r *Registration) apply(p UpdateParams, now time.Time) {
	setString(&r.FullName, p.FullName, strings.TrimSpace)
	setString(&r.Email, p.Email, normalizeEmail)
	setString(&r.Mobile, p.Mobile, validation.NormalizePhone)
	setString(&r.NRIC, p.NRIC, upper)
	setString(&r.CompanyName, p.CompanyName, strings.TrimSpace)
	setString(&r.UEN, p.UEN, upper)
	setString(&r.PostalCode, p.PostalCode, strings.TrimSpace)
	setString(&r.Address, p.Address, strings.TrimSpace)
	if p.AccountType != nil {
		r.AccountType = *p.AccountType
	}
	if r.AccountType != AccountBusiness {
		r.CompanyName, r.UEN = "", ""
	}
	if p.Terms != nil {
		r.Terms = *p.Terms
	}
	if p.Marketing != nil {
		r.Marketing = *p.Marketing
	}
	if r.CompletedAt == nil {
		r.Step = r.nextStep()
	}
	r.UpdatedAt = now
}

func (r *Registration) complete(now time.Time) error {
	if r.CompletedAt != nil {
		return nil
	}
	if r.nextStep() != StepDone {
		return ErrIncomplete
	}
	r.Step = StepDone
	r.CompletedAt = &now
	r.UpdatedAt = now
	return nil
}

// Missing lists the fields still needed before Complete succeeds.
func (r *Registration) Missing() []string {
	var out []string
	need := func(ok bool, field string) {
		if !ok {
			out = append(out, field)
		}
	}
	need(r.FullName != "", "full_name")
	need(r.Email != "", "email")
	need(validation.ValidPhone(r.Mobile), "mobile")
	need(validation.ValidNRIC(r.NRIC), "nric")
	if r.AccountType == AccountBusiness {
		need(r.CompanyName != "", "company_name")
		need(validation.ValidUEN(r.UEN), "uen")
	}
	need(validation.ValidPostalCode(r.PostalCode), "postal_code")
	need(r.Address != "", "address")
	need(r.Terms, "terms")
	return out
}

// nextStep is the first wizard step with missing data.
func (r *Registration) nextStep() int {
	switch {
	case r.FullName == "" || r.Email == "" || !validation.ValidPhone(r.Mobile):
		return StepPersonal
	case !validation.ValidNRIC(r.NRIC),
		r.AccountType == AccountBusiness && (r.CompanyName == "" || !validation.ValidUEN(r.UEN)):
		return StepIdentity
	case !validation.ValidPostalCode(r.PostalCode) || r.Address == "" || !r.Terms:
		return StepAddress
	}
	return StepDone
}

func setString(dst *string, src *string, norm func(string) string) {
	if src != nil {
		*dst = norm(*src)
	}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrIncomplete):
		return "incomplete"
	default:
		return "internal_error"
	}
}

// stamp returns the current UTC time at the microsecond precision Firestore keeps.
func stamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
