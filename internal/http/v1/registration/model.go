package registration

import (
	"github.com/janisto/legalhelp-api/internal/platform/timeutil"
	regsvc "github.com/janisto/legalhelp-api/internal/service/registration"
	"github.com/janisto/legalhelp-api/internal/validation"
)

// Registration is the registration as returned to its owner.
type Registration struct {
	ID          string         `json:"id"                    doc:"Owner user ID"`
	FullName    string         `json:"fullName"              doc:"Full name as in NRIC"           example:"Tan Wei Ming"`
	Email       string         `json:"email"                 doc:"Contact email"                  example:"tan.wei@example.sg"`
	Mobile      string         `json:"mobile"                doc:"Mobile number, display form"    example:"+65 9123 4567"`
	NRIC        string         `json:"nric,omitempty"        doc:"Masked NRIC"                    example:"S****567D"`
	AccountType string         `json:"accountType"           doc:"individual or business"         example:"individual"`
	CompanyName string         `json:"companyName,omitempty" doc:"Registered business name"`
	UEN         string         `json:"uen,omitempty"         doc:"Business UEN"                   example:"201912345K"`
	PostalCode  string         `json:"postalCode,omitempty"  doc:"Singapore postal code"          example:"238801"`
	Address     string         `json:"address,omitempty"     doc:"Street address"`
	Terms       bool           `json:"terms"                 doc:"Terms accepted"`
	Marketing   bool           `json:"marketing"             doc:"Marketing opt-in"`
	Step        int            `json:"step"                  doc:"Next wizard step, 4 when all steps are filled" example:"2"`
	Missing     []string       `json:"missing"               doc:"Fields still needed to complete"`
	CompletedAt *timeutil.Time `json:"completedAt,omitempty" doc:"When the registration was completed"`
	CreatedAt   timeutil.Time  `json:"createdAt"             doc:"Creation timestamp"`
	UpdatedAt   timeutil.Time  `json:"updatedAt"             doc:"Last update timestamp"`
}

func toHTTP(r *regsvc.Registration) Registration {
	out := Registration{
		ID:          r.ID,
		FullName:    r.FullName,
		Email:       r.Email,
		Mobile:      validation.FormatPhone(r.Mobile),
		NRIC:        maskNRIC(r.NRIC),
		AccountType: string(r.AccountType),
		CompanyName: r.CompanyName,
		UEN:         r.UEN,
		PostalCode:  r.PostalCode,
		Address:     r.Address,
		Terms:       r.Terms,
		Marketing:   r.Marketing,
		Step:        r.Step,
		Missing:     r.Missing(),
		CreatedAt:   timeutil.NewTime(r.CreatedAt),
		UpdatedAt:   timeutil.NewTime(r.UpdatedAt),
	}
	if out.Missing == nil {
		out.Missing = []string{}
	}
	if r.CompletedAt != nil {
		t := timeutil.NewTime(*r.CompletedAt)
		out.CompletedAt = &t
	}
	return out
}

// maskNRIC keeps the prefix letter and the last four characters.
func maskNRIC(nric string) string {
	if len(nric) != 9 {
		return nric
	}
	return nric[:1] + "****" + nric[5:]
}
