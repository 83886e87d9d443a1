package registration

// CreateInput for POST /registration (personal step).
type CreateInput struct {
	Body struct {
		FullName  string `json:"fullName"  minLength:"1" maxLength:"200" doc:"Full name"     validate:"required"`
		Email     string `json:"email"     format:"email" maxLength:"254" doc:"Email"        validate:"required,email"`
		Mobile    string `json:"mobile"    maxLength:"20"                 doc:"Singapore mobile number" validate:"required,sg_phone"`
		Marketing bool   `json:"marketing,omitempty"                      doc:"Marketing opt-in"`
	}
}

// UpdateInput for PATCH /registration. Only provided fields change.
type UpdateInput struct {
	Body struct {
		FullName    *string `json:"fullName,omitempty"    minLength:"1" maxLength:"200" validate:"omitnil,min=1"`
		Email       *string `json:"email,omitempty"       maxLength:"254"               validate:"omitnil,email"`
		Mobile      *string `json:"mobile,omitempty"      maxLength:"20"                validate:"omitnil,sg_phone"`
		NRIC        *string `json:"nric,omitempty"        maxLength:"9"                 validate:"omitnil,sg_nric"`
		AccountType *string `json:"accountType,omitempty" enum:"individual,business"    validate:"omitnil,oneof=individual business"`
		CompanyName *string `json:"companyName,omitempty" maxLength:"200"`
		UEN         *string `json:"uen,omitempty"         maxLength:"10"                validate:"omitnil,sg_uen"`
		PostalCode  *string `json:"postalCode,omitempty"  maxLength:"6"                 validate:"omitnil,sg_postal"`
		Address     *string `json:"address,omitempty"     maxLength:"500"`
		Terms       *bool   `json:"terms,omitempty"                                     validate:"omitnil,eq=true"`
		Marketing   *bool   `json:"marketing,omitempty"`
	}
}

func (in *UpdateInput) empty() bool {
	b := in.Body
	return b.FullName == nil && b.Email == nil && b.Mobile == nil && b.NRIC == nil &&
		b.AccountType == nil && b.CompanyName == nil && b.UEN == nil && b.PostalCode == nil &&
		b.Address == nil && b.Terms == nil && b.Marketing == nil
}
