package validation

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/janisto/legalhelp-api/internal/api"
	"github.com/janisto/legalhelp-api/internal/platform/logging"
)

func intPtr(v int) *int { return &v }

func TestRequiredEmailOptionalText(t *testing.T) {
	schema := Build([]FieldDescriptor{
		{VariableName: "email", DisplayLabel: "Email", VariableType: TypeEmail, IsRequired: true},
		{VariableName: "notes", DisplayLabel: "Notes", VariableType: TypeText},
	})

	errs := schema.Validate(map[string]string{})
	if errs == nil || len(errs.Fields) != 1 {
		t.Fatalf("expected only email to fail, got %+v", errs)
	}
	if errs.Fields["email"] != "Email is required" {
		t.Fatalf("unexpected message %q", errs.Fields["email"])
	}

	errs = schema.Validate(map[string]string{"email": "bad"})
	if errs == nil || errs.Fields["email"] != "Please enter a valid email address" {
		t.Fatalf("expected email format failure, got %+v", errs)
	}

	if errs := schema.Validate(map[string]string{"email": "a@b.com"}); errs != nil {
		t.Fatalf("expected success, got %+v", errs)
	}
	if errs := schema.Validate(map[string]string{"email": "a@b.com", "notes": "anything"}); errs != nil {
		t.Fatalf("expected success with optional field, got %+v", errs)
	}
}

func TestReportsAllFailingFields(t *testing.T) {
	schema := Build([]FieldDescriptor{
		{VariableName: "nric", DisplayLabel: "NRIC", VariableType: TypeNRIC, IsRequired: true},
		{VariableName: "phone", DisplayLabel: "Phone", VariableType: TypePhone, IsRequired: true},
		{VariableName: "uen", DisplayLabel: "UEN", VariableType: TypeUEN, IsRequired: true},
	})
	errs := schema.Validate(map[string]string{"nric": "X1234567A", "phone": "51234567", "uen": "1234"})
	if errs == nil || len(errs.Fields) != 3 {
		t.Fatalf("expected three failures, got %+v", errs)
	}
	issues := errs.Issues()
	if issues[0].Field != "nric" || issues[1].Field != "phone" || issues[2].Field != "uen" {
		t.Fatalf("issues not sorted: %+v", issues)
	}
	if errs.Fields["phone"] != "Please enter a valid Singapore phone number" {
		t.Fatalf("unexpected phone message %q", errs.Fields["phone"])
	}

	ok := schema.Validate(map[string]string{"nric": "s1234567a", "phone": "9123-4567", "uen": "53312345a"})
	if ok != nil {
		t.Fatalf("expected success, got %+v", ok)
	}
}

func TestPatternOverridesType(t *testing.T) {
	schema := Build([]FieldDescriptor{
		{
			VariableName:      "ref",
			DisplayLabel:      "Reference",
			VariableType:      TypeEmail,
			IsRequired:        true,
			ValidationPattern: `^REF-\d{4}$`,
			ValidationMessage: "Use REF-0000",
		},
		{VariableName: "code", DisplayLabel: "Code", VariableType: TypeText, ValidationPattern: `^[A-Z]{3}$`},
	})
	if errs := schema.Validate(map[string]string{"ref": "REF-1234"}); errs != nil {
		t.Fatalf("pattern should replace the email rule, got %+v", errs)
	}
	errs := schema.Validate(map[string]string{"ref": "a@b.com", "code": "abc"})
	if errs == nil {
		t.Fatal("expected failures")
	}
	if errs.Fields["ref"] != "Use REF-0000" {
		t.Fatalf("unexpected ref message %q", errs.Fields["ref"])
	}
	if errs.Fields["code"] != "Code format is invalid" {
		t.Fatalf("unexpected fallback message %q", errs.Fields["code"])
	}
}

func TestInvalidPatternIsIgnoredAndLogged(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := logging.ContextWithLogger(context.Background(), zap.New(core))

	schema := BuildContext(ctx, []FieldDescriptor{
		{VariableName: "email", DisplayLabel: "Email", VariableType: TypeEmail, IsRequired: true, ValidationPattern: "(["},
	})
	if recorded.FilterMessage("invalid validation pattern ignored").Len() != 1 {
		t.Fatalf("expected one warning, got %d entries", recorded.Len())
	}
	errs := schema.Validate(map[string]string{"email": "bad"})
	if errs == nil || errs.Fields["email"] != "Please enter a valid email address" {
		t.Fatalf("base rule should remain, got %+v", errs)
	}
}

func TestSelect(t *testing.T) {
	schema := Build([]FieldDescriptor{
		{VariableName: "area", DisplayLabel: "Practice area", VariableType: TypeSelect, IsRequired: true, SelectOptions: []string{"Family Law", "Employment"}},
		{VariableName: "free", DisplayLabel: "Free", VariableType: TypeSelect, MaxLength: intPtr(3)},
	})
	if errs := schema.Validate(map[string]string{"area": "Family Law", "free": "abc"}); errs != nil {
		t.Fatalf("expected success, got %+v", errs)
	}
	errs := schema.Validate(map[string]string{"area": "Tax", "free": "abcd"})
	if errs == nil {
		t.Fatal("expected failures")
	}
	if errs.Fields["area"] != "Practice area must be one of: Family Law, Employment" {
		t.Fatalf("unexpected select message %q", errs.Fields["area"])
	}
	if errs.Fields["free"] != "Free must be at most 3 characters" {
		t.Fatalf("unexpected fallback message %q", errs.Fields["free"])
	}
}

func TestTextareaLimit(t *testing.T) {
	schema := Build([]FieldDescriptor{{VariableName: "body", DisplayLabel: "Body", VariableType: TypeTextarea}})
	if errs := schema.Validate(map[string]string{"body": strings.Repeat("a", TextareaMaxLength)}); errs != nil {
		t.Fatalf("expected success at limit, got %+v", errs)
	}
	errs := schema.Validate(map[string]string{"body": strings.Repeat("a", TextareaMaxLength+1)})
	if errs == nil || errs.Fields["body"] != "Body must be at most 2000 characters" {
		t.Fatalf("expected limit failure, got %+v", errs)
	}
}

func TestTextLengthConstraints(t *testing.T) {
	schema := Build([]FieldDescriptor{
		{VariableName: "name", DisplayLabel: "Name", VariableType: TypeText, IsRequired: true, MinLength: intPtr(2), MaxLength: intPtr(5)},
		{VariableName: "amount", DisplayLabel: "Amount", VariableType: TypeNumber, MaxLength: intPtr(1)},
	})
	errs := schema.Validate(map[string]string{"name": "a", "amount": "1234.5"})
	if errs == nil || errs.Fields["name"] != "Name must be at least 2 characters" {
		t.Fatalf("expected min failure, got %+v", errs)
	}
	if _, ok := errs.Fields["amount"]; ok {
		t.Fatalf("length limits must not apply to numbers: %+v", errs)
	}
}

func TestNumericAndDateRules(t *testing.T) {
	schema := Build([]FieldDescriptor{
		{VariableName: "amount", DisplayLabel: "Amount", VariableType: TypeNumber},
		{VariableName: "fee", DisplayLabel: "Fee", VariableType: TypeCurrency},
		{VariableName: "date", DisplayLabel: "Date", VariableType: TypeDate},
	})
	if errs := schema.Validate(map[string]string{"amount": "12.345", "fee": "10.50", "date": "2024-02-30"}); errs != nil {
		t.Fatalf("expected success, got %+v", errs)
	}
	errs := schema.Validate(map[string]string{"amount": "1.2.3", "fee": "10.505", "date": "30/01/2024"})
	if errs == nil || len(errs.Fields) != 3 {
		t.Fatalf("expected three failures, got %+v", errs)
	}
	if errs.Fields["fee"] != "Fee must be a valid amount with up to 2 decimal places" {
		t.Fatalf("unexpected currency message %q", errs.Fields["fee"])
	}
	if errs.Fields["date"] != "Date must be a date in YYYY-MM-DD format" {
		t.Fatalf("unexpected date message %q", errs.Fields["date"])
	}
}

func TestLabelFallsBackToName(t *testing.T) {
	schema := Build([]FieldDescriptor{{VariableName: "client_name", IsRequired: true}})
	errs := schema.Validate(nil)
	if errs == nil || errs.Fields["client_name"] != "client_name is required" {
		t.Fatalf("unexpected result %+v", errs)
	}
	if got := schema.Fields(); len(got) != 1 || got[0] != "client_name" {
		t.Fatalf("unexpected fields %v", got)
	}
}

func TestErrorsAPIError(t *testing.T) {
	errs := &Errors{Fields: map[string]string{"b": "bad b", "a": "bad a"}}
	apiErr := errs.APIError()
	if apiErr.Code != api.CodeValidationError || apiErr.Status != 422 {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	issues, ok := apiErr.Details["fields"].([]api.FieldIssue)
	if !ok || len(issues) != 2 || issues[0].Field != "a" {
		t.Fatalf("unexpected details %+v", apiErr.Details)
	}
	if !strings.HasPrefix(errs.Error(), "validation failed: a: bad a") {
		t.Fatalf("unexpected Error(): %q", errs.Error())
	}
}

type registrationInput struct {
	NRIC   string `json:"nric"   validate:"required,sg_nric"`
	Phone  string `json:"phone"  validate:"required,sg_phone"`
	Postal string `json:"postal" validate:"required,sg_postal"`
	UEN    string `json:"uen"    validate:"omitempty,sg_uen"`
}

func TestStruct(t *testing.T) {
	if errs := Struct(registrationInput{NRIC: "S1234567A", Phone: "91234567", Postal: "018956"}); errs != nil {
		t.Fatalf("expected success, got %+v", errs)
	}
	errs := Struct(registrationInput{NRIC: "X1", Phone: "5", Postal: "1", UEN: "bad"})
	if errs == nil || len(errs.Fields) != 4 {
		t.Fatalf("expected four failures, got %+v", errs)
	}
	if errs.Fields["postal"] != "Please enter a valid 6-digit postal code" {
		t.Fatalf("unexpected postal message %q", errs.Fields["postal"])
	}
	if errs.Fields["nric"] != "Please enter a valid NRIC number" {
		t.Fatalf("unexpected nric message %q", errs.Fields["nric"])
	}
}
