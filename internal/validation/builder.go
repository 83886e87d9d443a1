package validation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/janisto/legalhelp-api/internal/api"
	"github.com/janisto/legalhelp-api/internal/platform/logging"
)

// FieldType selects the base rule for a field.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeTextarea FieldType = "textarea"
	TypeEmail    FieldType = "email"
	TypeDate     FieldType = "date"
	TypeSelect   FieldType = "select"
	TypeNumber   FieldType = "number"
	TypePhone    FieldType = "phone"
	TypeNRIC     FieldType = "nric"
	TypeUEN      FieldType = "uen"
	TypeCurrency FieldType = "currency"
)

// TextareaMaxLength caps textarea input.
const TextareaMaxLength = 2000

// FieldDescriptor describes one form field. It is read-only to the builder.
type FieldDescriptor struct {
	VariableName      string    `json:"variable_name"                minLength:"1" maxLength:"100" doc:"Key of the field in a submission"`
	DisplayLabel      string    `json:"display_label"                maxLength:"200"                doc:"Label used in messages"`
	VariableType      FieldType `json:"variable_type"                enum:"text,textarea,email,date,select,number,phone,nric,uen,currency"`
	IsRequired        bool      `json:"is_required"                  doc:"Whether the field must be present and non-empty"`
	MinLength         *int      `json:"min_length,omitempty"         minimum:"0"`
	MaxLength         *int      `json:"max_length,omitempty"         minimum:"0"`
	ValidationPattern string    `json:"validation_pattern,omitempty" doc:"Regular expression replacing the type rule"`
	ValidationMessage string    `json:"validation_message,omitempty" doc:"Message used when the pattern does not match"`
	SelectOptions     []string  `json:"select_options,omitempty"     doc:"Allowed values for select fields"`
}

type fieldRule struct {
	name     string
	label    string
	required bool
	// tag is a validator tag chain; empty means free text.
	tag string
	// options, when non-nil, is a closed set the value must belong to.
	options []string
	pattern *regexp.Regexp
	message string
}

// Schema validates a whole submission against a descriptor list.
type Schema struct {
	rules []fieldRule
}

// Build assembles a Schema from descriptors.
func Build(descriptors []FieldDescriptor) *Schema {
	return BuildContext(context.Background(), descriptors)
}

// BuildContext is Build with a request-scoped logger for pattern warnings.
func BuildContext(ctx context.Context, descriptors []FieldDescriptor) *Schema {
	s := &Schema{rules: make([]fieldRule, 0, len(descriptors))}
	for _, d := range descriptors {
		s.rules = append(s.rules, buildRule(ctx, d))
	}
	return s
}

func buildRule(ctx context.Context, d FieldDescriptor) fieldRule {
	label := d.DisplayLabel
	if label == "" {
		label = d.VariableName
	}
	r := fieldRule{name: d.VariableName, label: label, required: d.IsRequired}

	var tags []string
	lengthLimited := false
	switch d.VariableType {
	case TypeEmail:
		tags = append(tags, "email")
		lengthLimited = true
	case TypePhone:
		tags = append(tags, TagPhone)
	case TypeNRIC:
		tags = append(tags, TagNRIC)
	case TypeUEN:
		tags = append(tags, TagUEN)
	case TypeNumber:
		tags = append(tags, TagDecimal)
	case TypeCurrency:
		tags = append(tags, TagCurrency)
	case TypeDate:
		tags = append(tags, TagISODate)
	case TypeSelect:
		if len(d.SelectOptions) > 0 {
			r.options = append([]string(nil), d.SelectOptions...)
		} else {
			lengthLimited = true
		}
	case TypeTextarea:
		maxLen := TextareaMaxLength
		if d.MaxLength != nil && *d.MaxLength < maxLen {
			maxLen = *d.MaxLength
		}
		tags = append(tags, "max="+strconv.Itoa(maxLen))
		if d.MinLength != nil {
			tags = append(tags, "min="+strconv.Itoa(*d.MinLength))
		}
	default:
		lengthLimited = true
	}
	if lengthLimited {
		if d.MinLength != nil {
			tags = append(tags, "min="+strconv.Itoa(*d.MinLength))
		}
		if d.MaxLength != nil {
			tags = append(tags, "max="+strconv.Itoa(*d.MaxLength))
		}
	}
	r.tag = strings.Join(tags, ",")

	if d.ValidationPattern != "" {
		re, err := regexp.Compile(d.ValidationPattern)
		if err != nil {
			logging.LogWarn(ctx, "invalid validation pattern ignored",
				zap.String("field", d.VariableName),
				zap.String("pattern", d.ValidationPattern),
				zap.Error(err),
			)
			return r
		}
		r.pattern = re
		r.message = d.ValidationMessage
		if r.message == "" {
			r.message = label + " format is invalid"
		}
	}
	return r
}

// Fields returns the field names in descriptor order.
func (s *Schema) Fields() []string {
	out := make([]string, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.name
	}
	return out
}

// Validate checks every field of values and returns nil when all pass.
// Keys without a descriptor are ignored.
func (s *Schema) Validate(values map[string]string) *Errors {
	var errs *Errors
	for _, r := range s.rules {
		if msg := r.check(values); msg != "" {
			if errs == nil {
				errs = &Errors{Fields: make(map[string]string)}
			}
			errs.Fields[r.name] = msg
		}
	}
	return errs
}

func (r fieldRule) check(values map[string]string) string {
	value, ok := values[r.name]
	if !ok || value == "" {
		if r.required {
			return r.label + " is required"
		}
		return ""
	}
	if r.pattern != nil {
		if r.pattern.MatchString(value) {
			return ""
		}
		return r.message
	}
	if r.options != nil {
		for _, opt := range r.options {
			if value == opt {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", r.label, strings.Join(r.options, ", "))
	}
	if r.tag == "" {
		return ""
	}
	err := Validator().Var(value, r.tag)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return tagMessage(r.label, verrs[0].Tag(), verrs[0].Param())
	}
	return r.label + " is invalid"
}

func tagMessage(label, tag, param string) string {
	switch tag {
	case "required", "required_if":
		return label + " is required"
	case "email":
		return "Please enter a valid email address"
	case TagPhone:
		return "Please enter a valid Singapore phone number"
	case TagNRIC:
		return "Please enter a valid NRIC number"
	case TagUEN:
		return "Please enter a valid UEN"
	case TagPostal:
		return "Please enter a valid 6-digit postal code"
	case TagDecimal:
		return label + " must be a valid number"
	case TagCurrency:
		return label + " must be a valid amount with up to 2 decimal places"
	case TagISODate:
		return label + " must be a date in YYYY-MM-DD format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "eq":
		return fmt.Sprintf("%s must be %s", label, param)
	}
	return label + " is invalid"
}

// Errors maps field names to their first failure message.
type Errors struct {
	Fields map[string]string
}

// Error implements error.
func (e *Errors) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	issues := e.Issues()
	parts := make([]string, len(issues))
	for i, is := range issues {
		parts[i] = is.Field + ": " + is.Issue
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Issues returns the failures sorted by field name.
func (e *Errors) Issues() []api.FieldIssue {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]api.FieldIssue, len(names))
	for i, name := range names {
		out[i] = api.FieldIssue{Field: name, Issue: e.Fields[name]}
	}
	return out
}

// APIError converts the failures into a 422 VALIDATION_ERROR carrying field issues.
func (e *Errors) APIError() *api.APIError {
	return api.NewAPIError(
		api.Message(api.CodeValidationError),
		api.CodeValidationError,
		http.StatusUnprocessableEntity,
		map[string]any{"fields": e.Issues()},
	)
}

// Struct validates a tagged struct with the shared validator and reports
// failures keyed by JSON field name.
func Struct(v any) *Errors {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Errors{Fields: map[string]string{"": err.Error()}}
	}
	out := &Errors{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		if _, exists := out.Fields[fe.Field()]; exists {
			continue
		}
		out.Fields[fe.Field()] = tagMessage(fe.Field(), fe.Tag(), fe.Param())
	}
	return out
}

