package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Custom tags registered on the shared validator.
const (
	TagPhone    = "sg_phone"
	TagNRIC     = "sg_nric"
	TagUEN      = "sg_uen"
	TagPostal   = "sg_postal"
	TagDecimal  = "decimal"
	TagCurrency = "currency"
	TagISODate  = "isodate"
)

var (
	decimalPattern  = regexp.MustCompile(`^\d+(\.\d+)?$`)
	currencyPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	isoDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var (
	sharedOnce     sync.Once
	sharedValidate *validator.Validate
)

// Validator returns the process-wide validator with the Singapore and numeric
// tags registered. Struct field names resolve to their JSON names.
func Validator() *validator.Validate {
	sharedOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		register(v, TagPhone, ValidPhone)
		register(v, TagNRIC, ValidNRIC)
		register(v, TagUEN, ValidUEN)
		register(v, TagPostal, ValidPostalCode)
		register(v, TagDecimal, decimalPattern.MatchString)
		register(v, TagCurrency, currencyPattern.MatchString)
		register(v, TagISODate, isoDatePattern.MatchString)
		sharedValidate = v
	})
	return sharedValidate
}

func register(v *validator.Validate, tag string, check func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return check(field.String())
	})
	if err != nil {
		panic("validation: register " + tag + ": " + err.Error())
	}
}

func jsonFieldName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return sf.Name
	}
	return name
}
