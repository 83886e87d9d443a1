package api

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/janisto/legalhelp-api/internal/platform/logging"
)

// ErrDatabase marks storage failures. Wrapped errors classify as DATABASE_ERROR.
var ErrDatabase = errors.New("database operation failed")

// ErrExternalService marks failures of downstream services. Wrapped errors
// classify as EXTERNAL_SERVICE_ERROR.
var ErrExternalService = errors.New("external service unavailable")

const (
	databaseMarker = "PGRST"
	fetchMarker    = "fetch"
)

// HandleError classifies any failure value into an error envelope and records a
// diagnostic. It never panics.
func HandleError(ctx context.Context, v any) (resp Response[any]) {
	defer func() {
		if r := recover(); r != nil {
			resp = Failure[any](NewCodeError(CodeInternalServerError, nil))
		}
	}()
	apiErr := Classify(v)
	logging.LogDiagnostic(ctx, string(apiErr.Code), apiErr.GetStatus(), apiErr.Message, v)
	return Failure[any](apiErr)
}

// Classify maps v onto the taxonomy without logging.
func Classify(v any) *APIError {
	switch x := v.(type) {
	case nil:
		return NewCodeError(CodeInternalServerError, nil)
	case string:
		if strings.Contains(x, fetchMarker) {
			return NewCodeError(CodeExternalServiceError, nil)
		}
		return NewAPIError(x, CodeInternalServerError, CodeInternalServerError.Status(), nil)
	case error:
		if isNilValue(x) {
			return NewCodeError(CodeInternalServerError, nil)
		}
		var existing *APIError
		if errors.As(x, &existing) && existing != nil {
			return existing
		}
		msg, ok := errorText(x)
		if !ok {
			return NewCodeError(CodeInternalServerError, nil)
		}
		switch {
		case errors.Is(x, ErrDatabase) || strings.Contains(msg, databaseMarker):
			return NewCodeError(CodeDatabaseError, nil)
		case errors.Is(x, ErrExternalService) || strings.Contains(msg, fetchMarker):
			return NewCodeError(CodeExternalServiceError, nil)
		}
		return NewAPIError(msg, CodeInternalServerError, CodeInternalServerError.Status(), nil)
	}
	return NewCodeError(CodeInternalServerError, nil)
}

// ErrorMessage extracts a displayable message from v. Values without one yield
// the generic internal server error message.
func ErrorMessage(v any) string {
	if msg, ok := messageOf(v); ok {
		return msg
	}
	return Message(CodeInternalServerError)
}

// IsAPIError reports whether v carries a string message: errors, maps with a
// string "message" key, and structs with a string Message field.
func IsAPIError(v any) bool {
	if _, ok := v.(string); ok {
		return false
	}
	_, ok := messageOf(v)
	return ok
}

func messageOf(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case error:
		if isNilValue(x) {
			return "", false
		}
		return errorText(x)
	case map[string]any:
		msg, ok := x["message"].(string)
		return msg, ok
	case map[string]string:
		msg, ok := x["message"]
		return msg, ok
	}
	return messageField(v)
}

// errorText calls Error, recovering from implementations that panic.
func errorText(err error) (msg string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			msg, ok = "", false
		}
	}()
	return err.Error(), true
}

func messageField(v any) (msg string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			msg, ok = "", false
		}
	}()
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return "", false
	}
	sf, ok := rv.Type().FieldByName("Message")
	if !ok || !sf.IsExported() || sf.Type.Kind() != reflect.String {
		return "", false
	}
	return rv.FieldByIndex(sf.Index).String(), true
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
