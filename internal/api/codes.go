package api

import "net/http"

// Code identifies a class of failure. The set is closed; every Code has exactly
// one user-facing message.
type Code string

const (
	CodeUnauthorized             Code = "UNAUTHORIZED"
	CodeForbidden                Code = "FORBIDDEN"
	CodeTokenExpired             Code = "TOKEN_EXPIRED"
	CodeValidationError          Code = "VALIDATION_ERROR"
	CodeInvalidInput             Code = "INVALID_INPUT"
	CodeMissingRequiredField     Code = "MISSING_REQUIRED_FIELD"
	CodeTemplateNotFound         Code = "TEMPLATE_NOT_FOUND"
	CodeInsufficientPermissions  Code = "INSUFFICIENT_PERMISSIONS"
	CodeSubscriptionRequired     Code = "SUBSCRIPTION_REQUIRED"
	CodeInternalServerError      Code = "INTERNAL_SERVER_ERROR"
	CodeDatabaseError            Code = "DATABASE_ERROR"
	CodeExternalServiceError     Code = "EXTERNAL_SERVICE_ERROR"
	CodeDocumentGenerationFailed Code = "DOCUMENT_GENERATION_FAILED"
	CodeTemplateProcessingError  Code = "TEMPLATE_PROCESSING_ERROR"
	CodeInvalidTemplateFormat    Code = "INVALID_TEMPLATE_FORMAT"
)

type codeInfo struct {
	message string
	status  int
}

var codeTable = map[Code]codeInfo{
	CodeUnauthorized:             {"You must be logged in to access this resource", http.StatusUnauthorized},
	CodeForbidden:                {"You do not have permission to access this resource", http.StatusForbidden},
	CodeTokenExpired:             {"Your session has expired. Please log in again", http.StatusUnauthorized},
	CodeValidationError:          {"The provided data is invalid", http.StatusBadRequest},
	CodeInvalidInput:             {"Invalid input provided", http.StatusBadRequest},
	CodeMissingRequiredField:     {"Required field is missing", http.StatusBadRequest},
	CodeTemplateNotFound:         {"Template not found", http.StatusNotFound},
	CodeInsufficientPermissions:  {"Insufficient permissions for this operation", http.StatusForbidden},
	CodeSubscriptionRequired:     {"This feature requires an active subscription", http.StatusPaymentRequired},
	CodeInternalServerError:      {"An unexpected error occurred. Please try again later", http.StatusInternalServerError},
	CodeDatabaseError:            {"Database operation failed", http.StatusInternalServerError},
	CodeExternalServiceError:     {"External service is temporarily unavailable", http.StatusServiceUnavailable},
	CodeDocumentGenerationFailed: {"Failed to generate document", http.StatusInternalServerError},
	CodeTemplateProcessingError:  {"Error processing template", http.StatusInternalServerError},
	CodeInvalidTemplateFormat:    {"Invalid template format", http.StatusBadRequest},
}

var allCodes = []Code{
	CodeUnauthorized,
	CodeForbidden,
	CodeTokenExpired,
	CodeValidationError,
	CodeInvalidInput,
	CodeMissingRequiredField,
	CodeTemplateNotFound,
	CodeInsufficientPermissions,
	CodeSubscriptionRequired,
	CodeInternalServerError,
	CodeDatabaseError,
	CodeExternalServiceError,
	CodeDocumentGenerationFailed,
	CodeTemplateProcessingError,
	CodeInvalidTemplateFormat,
}

// Codes returns every error code in declaration order.
func Codes() []Code {
	out := make([]Code, len(allCodes))
	copy(out, allCodes)
	return out
}

// Message returns the user-facing message for c. Unknown codes get the
// internal server error message.
func Message(c Code) string {
	if info, ok := codeTable[c]; ok {
		return info.message
	}
	return codeTable[CodeInternalServerError].message
}

// Status returns the HTTP status used when rendering c.
func (c Code) Status() int {
	if info, ok := codeTable[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Valid reports whether c belongs to the taxonomy.
func (c Code) Valid() bool {
	_, ok := codeTable[c]
	return ok
}
