package api

import (
	"errors"
	"maps"
	"net/http"
	"time"

	"github.com/janisto/legalhelp-api/internal/platform/timeutil"
)

// ErrRequestFailed is returned by Unwrap when a failed response carries no error message.
var ErrRequestFailed = errors.New("request failed")

// APIError is a structured failure. It is built once and never mutated.
type APIError struct {
	Message   string         `json:"message"             doc:"User-facing error message"      example:"Database operation failed"`
	Code      Code           `json:"code,omitempty"      doc:"Machine-readable error code"    example:"DATABASE_ERROR"`
	Status    int            `json:"status,omitempty"    doc:"HTTP status for the failure"    example:"500"`
	Details   map[string]any `json:"details,omitempty"   doc:"Additional structured context"`
	Timestamp timeutil.Time  `json:"timestamp"           doc:"When the error was created"     example:"2024-01-15T10:30:00.000Z"`
}

// NewAPIError stamps the current time on a new APIError. An empty code or a
// zero status leaves the field unset. Details are copied.
func NewAPIError(message string, code Code, status int, details map[string]any) *APIError {
	var cloned map[string]any
	if len(details) > 0 {
		cloned = maps.Clone(details)
	}
	return &APIError{
		Message:   message,
		Code:      code,
		Status:    status,
		Details:   cloned,
		Timestamp: timeutil.NewTime(time.Now().UTC()),
	}
}

// NewCodeError builds an APIError carrying the taxonomy message and status for code.
func NewCodeError(code Code, details map[string]any) *APIError {
	return NewAPIError(Message(code), code, code.Status(), details)
}

// Error implements error.
func (e *APIError) Error() string {
	if e == nil {
		return Message(CodeInternalServerError)
	}
	return e.Message
}

// GetStatus implements huma.StatusError. Missing statuses render as 500.
func (e *APIError) GetStatus() int {
	if e == nil || e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// FieldIssue gives field-level or contextual error information.
type FieldIssue struct {
	Field string `json:"field,omitempty"`
	Issue string `json:"issue"`
}

// Response is the envelope returned by every operation in the service.
// Success=false carries Error and no Data; Success=true carries no Error.
type Response[T any] struct {
	Success bool      `json:"success"           doc:"Whether the operation succeeded"`
	Data    *T        `json:"data,omitempty"    doc:"Payload on success"`
	Error   *APIError `json:"error,omitempty"   doc:"Failure details"`
	Message string    `json:"message,omitempty" doc:"Optional informational message"`
}

// NewResponse constructs an envelope as given. The success/error invariant is
// the caller's responsibility; use Success or Failure to get it for free.
func NewResponse[T any](success bool, data *T, err *APIError, message string) Response[T] {
	return Response[T]{
		Success: success,
		Data:    data,
		Error:   err,
		Message: message,
	}
}

// Success wraps data in a successful envelope.
func Success[T any](data T) Response[T] {
	d := data
	return NewResponse(true, &d, nil, "")
}

// Failure wraps err in a failed envelope without data.
func Failure[T any](err *APIError) Response[T] {
	if err == nil {
		err = NewCodeError(CodeInternalServerError, nil)
	}
	return NewResponse[T](false, nil, err, "")
}

// Unwrap returns the payload of a successful envelope. Failed envelopes and
// envelopes without data return the carried APIError, or ErrRequestFailed.
func Unwrap[T any](resp Response[T]) (T, error) {
	var zero T
	if !resp.Success || resp.Data == nil {
		if resp.Error != nil && resp.Error.Message != "" {
			return zero, resp.Error
		}
		return zero, ErrRequestFailed
	}
	return *resp.Data, nil
}
