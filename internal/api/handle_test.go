package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/janisto/legalhelp-api/internal/platform/logging"
)

type panicError struct{}

func (panicError) Error() string { panic("boom") }

type withMessage struct {
	Message string
}

type withNumericMessage struct {
	Message int
}

func observedContext() (context.Context, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return logging.ContextWithLogger(context.Background(), zap.New(core)), recorded
}

func TestHandleErrorClassification(t *testing.T) {
	generic := Message(CodeInternalServerError)
	cases := []struct {
		name    string
		input   any
		code    Code
		status  int
		message string
	}{
		{"postgrest", errors.New("PGRST116: no rows"), CodeDatabaseError, 500, Message(CodeDatabaseError)},
		{"wrapped database", fmt.Errorf("load: %w", ErrDatabase), CodeDatabaseError, 500, Message(CodeDatabaseError)},
		{"fetch error", errors.New("failed to fetch"), CodeExternalServiceError, 503, Message(CodeExternalServiceError)},
		{"fetch string", "fetch timed out", CodeExternalServiceError, 503, Message(CodeExternalServiceError)},
		{"wrapped external", fmt.Errorf("call: %w", ErrExternalService), CodeExternalServiceError, 503, Message(CodeExternalServiceError)},
		{"plain error", errors.New("boom"), CodeInternalServerError, 500, "boom"},
		{"string", "something broke", CodeInternalServerError, 500, "something broke"},
		{"nil", nil, CodeInternalServerError, 500, generic},
		{"map", map[string]any{"message": "x"}, CodeInternalServerError, 500, generic},
		{"slice", []int{1, 2}, CodeInternalServerError, 500, generic},
		{"number", 42, CodeInternalServerError, 500, generic},
		{"struct", withMessage{Message: "x"}, CodeInternalServerError, 500, generic},
		{"panicking error", panicError{}, CodeInternalServerError, 500, generic},
		{"typed nil", (*APIError)(nil), CodeInternalServerError, 500, generic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, recorded := observedContext()
			resp := HandleError(ctx, tc.input)
			if resp.Success || resp.Data != nil || resp.Error == nil {
				t.Fatalf("malformed envelope %+v", resp)
			}
			if resp.Error.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, resp.Error.Code)
			}
			if resp.Error.Status != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Error.Status)
			}
			if resp.Error.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, resp.Error.Message)
			}
			if tc.name != "panicking error" && recorded.Len() != 1 {
				t.Fatalf("expected 1 diagnostic record, got %d", recorded.Len())
			}
		})
	}
}

func TestHandleErrorPassesAPIErrorThrough(t *testing.T) {
	ctx, recorded := observedContext()
	original := NewCodeError(CodeTokenExpired, map[string]any{"reason": "exp"})
	resp := HandleError(ctx, fmt.Errorf("auth: %w", original))
	if resp.Error != original {
		t.Fatalf("expected original APIError, got %+v", resp.Error)
	}
	entries := recorded.All()
	if len(entries) != 1 || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected one warn diagnostic, got %+v", entries)
	}
	if entries[0].ContextMap()["diagnostic.code"] != string(CodeTokenExpired) {
		t.Fatalf("unexpected diagnostic code %v", entries[0].ContextMap()["diagnostic.code"])
	}
}

func TestErrorMessage(t *testing.T) {
	generic := Message(CodeInternalServerError)
	cases := []struct {
		name  string
		input any
		want  string
	}{
		{"string", "plain", "plain"},
		{"error", errors.New("boom"), "boom"},
		{"map", map[string]any{"message": "from map"}, "from map"},
		{"map non-string", map[string]any{"message": 1}, generic},
		{"struct", withMessage{Message: "from struct"}, "from struct"},
		{"pointer struct", &withMessage{Message: "from pointer"}, "from pointer"},
		{"numeric message", withNumericMessage{Message: 1}, generic},
		{"nil", nil, generic},
		{"nil pointer", (*withMessage)(nil), generic},
		{"int", 7, generic},
		{"panicking error", panicError{}, generic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ErrorMessage(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestIsAPIError(t *testing.T) {
	trueCases := []any{
		map[string]any{"message": "x"},
		map[string]string{"message": "x"},
		errors.New("x"),
		NewCodeError(CodeForbidden, nil),
		withMessage{Message: "x"},
		&withMessage{},
	}
	for i, v := range trueCases {
		if !IsAPIError(v) {
			t.Errorf("case %d: expected true for %#v", i, v)
		}
	}
	falseCases := []any{
		nil,
		"x",
		42,
		true,
		map[string]any{"msg": "x"},
		map[string]any{"message": 3},
		withNumericMessage{Message: 1},
		(*withMessage)(nil),
		(*APIError)(nil),
	}
	for i, v := range falseCases {
		if IsAPIError(v) {
			t.Errorf("case %d: expected false for %#v", i, v)
		}
	}
}
