package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogDiagnosticServerError(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	LogDiagnostic(ctx, "DATABASE_ERROR", 500, "Database operation failed", errors.New("PGRST116"))

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %s", entry.Level)
	}
	fields := entry.ContextMap()
	if fields["diagnostic.code"] != "DATABASE_ERROR" {
		t.Fatalf("unexpected code: %v", fields["diagnostic.code"])
	}
	if fields["diagnostic.status"] != int64(500) {
		t.Fatalf("unexpected status: %v", fields["diagnostic.status"])
	}
	if fields["diagnostic.cause_type"] != "*errors.errorString" {
		t.Fatalf("unexpected cause type: %v", fields["diagnostic.cause_type"])
	}
	if _, ok := fields["error"]; !ok {
		t.Fatal("expected error field")
	}
}

func TestLogDiagnosticClientErrorIsWarning(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	LogDiagnostic(ctx, "VALIDATION_ERROR", 400, "Invalid input", "bad email")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level, got %s", entries[0].Level)
	}
	if _, ok := entries[0].ContextMap()["error"]; ok {
		t.Fatal("did not expect error field for string cause")
	}
}

func TestLogDiagnosticNilCause(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	LogDiagnostic(ctx, "INTERNAL_SERVER_ERROR", 500, "An unexpected error occurred", nil)

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["diagnostic.cause_type"]; got != "<nil>" {
		t.Fatalf("expected <nil> cause type, got %v", got)
	}
}
