package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LogDiagnostic records a failure after it has been classified into an error code.
// 5xx statuses log at error level; everything else logs as a warning.
func LogDiagnostic(ctx context.Context, code string, status int, message string, cause any) {
	fields := []zap.Field{
		zap.String("diagnostic.code", code),
		zap.Int("diagnostic.status", status),
		zap.String("diagnostic.message", message),
		zap.String("diagnostic.cause_type", fmt.Sprintf("%T", cause)),
	}
	if err, ok := cause.(error); ok && err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger := LoggerFromContext(ctx)
	if status >= 500 {
		logger.Error("api error handled", fields...)
		return
	}
	logger.Warn("api error handled", fields...)
}
