package logging

import (
	"context"

	"go.uber.org/zap"
)

// AuditEvent records a change to a user-owned resource.
type AuditEvent struct {
	Action     string
	UserID     string
	Resource   string
	ResourceID string
	// Reason is the audit-safe failure category; empty means success.
	Reason  string
	Details map[string]any
}

// LogAudit writes ev at info level on success and as a warning on failure.
func LogAudit(ctx context.Context, ev AuditEvent) {
	outcome := "success"
	if ev.Reason != "" {
		outcome = "failure"
	}
	fields := []zap.Field{
		zap.String("audit.action", ev.Action),
		zap.String("audit.user_id", ev.UserID),
		zap.String("audit.resource", ev.Resource),
		zap.String("audit.resource_id", ev.ResourceID),
		zap.String("audit.outcome", outcome),
	}
	if ev.Reason != "" {
		fields = append(fields, zap.String("audit.reason", ev.Reason))
	}
	if len(ev.Details) > 0 {
		fields = append(fields, zap.Any("audit.details", ev.Details))
	}
	logger := LoggerFromContext(ctx)
	if ev.Reason != "" {
		logger.Warn("audit", fields...)
		return
	}
	logger.Info("audit", fields...)
}
