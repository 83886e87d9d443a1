package tracker

import "context"

// LogAPIError reports a failed call to endpoint.
func (t *Tracker) LogAPIError(ctx context.Context, err any, endpoint string, metadata map[string]any) {
	t.LogError(ctx, err, "API call to "+endpoint, metadata, SeverityHigh, CategoryAPI)
}

// LogDatabaseError reports a failed storage operation.
func (t *Tracker) LogDatabaseError(ctx context.Context, err any, operation string, metadata map[string]any) {
	t.LogError(ctx, err, "Database operation: "+operation, metadata, SeverityHigh, CategoryDatabase)
}

// LogAuthError reports an authentication failure during action.
func (t *Tracker) LogAuthError(ctx context.Context, err any, action string) {
	t.LogError(ctx, err, "Authentication action: "+action, nil, SeverityHigh, CategoryAuth)
}

// LogPaymentError reports a payment failure. Delivery is immediate.
func (t *Tracker) LogPaymentError(ctx context.Context, err any, metadata map[string]any) {
	t.LogError(ctx, err, "Payment processing", metadata, SeverityCritical, CategoryPayment)
}

// LogPerformanceError reports a slow or degraded operation.
func (t *Tracker) LogPerformanceError(ctx context.Context, message string, metadata map[string]any) {
	t.LogError(ctx, message, "Performance issue", metadata, SeverityMedium, CategoryPerformance)
}

// LogSecurityError reports a security event. Delivery is immediate.
func (t *Tracker) LogSecurityError(ctx context.Context, err any, metadata map[string]any) {
	t.LogError(ctx, err, "Security issue", metadata, SeverityCritical, CategorySecurity)
}
