package utils

import (
	"context"
	"fisioflow-service/internal/pkg/constvars"
)

// AuditWarning is a per-request flag the audit recorder raises when the trail
// could not be written synchronously. The primary operation still succeeds;
// the transport surfaces the warning alongside the result.
type AuditWarning struct {
	Message string
}

func ContextWithAuditWarning(ctx context.Context) (context.Context, *AuditWarning) {
	warning := &AuditWarning{}
	return context.WithValue(ctx, constvars.CONTEXT_AUDIT_WARNING_KEY, warning), warning
}

func RaiseAuditWarning(ctx context.Context, message string) {
	if warning, ok := ctx.Value(constvars.CONTEXT_AUDIT_WARNING_KEY).(*AuditWarning); ok {
		warning.Message = message
	}
}
