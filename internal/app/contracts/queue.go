package contracts

import (
	"context"
	"fisioflow-service/internal/app/models"
)

// AuditQueueService is the failure sink for audit records that could not be
// persisted. Publishing is best-effort durable (publisher confirms); a replay
// worker drains the queue back into the audit store.
type AuditQueueService interface {
	PublishFailedAudit(ctx context.Context, log *models.AuditLog) error
	ConsumeFailedAudits(ctx context.Context, handler func(ctx context.Context, log *models.AuditLog) error) error
	Close() error
}
