package contracts

import (
	"context"
	"fisioflow-service/internal/app/models"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditEntry is the raw input handed to the recorder before redaction and
// retention assignment.
type AuditEntry struct {
	ActionType      models.AuditActionType
	Description     string
	EntityType      string
	EntityID        string
	Actor           models.AuditActor
	RequestID       string
	IPAddress       string
	UserAgent       string
	HTTPMethod      string
	Endpoint        string
	StatusCode      int
	DurationMS      int64
	OldValues       map[string]interface{}
	NewValues       map[string]interface{}
	Severity        models.AuditSeverity
	IsSensitive     bool
	IsLGPDRelevant  bool
	IsSecurityEvent bool
}

// AuditListFilter narrows List queries; zero values mean "any".
type AuditListFilter struct {
	ActionType models.AuditActionType
	EntityType string
	UserID     string
	Start      *time.Time
	End        *time.Time
	Limit      int64
	Offset     int64
}

// AuditUsecase is the audit recorder port. Record never returns an error to
// abort a caller's primary mutation; persistence failures are routed to the
// failure sink and surfaced only through the returned error for observability.
type AuditUsecase interface {
	Record(ctx context.Context, entry *AuditEntry) (*models.AuditLog, error)
	Replay(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, filter *AuditListFilter) ([]models.AuditLog, int64, error)
	Statistics(ctx context.Context, start, end *time.Time) (*models.AuditStatistics, error)
	ArchiveOldLogs(ctx context.Context) (int, error)
	CleanupExpiredLogs(ctx context.Context) (int, error)
}

type AuditRepository interface {
	Insert(ctx context.Context, log *models.AuditLog) (*models.AuditLog, error)
	List(ctx context.Context, filter *AuditListFilter) ([]models.AuditLog, error)
	Count(ctx context.Context, filter *AuditListFilter) (int64, error)
	FindDueForArchive(ctx context.Context, now time.Time) ([]models.AuditLog, error)
	MarkArchived(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Statistics(ctx context.Context, start, end *time.Time) (*models.AuditStatistics, error)
}
