package audit

import (
	"context"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"fisioflow-service/internal/pkg/utils"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	auditUsecaseInstance contracts.AuditUsecase
	onceAuditUsecase     sync.Once
)

type auditUsecase struct {
	AuditRepository contracts.AuditRepository
	AuditQueue      contracts.AuditQueueService
	Storage         contracts.StorageService
	Clock           contracts.Clock
	Log             *zap.Logger
}

func NewAuditUsecase(
	auditRepository contracts.AuditRepository,
	auditQueue contracts.AuditQueueService,
	storageService contracts.StorageService,
	clock contracts.Clock,
	logger *zap.Logger,
) contracts.AuditUsecase {
	onceAuditUsecase.Do(func() {
		auditUsecaseInstance = &auditUsecase{
			AuditRepository: auditRepository,
			AuditQueue:      auditQueue,
			Storage:         storageService,
			Clock:           clock,
			Log:             logger,
		}
	})
	return auditUsecaseInstance
}

func isSensitiveKey(key string) bool {
	lowered := strings.ToLower(key)
	for _, sensitive := range constvars.AuditSensitiveKeys {
		if strings.Contains(lowered, sensitive) {
			return true
		}
	}
	return false
}

func truncateString(value string) string {
	if len(value) <= constvars.AuditMaxStringLength {
		return value
	}
	// Cut on a rune boundary; a mid-rune slice is invalid UTF-8 and the
	// BSON encoder would reject the whole document.
	cut := constvars.AuditMaxStringLength
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut] + constvars.AuditTruncatedSuffix
}

// redactValue applies truncation to strings and recurses into nested maps
// and slices. The sensitive-key check happens at the enclosing map level.
func redactValue(value interface{}) interface{} {
	switch typed := value.(type) {
	case string:
		return truncateString(typed)
	case map[string]interface{}:
		return redactMap(typed)
	case []interface{}:
		redacted := make([]interface{}, len(typed))
		for i, item := range typed {
			redacted[i] = redactValue(item)
		}
		return redacted
	default:
		return value
	}
}

func redactMap(values map[string]interface{}) map[string]interface{} {
	if values == nil {
		return nil
	}
	redacted := make(map[string]interface{}, len(values))
	for key, value := range values {
		if isSensitiveKey(key) {
			redacted[key] = constvars.AuditRedactedMarker
			continue
		}
		redacted[key] = redactValue(value)
	}
	return redacted
}

func retentionPeriodDays(entry *contracts.AuditEntry) int {
	switch {
	case entry.IsLGPDRelevant || entry.IsSecurityEvent:
		return constvars.RetentionDaysLGPDOrSecurity
	case entry.Severity == models.AuditSeverityCritical:
		return constvars.RetentionDaysCritical
	case entry.Severity == models.AuditSeverityHigh:
		return constvars.RetentionDaysHigh
	case entry.ActionType == models.AuditActionLogin ||
		entry.ActionType == models.AuditActionLogout ||
		entry.ActionType == models.AuditActionAccessGranted:
		return constvars.RetentionDaysAuthActions
	default:
		return constvars.RetentionDaysDefault
	}
}

func (uc *auditUsecase) buildLog(entry *contracts.AuditEntry, now time.Time) *models.AuditLog {
	severity := entry.Severity
	if !severity.IsValid() {
		severity = models.AuditSeverityLow
	}
	entry.Severity = severity

	retentionDays := retentionPeriodDays(entry)
	deleteDate := now.AddDate(0, 0, retentionDays)
	archiveDate := deleteDate.AddDate(0, 0, -constvars.AuditArchiveLeadDays)

	return &models.AuditLog{
		ActionType:          entry.ActionType,
		Description:         truncateString(entry.Description),
		EntityType:          entry.EntityType,
		EntityID:            entry.EntityID,
		Actor:               entry.Actor,
		RequestID:           entry.RequestID,
		IPAddress:           entry.IPAddress,
		UserAgent:           entry.UserAgent,
		HTTPMethod:          entry.HTTPMethod,
		Endpoint:            entry.Endpoint,
		StatusCode:          entry.StatusCode,
		DurationMS:          entry.DurationMS,
		OldValues:           redactMap(entry.OldValues),
		NewValues:           redactMap(entry.NewValues),
		Severity:            severity,
		IsSensitive:         entry.IsSensitive,
		IsLGPDRelevant:      entry.IsLGPDRelevant,
		IsSecurityEvent:     entry.IsSecurityEvent,
		RetentionPeriodDays: retentionDays,
		ArchiveDate:         archiveDate,
		DeleteDate:          deleteDate,
		IsArchived:          false,
		Timestamp:           now,
	}
}

// Record persists the entry. A store failure never propagates as a hard
// failure to the caller's primary operation; the log is routed to the
// failure queue for replay and the error is returned for observability only.
func (uc *auditUsecase) Record(ctx context.Context, entry *contracts.AuditEntry) (*models.AuditLog, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("auditUsecase.Record called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingActionTypeKey, string(entry.ActionType)),
		zap.String(constvars.LoggingActorIDKey, entry.Actor.UserID),
	)

	auditLog := uc.buildLog(entry, uc.Clock.Now())

	inserted, err := uc.AuditRepository.Insert(ctx, auditLog)
	if err != nil {
		uc.Log.Error("auditUsecase.Record error inserting audit log, routing to failure queue",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		uc.routeToFailureQueue(ctx, auditLog, requestID)
		utils.RaiseAuditWarning(ctx, constvars.AuditDeferredWarningMessage)
		return auditLog, err
	}

	uc.Log.Info("auditUsecase.Record completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAuditLogIDKey, inserted.ID.Hex()),
	)
	return inserted, nil
}

func (uc *auditUsecase) routeToFailureQueue(ctx context.Context, auditLog *models.AuditLog, requestID string) {
	if publishErr := uc.AuditQueue.PublishFailedAudit(ctx, auditLog); publishErr != nil {
		uc.Log.Error("auditUsecase.Record error publishing failed audit log",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(publishErr),
		)
		return
	}

	// Follow-up entry recording that the store was unreachable. Best effort;
	// if this insert fails too there is nothing further to do.
	followUp := uc.buildLog(&contracts.AuditEntry{
		ActionType:      models.AuditActionOther,
		Description:     "audit store unavailable, entry routed to failure queue",
		EntityType:      "audit_log",
		Actor:           auditLog.Actor,
		RequestID:       requestID,
		Severity:        models.AuditSeverityHigh,
		IsSecurityEvent: false,
	}, uc.Clock.Now())
	if _, followUpErr := uc.AuditRepository.Insert(ctx, followUp); followUpErr != nil {
		uc.Log.Error("auditUsecase.Record follow-up entry also failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(followUpErr),
		)
	}
}

// Replay re-inserts a queued entry. Used by the failure queue consumer.
func (uc *auditUsecase) Replay(ctx context.Context, auditLog *models.AuditLog) error {
	_, err := uc.AuditRepository.Insert(ctx, auditLog)
	return err
}

func (uc *auditUsecase) List(ctx context.Context, filter *contracts.AuditListFilter) ([]models.AuditLog, int64, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("auditUsecase.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	logs, err := uc.AuditRepository.List(ctx, filter)
	if err != nil {
		uc.Log.Error("auditUsecase.List error calling AuditRepository.List",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, 0, err
	}

	total, err := uc.AuditRepository.Count(ctx, filter)
	if err != nil {
		uc.Log.Error("auditUsecase.List error calling AuditRepository.Count",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, 0, err
	}

	uc.Log.Info("auditUsecase.List completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(logs)),
	)
	return logs, total, nil
}

func (uc *auditUsecase) Statistics(ctx context.Context, start, end *time.Time) (*models.AuditStatistics, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("auditUsecase.Statistics called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	statistics, err := uc.AuditRepository.Statistics(ctx, start, end)
	if err != nil {
		uc.Log.Error("auditUsecase.Statistics error calling AuditRepository.Statistics",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("auditUsecase.Statistics completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return statistics, nil
}

// ArchiveOldLogs exports every due batch to cold storage as one JSON object,
// then flips is_archived. The export happens before the flag flip so a crash
// between the two re-exports rather than losing data.
func (uc *auditUsecase) ArchiveOldLogs(ctx context.Context) (int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("auditUsecase.ArchiveOldLogs called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	now := uc.Clock.Now()
	dueLogs, err := uc.AuditRepository.FindDueForArchive(ctx, now)
	if err != nil {
		uc.Log.Error("auditUsecase.ArchiveOldLogs error finding due logs",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, err
	}
	if len(dueLogs) == 0 {
		return 0, nil
	}

	payload, err := json.Marshal(dueLogs)
	if err != nil {
		return 0, err
	}
	objectName := fmt.Sprintf(constvars.AuditArchiveObjectFormat, now.Format("2006-01-02"))
	if err := uc.Storage.PutObject(ctx, objectName, payload, constvars.MIMEApplicationJSON); err != nil {
		uc.Log.Error("auditUsecase.ArchiveOldLogs error exporting archive batch",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectNameKey, objectName),
			zap.Error(err),
		)
		return 0, err
	}

	objectIDs := make([]primitive.ObjectID, 0, len(dueLogs))
	for _, due := range dueLogs {
		objectIDs = append(objectIDs, due.ID)
	}
	archived, err := uc.AuditRepository.MarkArchived(ctx, objectIDs)
	if err != nil {
		uc.Log.Error("auditUsecase.ArchiveOldLogs error marking logs archived",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, err
	}

	uc.Log.Info("auditUsecase.ArchiveOldLogs completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingCountKey, archived),
	)
	return int(archived), nil
}

func (uc *auditUsecase) CleanupExpiredLogs(ctx context.Context) (int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("auditUsecase.CleanupExpiredLogs called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	deleted, err := uc.AuditRepository.DeleteExpired(ctx, uc.Clock.Now())
	if err != nil {
		uc.Log.Error("auditUsecase.CleanupExpiredLogs error deleting expired logs",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, err
	}

	uc.Log.Info("auditUsecase.CleanupExpiredLogs completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingCountKey, deleted),
	)
	return int(deleted), nil
}
