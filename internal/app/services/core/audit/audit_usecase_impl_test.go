package audit

import (
	"context"
	"errors"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"fisioflow-service/internal/pkg/utils"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type memoryAuditRepo struct {
	inserted   []models.AuditLog
	insertErr  error
	dueLogs    []models.AuditLog
	archived   []primitive.ObjectID
	deleted    int64
	listResult []models.AuditLog
	listTotal  int64
}

func (r *memoryAuditRepo) Insert(ctx context.Context, log *models.AuditLog) (*models.AuditLog, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	stored := *log
	stored.ID = primitive.NewObjectID()
	r.inserted = append(r.inserted, stored)
	result := stored
	return &result, nil
}

func (r *memoryAuditRepo) List(ctx context.Context, filter *contracts.AuditListFilter) ([]models.AuditLog, error) {
	return r.listResult, nil
}

func (r *memoryAuditRepo) Count(ctx context.Context, filter *contracts.AuditListFilter) (int64, error) {
	return r.listTotal, nil
}

func (r *memoryAuditRepo) FindDueForArchive(ctx context.Context, now time.Time) ([]models.AuditLog, error) {
	return r.dueLogs, nil
}

func (r *memoryAuditRepo) MarkArchived(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	r.archived = append(r.archived, ids...)
	return int64(len(ids)), nil
}

func (r *memoryAuditRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.deleted, nil
}

func (r *memoryAuditRepo) Statistics(ctx context.Context, start, end *time.Time) (*models.AuditStatistics, error) {
	return &models.AuditStatistics{}, nil
}

type recordingQueue struct {
	published  []models.AuditLog
	publishErr error
}

func (q *recordingQueue) PublishFailedAudit(ctx context.Context, log *models.AuditLog) error {
	if q.publishErr != nil {
		return q.publishErr
	}
	q.published = append(q.published, *log)
	return nil
}

func (q *recordingQueue) ConsumeFailedAudits(ctx context.Context, handler func(ctx context.Context, log *models.AuditLog) error) error {
	return nil
}

func (q *recordingQueue) Close() error {
	return nil
}

type recordingStorage struct {
	objects map[string][]byte
	putErr  error
}

func (s *recordingStorage) PutObject(ctx context.Context, objectName string, data []byte, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[objectName] = data
	return nil
}

func newTestAuditUsecase() (*auditUsecase, *memoryAuditRepo, *recordingQueue, *recordingStorage) {
	repo := &memoryAuditRepo{}
	queue := &recordingQueue{}
	storage := &recordingStorage{}
	uc := &auditUsecase{
		AuditRepository: repo,
		AuditQueue:      queue,
		Storage:         storage,
		Clock:           &fixedClock{now: testNow},
		Log:             zap.NewNop(),
	}
	return uc, repo, queue, storage
}

func baseEntry() *contracts.AuditEntry {
	return &contracts.AuditEntry{
		ActionType:  models.AuditActionUpdate,
		Description: "voucher updated",
		EntityType:  "vouchers",
		EntityID:    "entity-1",
		Actor:       models.AuditActor{UserID: "user-1", UserName: "Admin", UserRole: "admin"},
		Severity:    models.AuditSeverityLow,
	}
}

func TestRedaction(t *testing.T) {
	t.Run("Sensitive Keys Are Masked", func(t *testing.T) {
		redacted := redactMap(map[string]interface{}{
			"password":    "hunter2",
			"patient_cpf": "123.456.789-00",
			"api_token":   "abc",
			"status":      "ACTIVE",
		})

		assert.Equal(t, constvars.AuditRedactedMarker, redacted["password"])
		assert.Equal(t, constvars.AuditRedactedMarker, redacted["patient_cpf"], "substring match should catch composed keys")
		assert.Equal(t, constvars.AuditRedactedMarker, redacted["api_token"])
		assert.Equal(t, "ACTIVE", redacted["status"])
	})

	t.Run("Key Matching Is Case Insensitive", func(t *testing.T) {
		redacted := redactMap(map[string]interface{}{
			"Password":    "hunter2",
			"CREDIT_CARD": "4111",
		})

		assert.Equal(t, constvars.AuditRedactedMarker, redacted["Password"])
		assert.Equal(t, constvars.AuditRedactedMarker, redacted["CREDIT_CARD"])
	})

	t.Run("Nested Maps And Slices", func(t *testing.T) {
		redacted := redactMap(map[string]interface{}{
			"payment": map[string]interface{}{
				"pix_key": "old@mail.com",
				"method":  "pix",
			},
			"holders": []interface{}{
				map[string]interface{}{"cpf": "123", "name": "Ana"},
				"plain string",
			},
		})

		payment := redacted["payment"].(map[string]interface{})
		assert.Equal(t, constvars.AuditRedactedMarker, payment["pix_key"])
		assert.Equal(t, "pix", payment["method"])

		holders := redacted["holders"].([]interface{})
		holder := holders[0].(map[string]interface{})
		assert.Equal(t, constvars.AuditRedactedMarker, holder["cpf"])
		assert.Equal(t, "Ana", holder["name"])
		assert.Equal(t, "plain string", holders[1])
	})

	t.Run("Long Strings Truncated", func(t *testing.T) {
		long := strings.Repeat("a", constvars.AuditMaxStringLength+100)

		redacted := redactMap(map[string]interface{}{"notes": long})

		value := redacted["notes"].(string)
		assert.Len(t, value, constvars.AuditMaxStringLength+len(constvars.AuditTruncatedSuffix))
		assert.True(t, strings.HasSuffix(value, constvars.AuditTruncatedSuffix))
	})

	t.Run("Truncation Keeps Valid UTF8", func(t *testing.T) {
		// A two-byte rune straddling the cut point must not be split; the
		// mongo driver rejects documents with invalid UTF-8 strings.
		long := strings.Repeat("a", constvars.AuditMaxStringLength-1) + strings.Repeat("ç", 50)

		redacted := redactMap(map[string]interface{}{"notes": long})

		value := redacted["notes"].(string)
		assert.True(t, utf8.ValidString(value))
		assert.True(t, strings.HasSuffix(value, constvars.AuditTruncatedSuffix))
		trimmed := strings.TrimSuffix(value, constvars.AuditTruncatedSuffix)
		assert.Equal(t, constvars.AuditMaxStringLength-1, len(trimmed), "the straddled rune is dropped, not split")
	})

	t.Run("Exact Length Untouched", func(t *testing.T) {
		exact := strings.Repeat("a", constvars.AuditMaxStringLength)

		redacted := redactMap(map[string]interface{}{"notes": exact})

		assert.Equal(t, exact, redacted["notes"])
	})

	t.Run("Nil Map Stays Nil", func(t *testing.T) {
		assert.Nil(t, redactMap(nil))
	})
}

func TestRetentionPeriodDays(t *testing.T) {
	t.Run("LGPD Relevant", func(t *testing.T) {
		entry := baseEntry()
		entry.IsLGPDRelevant = true

		assert.Equal(t, constvars.RetentionDaysLGPDOrSecurity, retentionPeriodDays(entry))
	})

	t.Run("Security Event", func(t *testing.T) {
		entry := baseEntry()
		entry.IsSecurityEvent = true

		assert.Equal(t, constvars.RetentionDaysLGPDOrSecurity, retentionPeriodDays(entry))
	})

	t.Run("Critical Severity", func(t *testing.T) {
		entry := baseEntry()
		entry.Severity = models.AuditSeverityCritical

		assert.Equal(t, constvars.RetentionDaysCritical, retentionPeriodDays(entry))
	})

	t.Run("High Severity", func(t *testing.T) {
		entry := baseEntry()
		entry.Severity = models.AuditSeverityHigh

		assert.Equal(t, constvars.RetentionDaysHigh, retentionPeriodDays(entry))
	})

	t.Run("Auth Actions", func(t *testing.T) {
		entry := baseEntry()
		entry.ActionType = models.AuditActionLogin

		assert.Equal(t, constvars.RetentionDaysAuthActions, retentionPeriodDays(entry))
	})

	t.Run("LGPD Wins Over Severity", func(t *testing.T) {
		entry := baseEntry()
		entry.IsLGPDRelevant = true
		entry.Severity = models.AuditSeverityCritical

		assert.Equal(t, constvars.RetentionDaysLGPDOrSecurity, retentionPeriodDays(entry))
	})

	t.Run("Default", func(t *testing.T) {
		assert.Equal(t, constvars.RetentionDaysDefault, retentionPeriodDays(baseEntry()))
	})
}

func TestBuildLog(t *testing.T) {
	uc, _, _, _ := newTestAuditUsecase()

	t.Run("Retention Dates", func(t *testing.T) {
		log := uc.buildLog(baseEntry(), testNow)

		assert.Equal(t, constvars.RetentionDaysDefault, log.RetentionPeriodDays)
		assert.Equal(t, testNow.AddDate(0, 0, constvars.RetentionDaysDefault), log.DeleteDate)
		assert.Equal(t, log.DeleteDate.AddDate(0, 0, -constvars.AuditArchiveLeadDays), log.ArchiveDate, "archive runs thirty days ahead of deletion")
		assert.False(t, log.IsArchived)
		assert.Equal(t, testNow, log.Timestamp)
	})

	t.Run("Invalid Severity Defaults To Low", func(t *testing.T) {
		entry := baseEntry()
		entry.Severity = "EXTREME"

		log := uc.buildLog(entry, testNow)

		assert.Equal(t, models.AuditSeverityLow, log.Severity)
	})

	t.Run("Values Are Redacted", func(t *testing.T) {
		entry := baseEntry()
		entry.NewValues = map[string]interface{}{"pix_key": "x", "status": "ACTIVE"}

		log := uc.buildLog(entry, testNow)

		assert.Equal(t, constvars.AuditRedactedMarker, log.NewValues["pix_key"])
		assert.Equal(t, "ACTIVE", log.NewValues["status"])
	})
}

func TestRecord(t *testing.T) {
	t.Run("Inserts The Log", func(t *testing.T) {
		uc, repo, queue, _ := newTestAuditUsecase()

		inserted, err := uc.Record(context.Background(), baseEntry())

		assert.NoError(t, err)
		assert.NotNil(t, inserted)
		assert.Len(t, repo.inserted, 1)
		assert.Empty(t, queue.published)
	})

	t.Run("Store Failure Routes To Queue And Raises Warning", func(t *testing.T) {
		uc, _, queue, _ := newTestAuditUsecase()
		repo := uc.AuditRepository.(*memoryAuditRepo)
		repo.insertErr = errors.New("mongo down")
		ctx, warning := utils.ContextWithAuditWarning(context.Background())

		log, err := uc.Record(ctx, baseEntry())

		assert.Error(t, err, "the failure is surfaced for observability")
		assert.NotNil(t, log, "the built log still comes back to the caller")
		assert.Len(t, queue.published, 1, "failed entry must land in the failure queue")
		assert.Equal(t, constvars.AuditDeferredWarningMessage, warning.Message)
	})

	t.Run("No Warning Holder Is Tolerated", func(t *testing.T) {
		uc, _, _, _ := newTestAuditUsecase()
		repo := uc.AuditRepository.(*memoryAuditRepo)
		repo.insertErr = errors.New("mongo down")

		assert.NotPanics(t, func() {
			uc.Record(context.Background(), baseEntry())
		})
	})
}

func TestReplay(t *testing.T) {
	uc, repo, _, _ := newTestAuditUsecase()

	err := uc.Replay(context.Background(), &models.AuditLog{Description: "replayed"})

	assert.NoError(t, err)
	assert.Len(t, repo.inserted, 1)
	assert.Equal(t, "replayed", repo.inserted[0].Description)
}

func TestList(t *testing.T) {
	uc, repo, _, _ := newTestAuditUsecase()
	repo.listResult = []models.AuditLog{{Description: "one"}, {Description: "two"}}
	repo.listTotal = 42

	logs, total, err := uc.List(context.Background(), &contracts.AuditListFilter{})

	assert.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, int64(42), total, "total reflects the unpaged count")
}

func TestArchiveOldLogs(t *testing.T) {
	t.Run("Exports Then Marks Archived", func(t *testing.T) {
		uc, repo, _, storage := newTestAuditUsecase()
		repo.dueLogs = []models.AuditLog{
			{ID: primitive.NewObjectID(), Description: "old one"},
			{ID: primitive.NewObjectID(), Description: "old two"},
		}

		count, err := uc.ArchiveOldLogs(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Len(t, repo.archived, 2)
		assert.Contains(t, storage.objects, "audit-archive/2026-03-15.json")
	})

	t.Run("Nothing Due", func(t *testing.T) {
		uc, _, _, storage := newTestAuditUsecase()

		count, err := uc.ArchiveOldLogs(context.Background())

		assert.NoError(t, err)
		assert.Zero(t, count)
		assert.Empty(t, storage.objects)
	})

	t.Run("Export Failure Leaves Logs Unarchived", func(t *testing.T) {
		uc, repo, _, storage := newTestAuditUsecase()
		repo.dueLogs = []models.AuditLog{{ID: primitive.NewObjectID()}}
		storage.putErr = errors.New("minio down")

		_, err := uc.ArchiveOldLogs(context.Background())

		assert.Error(t, err)
		assert.Empty(t, repo.archived, "archive flag must not flip when the export failed")
	})
}

func TestCleanupExpiredLogs(t *testing.T) {
	uc, repo, _, _ := newTestAuditUsecase()
	repo.deleted = 7

	count, err := uc.CleanupExpiredLogs(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 7, count)
}
