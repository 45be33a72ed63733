package ledger

import (
	"context"
	"fisioflow-service/internal/app/config"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"fisioflow-service/internal/pkg/dto/requests"
	"fisioflow-service/internal/pkg/exceptions"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type sequentialIdentity struct {
	uuidCounter int
	codeCounter int

	// codeCollisions makes the first n transaction codes repeat so the
	// retry-on-conflict path can be exercised.
	codeCollisions int
}

func (s *sequentialIdentity) NewUUID() string {
	s.uuidCounter++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", s.uuidCounter)
}

func (s *sequentialIdentity) NewVoucherCode(length int) (string, error) {
	s.codeCounter++
	return fmt.Sprintf("VOUCHER%05d", s.codeCounter), nil
}

func (s *sequentialIdentity) NewTransactionCode(txType models.TransactionType, now time.Time) (string, error) {
	if s.codeCollisions > 0 {
		s.codeCollisions--
		return txType.CodePrefix() + now.UTC().Format(constvars.TransactionCodeDateLayout) + "000000", nil
	}
	s.codeCounter++
	return fmt.Sprintf("%s%s%06d", txType.CodePrefix(), now.UTC().Format(constvars.TransactionCodeDateLayout), s.codeCounter), nil
}

type memoryTransactionRepo struct {
	byCode map[string]*models.FinancialTransaction
	order  []string
}

func newMemoryTransactionRepo() *memoryTransactionRepo {
	return &memoryTransactionRepo{byCode: map[string]*models.FinancialTransaction{}}
}

func (r *memoryTransactionRepo) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *memoryTransactionRepo) CreateTransaction(ctx context.Context, transaction *models.FinancialTransaction) (*models.FinancialTransaction, error) {
	if _, exists := r.byCode[transaction.TransactionCode]; exists {
		return nil, exceptions.WrapWithoutError(constvars.StatusConflict, constvars.ErrClientCodeCollision, constvars.ErrDevCodeGenerationExhausted)
	}
	stored := *transaction
	r.byCode[transaction.TransactionCode] = &stored
	r.order = append(r.order, transaction.TransactionCode)
	result := stored
	return &result, nil
}

func (r *memoryTransactionRepo) FindByCode(ctx context.Context, code string) (*models.FinancialTransaction, error) {
	stored, ok := r.byCode[code]
	if !ok {
		return nil, nil
	}
	result := *stored
	return &result, nil
}

func (r *memoryTransactionRepo) FindByCodeForUpdate(ctx context.Context, code string) (*models.FinancialTransaction, error) {
	return r.FindByCode(ctx, code)
}

func (r *memoryTransactionRepo) FindByIDForUpdate(ctx context.Context, transactionID string) (*models.FinancialTransaction, error) {
	for _, stored := range r.byCode {
		if stored.ID == transactionID {
			result := *stored
			return &result, nil
		}
	}
	return nil, nil
}

func (r *memoryTransactionRepo) UpdateTransaction(ctx context.Context, transaction *models.FinancialTransaction) (*models.FinancialTransaction, error) {
	stored := *transaction
	r.byCode[transaction.TransactionCode] = &stored
	result := stored
	return &result, nil
}

func (r *memoryTransactionRepo) ListByParentID(ctx context.Context, parentID string) ([]models.FinancialTransaction, error) {
	var result []models.FinancialTransaction
	for _, code := range r.order {
		stored := r.byCode[code]
		if stored.ParentTransactionID != nil && *stored.ParentTransactionID == parentID {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r *memoryTransactionRepo) ListCompletedByTypeBetween(ctx context.Context, txType models.TransactionType, start, end time.Time) ([]models.FinancialTransaction, error) {
	var result []models.FinancialTransaction
	for _, code := range r.order {
		stored := r.byCode[code]
		if stored.Type != txType || stored.Status != models.TransactionStatusCompleted {
			continue
		}
		if stored.TransactionDate.Before(start) || !stored.TransactionDate.Before(end) {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (r *memoryTransactionRepo) FindVoucherPaymentTransaction(ctx context.Context, voucherID string) (*models.FinancialTransaction, error) {
	for _, code := range r.order {
		stored := r.byCode[code]
		if stored.Type == models.TransactionTypeIncome && stored.VoucherID != nil && *stored.VoucherID == voucherID {
			result := *stored
			return &result, nil
		}
	}
	return nil, nil
}

type recordingAuditUsecase struct {
	entries []contracts.AuditEntry
}

func (a *recordingAuditUsecase) Record(ctx context.Context, entry *contracts.AuditEntry) (*models.AuditLog, error) {
	a.entries = append(a.entries, *entry)
	return &models.AuditLog{}, nil
}

func (a *recordingAuditUsecase) Replay(ctx context.Context, log *models.AuditLog) error {
	return nil
}

func (a *recordingAuditUsecase) List(ctx context.Context, filter *contracts.AuditListFilter) ([]models.AuditLog, int64, error) {
	return nil, 0, nil
}

func (a *recordingAuditUsecase) Statistics(ctx context.Context, start, end *time.Time) (*models.AuditStatistics, error) {
	return &models.AuditStatistics{}, nil
}

func (a *recordingAuditUsecase) ArchiveOldLogs(ctx context.Context) (int, error) {
	return 0, nil
}

func (a *recordingAuditUsecase) CleanupExpiredLogs(ctx context.Context) (int, error) {
	return 0, nil
}

type memoryRedis struct {
	store map[string]string
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{store: map[string]string{}}
}

func (r *memoryRedis) Delete(ctx context.Context, key string) error {
	delete(r.store, key)
	return nil
}

func (r *memoryRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.store[key] = string(payload)
	return nil
}

func (r *memoryRedis) Get(ctx context.Context, key string) (string, error) {
	return r.store[key], nil
}

func (r *memoryRedis) Increment(ctx context.Context, key string) error {
	return nil
}

func (r *memoryRedis) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	if _, exists := r.store[key]; exists {
		return false, nil
	}
	return true, r.Set(ctx, key, value, exp)
}

func testFees() config.AppFees {
	return config.AppFees{
		PlatformFeeRate:       0.10,
		GatewayFeeRate:        0.03,
		PartnerCommissionRate: 0.80,
	}
}

func newTestLedgerUsecase() (*ledgerUsecase, *memoryTransactionRepo, *recordingAuditUsecase, *memoryRedis) {
	repo := newMemoryTransactionRepo()
	auditRecorder := &recordingAuditUsecase{}
	redis := newMemoryRedis()
	uc := &ledgerUsecase{
		TransactionRepository: repo,
		AuditUsecase:          auditRecorder,
		RedisRepository:       redis,
		Clock:                 &fixedClock{now: testNow},
		Identity:              &sequentialIdentity{},
		Fees:                  testFees(),
		Log:                   zap.NewNop(),
	}
	return uc, repo, auditRecorder, redis
}

func testActor() models.AuditActor {
	return models.AuditActor{UserID: "user-1", UserName: "Admin", UserRole: "admin"}
}

func TestSplitFees(t *testing.T) {
	uc, _, _, _ := newTestLedgerUsecase()

	t.Run("Income Pays Platform And Gateway Fees", func(t *testing.T) {
		transaction := &models.FinancialTransaction{
			Type:           models.TransactionTypeIncome,
			GrossAmount:    decimal.NewFromInt(1000),
			DiscountAmount: decimal.NewFromInt(50),
			TaxAmount:      decimal.NewFromInt(20),
			WithholdingTax: decimal.NewFromInt(10),
		}

		uc.splitFees(transaction)

		assert.Equal(t, "100.00", transaction.PlatformFee.StringFixed(2))
		assert.Equal(t, "30.00", transaction.GatewayFee.StringFixed(2))
		assert.Equal(t, "130.00", transaction.FeeAmount.StringFixed(2))
		assert.Equal(t, "790.00", transaction.NetAmount.StringFixed(2), "net should be gross minus discount, tax, fees and withholding")
	})

	t.Run("Expense Pays No Fees", func(t *testing.T) {
		transaction := &models.FinancialTransaction{
			Type:        models.TransactionTypeExpense,
			GrossAmount: decimal.NewFromInt(500),
			TaxAmount:   decimal.NewFromInt(25),
		}

		uc.splitFees(transaction)

		assert.True(t, transaction.PlatformFee.IsZero())
		assert.True(t, transaction.GatewayFee.IsZero())
		assert.True(t, transaction.FeeAmount.IsZero())
		assert.Equal(t, "500.00", transaction.NetAmount.StringFixed(2), "non-income net equals gross, taxes are informational")
	})

	t.Run("Fee Rounding", func(t *testing.T) {
		transaction := &models.FinancialTransaction{
			Type:        models.TransactionTypeIncome,
			GrossAmount: decimal.RequireFromString("99.99"),
		}

		uc.splitFees(transaction)

		assert.Equal(t, "10.00", transaction.PlatformFee.StringFixed(2))
		assert.Equal(t, "3.00", transaction.GatewayFee.StringFixed(2))
		assert.Equal(t, "86.99", transaction.NetAmount.StringFixed(2))
	})
}

func TestPartnerCommission(t *testing.T) {
	uc, _, _, _ := newTestLedgerUsecase()
	partnerID := "partner-1"

	t.Run("Income With Partner", func(t *testing.T) {
		transaction := &models.FinancialTransaction{
			Type:        models.TransactionTypeIncome,
			GrossAmount: decimal.NewFromInt(1000),
			PartnerID:   &partnerID,
		}
		uc.splitFees(transaction)

		uc.partnerCommission(transaction, decimal.Zero)

		assert.Equal(t, "696.00", transaction.PartnerCommission.StringFixed(2), "commission base is gross minus platform and gateway skim")
	})

	t.Run("Per Partner Rate Override", func(t *testing.T) {
		transaction := &models.FinancialTransaction{
			Type:        models.TransactionTypeIncome,
			GrossAmount: decimal.NewFromInt(1000),
			PartnerID:   &partnerID,
		}
		uc.splitFees(transaction)

		uc.partnerCommission(transaction, decimal.RequireFromString("0.5"))

		assert.Equal(t, "435.00", transaction.PartnerCommission.StringFixed(2), "half of the 870.00 base")
	})

	t.Run("No Partner Means No Commission", func(t *testing.T) {
		transaction := &models.FinancialTransaction{
			Type:        models.TransactionTypeIncome,
			GrossAmount: decimal.NewFromInt(1000),
		}
		uc.splitFees(transaction)

		uc.partnerCommission(transaction, decimal.Zero)

		assert.True(t, transaction.PartnerCommission.IsZero())
	})

	t.Run("Non Income Means No Commission", func(t *testing.T) {
		transaction := &models.FinancialTransaction{
			Type:        models.TransactionTypeExpense,
			GrossAmount: decimal.NewFromInt(1000),
			PartnerID:   &partnerID,
		}
		uc.splitFees(transaction)

		uc.partnerCommission(transaction, decimal.Zero)

		assert.True(t, transaction.PartnerCommission.IsZero())
	})
}

func recordIncome(t *testing.T, uc *ledgerUsecase, gross string) *models.FinancialTransaction {
	t.Helper()
	created, err := uc.Record(context.Background(), &requests.RecordTransaction{
		Type:          string(models.TransactionTypeIncome),
		Category:      "session",
		GrossAmount:   gross,
		PaymentMethod: "pix",
	}, testActor())
	assert.NoError(t, err)
	return created
}

func TestRecord(t *testing.T) {
	t.Run("Creates Pending Transaction With Code", func(t *testing.T) {
		uc, _, auditRecorder, _ := newTestLedgerUsecase()

		created := recordIncome(t, uc, "300.00")

		assert.Equal(t, models.TransactionStatusPending, created.Status)
		assert.Regexp(t, constvars.RegexTransactionCode, created.TransactionCode)
		assert.Equal(t, 3, created.CompetenceMonth, "competence should follow the transaction date")
		assert.Equal(t, 2026, created.CompetenceYear)
		assert.Equal(t, "261.00", created.NetAmount.StringFixed(2))
		assert.Len(t, auditRecorder.entries, 1, "record should leave an audit entry")
	})

	t.Run("Rejects Unknown Type", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()

		_, err := uc.Record(context.Background(), &requests.RecordTransaction{
			Type:          "GIFT",
			Category:      "session",
			GrossAmount:   "10.00",
			PaymentMethod: "pix",
		}, testActor())

		assert.Error(t, err)
		assert.True(t, exceptions.IsStatus(err, constvars.StatusBadRequest))
	})

	t.Run("Retries On Code Collision", func(t *testing.T) {
		uc, repo, _, _ := newTestLedgerUsecase()
		identity := uc.Identity.(*sequentialIdentity)

		first := recordIncome(t, uc, "10.00")
		// Force the next two draws to repeat an already-used code.
		repo.byCode[models.TransactionTypeIncome.CodePrefix()+testNow.Format(constvars.TransactionCodeDateLayout)+"000000"] = first
		identity.codeCollisions = 2

		second := recordIncome(t, uc, "20.00")
		assert.NotEqual(t, first.TransactionCode, second.TransactionCode)
	})
}

func TestTransactionLifecycle(t *testing.T) {
	t.Run("Process Moves Pending To Processing", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "100.00")

		updated, err := uc.Process(context.Background(), created.TransactionCode, testActor())

		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatusProcessing, updated.Status)
	})

	t.Run("Process Rejects Non Pending", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "100.00")
		_, err := uc.Process(context.Background(), created.TransactionCode, testActor())
		assert.NoError(t, err)

		_, err = uc.Process(context.Background(), created.TransactionCode, testActor())

		assert.True(t, exceptions.IsStatus(err, constvars.StatusConflict))
	})

	t.Run("Complete From Pending Or Processing", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "100.00")

		updated, err := uc.Complete(context.Background(), created.TransactionCode, nil, testActor())

		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCompleted, updated.Status)
		assert.NotNil(t, updated.PaymentDate, "payment date should default to now")
		assert.Equal(t, testNow, *updated.PaymentDate)
	})

	t.Run("Complete Rejects Cancelled", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "100.00")
		_, err := uc.Cancel(context.Background(), created.TransactionCode, "duplicate entry", testActor())
		assert.NoError(t, err)

		_, err = uc.Complete(context.Background(), created.TransactionCode, nil, testActor())

		assert.True(t, exceptions.IsStatus(err, constvars.StatusConflict))
	})

	t.Run("Cancel Records Reason And Actor", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "100.00")

		updated, err := uc.Cancel(context.Background(), created.TransactionCode, "duplicate entry", testActor())

		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCancelled, updated.Status)
		assert.Equal(t, "duplicate entry", *updated.CancellationReason)
		assert.Equal(t, "user-1", *updated.CancelledBy)
	})

	t.Run("Unknown Code Not Found", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()

		_, err := uc.Process(context.Background(), "REC20260315999999", testActor())

		assert.True(t, exceptions.IsStatus(err, constvars.StatusNotFound))
	})
}

func TestRefund(t *testing.T) {
	t.Run("Only Completed Transactions Refundable", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "100.00")

		_, err := uc.Refund(context.Background(), created.TransactionCode, nil, "patient request", testActor())

		assert.True(t, exceptions.IsStatus(err, constvars.StatusConflict))
	})

	t.Run("Full Refund Defaults To Net Amount", func(t *testing.T) {
		uc, repo, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "1000.00")
		_, err := uc.Complete(context.Background(), created.TransactionCode, nil, testActor())
		assert.NoError(t, err)

		refund, err := uc.Refund(context.Background(), created.TransactionCode, nil, "patient request", testActor())

		assert.NoError(t, err)
		assert.Equal(t, models.TransactionTypeRefund, refund.Type)
		assert.Equal(t, models.TransactionStatusCompleted, refund.Status)
		assert.Equal(t, "870.00", refund.NetAmount.StringFixed(2), "default refund amount is the source net")
		assert.Equal(t, created.ID, *refund.ParentTransactionID)

		source, err := repo.FindByCode(context.Background(), created.TransactionCode)
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatusRefunded, source.Status)
		assert.Equal(t, "870.00", source.NetAmount.StringFixed(2), "source net is never rewritten")
	})

	t.Run("Partial Refund", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "1000.00")
		_, err := uc.Complete(context.Background(), created.TransactionCode, nil, testActor())
		assert.NoError(t, err)

		partial := decimal.RequireFromString("200.505")
		refund, err := uc.Refund(context.Background(), created.TransactionCode, &partial, "one session unused", testActor())

		assert.NoError(t, err)
		assert.Equal(t, "200.51", refund.NetAmount.StringFixed(2), "explicit amount should be rounded to cents")
	})
}

func TestReconcile(t *testing.T) {
	t.Run("Completed Transaction", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "100.00")
		_, err := uc.Complete(context.Background(), created.TransactionCode, nil, testActor())
		assert.NoError(t, err)

		updated, err := uc.Reconcile(context.Background(), created.TransactionCode, "stmt-2026-03-001", testActor())

		assert.NoError(t, err)
		assert.True(t, updated.IsReconciled)
		assert.Equal(t, "stmt-2026-03-001", *updated.BankReference)
		assert.Equal(t, testNow, *updated.ReconciledAt)
	})

	t.Run("Pending Transaction Rejected", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "100.00")

		_, err := uc.Reconcile(context.Background(), created.TransactionCode, "stmt-2026-03-001", testActor())

		assert.True(t, exceptions.IsStatus(err, constvars.StatusConflict))
	})
}

func TestCreateInstallments(t *testing.T) {
	t.Run("Single Installment Is A No Op", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "100.00")

		installments, err := uc.CreateInstallments(context.Background(), created.TransactionCode, 1, testActor())

		assert.NoError(t, err)
		assert.Empty(t, installments)
	})

	t.Run("Last Installment Absorbs Rounding Residue", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "1000.00")

		installments, err := uc.CreateInstallments(context.Background(), created.TransactionCode, 3, testActor())

		assert.NoError(t, err)
		assert.Len(t, installments, 3)
		assert.Equal(t, "333.33", installments[0].GrossAmount.StringFixed(2))
		assert.Equal(t, "333.33", installments[1].GrossAmount.StringFixed(2))
		assert.Equal(t, "333.34", installments[2].GrossAmount.StringFixed(2))

		sum := decimal.Zero
		for _, installment := range installments {
			sum = sum.Add(installment.GrossAmount)
		}
		assert.True(t, created.GrossAmount.Equal(sum), "installments must sum exactly to the parent gross")
	})

	t.Run("Due Dates Step By Thirty Days", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "600.00")

		installments, err := uc.CreateInstallments(context.Background(), created.TransactionCode, 3, testActor())

		assert.NoError(t, err)
		assert.Equal(t, created.TransactionDate, *installments[0].DueDate)
		assert.Equal(t, created.TransactionDate.AddDate(0, 0, 30), *installments[1].DueDate)
		assert.Equal(t, created.TransactionDate.AddDate(0, 0, 60), *installments[2].DueDate)
	})

	t.Run("Children Inherit Parent Attributes", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		created := recordIncome(t, uc, "600.00")

		installments, err := uc.CreateInstallments(context.Background(), created.TransactionCode, 2, testActor())

		assert.NoError(t, err)
		for i, installment := range installments {
			assert.Equal(t, created.Type, installment.Type)
			assert.Equal(t, created.Category, installment.Category)
			assert.Equal(t, models.TransactionStatusPending, installment.Status)
			assert.Equal(t, created.CompetenceMonth, installment.CompetenceMonth)
			assert.Equal(t, created.CompetenceYear, installment.CompetenceYear)
			assert.Equal(t, i+1, installment.InstallmentNumber)
			assert.Equal(t, 2, installment.InstallmentTotal)
			assert.Equal(t, created.ID, *installment.ParentTransactionID)
			assert.False(t, installment.FeeAmount.IsZero(), "income installments carry their own fee split")
		}
	})

	t.Run("Unknown Parent Not Found", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()

		_, err := uc.CreateInstallments(context.Background(), "REC20260315999999", 2, testActor())

		assert.True(t, exceptions.IsStatus(err, constvars.StatusNotFound))
	})
}

func TestReports(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	seed := func(t *testing.T, uc *ledgerUsecase) {
		t.Helper()
		income := recordIncome(t, uc, "1000.00")
		_, err := uc.Complete(context.Background(), income.TransactionCode, nil, testActor())
		assert.NoError(t, err)

		expense, err := uc.Record(context.Background(), &requests.RecordTransaction{
			Type:          string(models.TransactionTypeExpense),
			Category:      "rent",
			GrossAmount:   "300.00",
			PaymentMethod: "transfer",
		}, testActor())
		assert.NoError(t, err)
		_, err = uc.Complete(context.Background(), expense.TransactionCode, nil, testActor())
		assert.NoError(t, err)

		// Pending income and cancelled expense must stay out of the reports.
		recordIncome(t, uc, "500.00")
		cancelled, err := uc.Record(context.Background(), &requests.RecordTransaction{
			Type:          string(models.TransactionTypeExpense),
			Category:      "rent",
			GrossAmount:   "50.00",
			PaymentMethod: "transfer",
		}, testActor())
		assert.NoError(t, err)
		_, err = uc.Cancel(context.Background(), cancelled.TransactionCode, "wrong entry", testActor())
		assert.NoError(t, err)
	}

	t.Run("Revenue Counts Only Completed Income", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		seed(t, uc)

		report, err := uc.RevenueReport(context.Background(), start, end)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), report.TransactionCount)
		assert.Equal(t, "1000.00", report.TotalGross.StringFixed(2))
		assert.Equal(t, "130.00", report.TotalFees.StringFixed(2))
		assert.Equal(t, "870.00", report.TotalNet.StringFixed(2))
		assert.Equal(t, "870.00", report.ByCategory["session"].StringFixed(2))
	})

	t.Run("Expenses Counts Only Completed Expenses", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		seed(t, uc)

		report, err := uc.ExpensesReport(context.Background(), start, end)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), report.TransactionCount)
		assert.Equal(t, "300.00", report.TotalAmount.StringFixed(2))
		assert.Equal(t, "300.00", report.ByCategory["rent"].StringFixed(2))
	})

	t.Run("Cash Flow Nets Revenue Against Expenses", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		seed(t, uc)

		report, err := uc.CashFlow(context.Background(), start, end)

		assert.NoError(t, err)
		assert.Equal(t, "570.00", report.NetFlow.StringFixed(2))
	})

	t.Run("Second Read Served From Cache", func(t *testing.T) {
		uc, repo, _, redis := newTestLedgerUsecase()
		seed(t, uc)

		first, err := uc.RevenueReport(context.Background(), start, end)
		assert.NoError(t, err)
		assert.Contains(t, redis.store, reportCacheKey("revenue", start, end))

		// Wipe the store; a cached report must still come back.
		repo.byCode = map[string]*models.FinancialTransaction{}
		repo.order = nil

		second, err := uc.RevenueReport(context.Background(), start, end)
		assert.NoError(t, err)
		assert.Equal(t, first.TransactionCount, second.TransactionCount)
		assert.True(t, first.TotalNet.Equal(second.TotalNet))
	})
}

func testVoucher() *models.Voucher {
	return &models.Voucher{
		ID:                "00000000-0000-0000-0000-0000000000aa",
		Code:              "VOUCHERABC12",
		Type:              models.VoucherTypePackage,
		Status:            models.VoucherStatusActive,
		PatientID:         "00000000-0000-0000-0000-0000000000bb",
		PartnerID:         "00000000-0000-0000-0000-0000000000cc",
		TotalSessions:     10,
		RemainingSessions: 10,
		OriginalPrice:     decimal.NewFromInt(1000),
		DiscountAmount:    decimal.NewFromInt(100),
		FinalPrice:        decimal.NewFromInt(900),
	}
}

func TestBookVoucherPayment(t *testing.T) {
	uc, _, _, _ := newTestLedgerUsecase()
	voucher := testVoucher()

	created, err := uc.BookVoucherPayment(context.Background(), voucher, "gw-ref-123", testActor())

	assert.NoError(t, err)
	assert.Equal(t, models.TransactionTypeIncome, created.Type)
	assert.Equal(t, models.TransactionStatusCompleted, created.Status)
	assert.Equal(t, "voucher", created.Category)
	assert.Equal(t, "1000.00", created.GrossAmount.StringFixed(2))
	assert.Equal(t, "100.00", created.DiscountAmount.StringFixed(2))
	assert.Equal(t, "770.00", created.NetAmount.StringFixed(2), "net is final price minus the fee split on gross")
	assert.Equal(t, "gw-ref-123", *created.BankReference)
	assert.Equal(t, voucher.ID, *created.VoucherID)
}

func TestBookSessionCommission(t *testing.T) {
	t.Run("Default Rate", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		voucher := testVoucher()
		usage := &models.VoucherUsage{ID: "usage-1", VoucherID: voucher.ID}

		created, err := uc.BookSessionCommission(context.Background(), voucher, usage, decimal.Zero, testActor())

		assert.NoError(t, err)
		assert.Equal(t, models.TransactionTypeCommission, created.Type)
		assert.Equal(t, models.TransactionStatusPending, created.Status, "payouts start pending until settled")
		// Session value 90.00, minus 10% + 3% skim, times the 80% commission rate.
		assert.Equal(t, "62.64", created.GrossAmount.StringFixed(2))
		assert.Equal(t, "62.64", created.NetAmount.StringFixed(2))
	})

	t.Run("Per Partner Rate", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		voucher := testVoucher()
		usage := &models.VoucherUsage{ID: "usage-1", VoucherID: voucher.ID}

		created, err := uc.BookSessionCommission(context.Background(), voucher, usage, decimal.RequireFromString("0.5"), testActor())

		assert.NoError(t, err)
		// Session value 90.00, skim leaves 78.30, half of that.
		assert.Equal(t, "39.15", created.GrossAmount.StringFixed(2))
	})
}

func TestBookVoucherRefund(t *testing.T) {
	t.Run("Parented To Payment Transaction", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		voucher := testVoucher()
		payment, err := uc.BookVoucherPayment(context.Background(), voucher, "gw-ref-123", testActor())
		assert.NoError(t, err)

		refund, err := uc.BookVoucherRefund(context.Background(), voucher, decimal.RequireFromString("450.00"), "clinic closure", testActor())

		assert.NoError(t, err)
		assert.Equal(t, models.TransactionTypeRefund, refund.Type)
		assert.Equal(t, "450.00", refund.NetAmount.StringFixed(2))
		assert.Equal(t, payment.ID, *refund.ParentTransactionID)
	})

	t.Run("Orphan When No Payment Exists", func(t *testing.T) {
		uc, _, _, _ := newTestLedgerUsecase()
		voucher := testVoucher()

		refund, err := uc.BookVoucherRefund(context.Background(), voucher, decimal.RequireFromString("450.00"), "clinic closure", testActor())

		assert.NoError(t, err)
		assert.Nil(t, refund.ParentTransactionID)
	})
}
