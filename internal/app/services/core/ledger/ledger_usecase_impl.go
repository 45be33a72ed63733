package ledger

import (
	"context"
	"fisioflow-service/internal/app/config"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"fisioflow-service/internal/pkg/dto/requests"
	"fisioflow-service/internal/pkg/exceptions"
	"fisioflow-service/internal/pkg/utils"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ledgerUsecaseInstance contracts.LedgerUsecase
	onceLedgerUsecase     sync.Once
)

type ledgerUsecase struct {
	TransactionRepository contracts.TransactionRepository
	AuditUsecase          contracts.AuditUsecase
	RedisRepository       contracts.RedisRepository
	Clock                 contracts.Clock
	Identity              contracts.IdentityService
	Fees                  config.AppFees
	Log                   *zap.Logger
}

func NewLedgerUsecase(
	transactionRepository contracts.TransactionRepository,
	auditUsecase contracts.AuditUsecase,
	redisRepository contracts.RedisRepository,
	clock contracts.Clock,
	identity contracts.IdentityService,
	fees config.AppFees,
	logger *zap.Logger,
) contracts.LedgerUsecase {
	onceLedgerUsecase.Do(func() {
		ledgerUsecaseInstance = &ledgerUsecase{
			TransactionRepository: transactionRepository,
			AuditUsecase:          auditUsecase,
			RedisRepository:       redisRepository,
			Clock:                 clock,
			Identity:              identity,
			Fees:                  fees,
			Log:                   logger,
		}
	})
	return ledgerUsecaseInstance
}

// splitFees applies the platform/gateway split. Fees apply to INCOME only;
// for every other type net equals gross and the fee fields stay zero.
func (uc *ledgerUsecase) splitFees(transaction *models.FinancialTransaction) {
	if transaction.Type != models.TransactionTypeIncome {
		transaction.PlatformFee = decimal.Zero
		transaction.GatewayFee = decimal.Zero
		transaction.FeeAmount = decimal.Zero
		transaction.NetAmount = transaction.GrossAmount.Round(2)
		return
	}
	transaction.PlatformFee = transaction.GrossAmount.Mul(decimal.NewFromFloat(uc.Fees.PlatformFeeRate)).Round(2)
	transaction.GatewayFee = transaction.GrossAmount.Mul(decimal.NewFromFloat(uc.Fees.GatewayFeeRate)).Round(2)
	transaction.FeeAmount = transaction.PlatformFee.Add(transaction.GatewayFee)
	transaction.NetAmount = transaction.GrossAmount.
		Sub(transaction.DiscountAmount).
		Sub(transaction.TaxAmount).
		Sub(transaction.FeeAmount).
		Sub(transaction.WithholdingTax).
		Round(2)
}

// commissionRate resolves a per-partner override against the configured
// default. Non-positive means no override.
func (uc *ledgerUsecase) commissionRate(override decimal.Decimal) decimal.Decimal {
	if override.IsPositive() {
		return override
	}
	return decimal.NewFromFloat(uc.Fees.PartnerCommissionRate)
}

// partnerCommission is informational on the source transaction; the payout
// itself is booked as a separate COMMISSION transaction. The base is gross
// minus platform and gateway skim, before tax.
func (uc *ledgerUsecase) partnerCommission(transaction *models.FinancialTransaction, rate decimal.Decimal) {
	if transaction.PartnerID == nil || transaction.Type != models.TransactionTypeIncome {
		transaction.PartnerCommission = decimal.Zero
		return
	}
	base := transaction.GrossAmount.Sub(transaction.PlatformFee).Sub(transaction.GatewayFee)
	transaction.PartnerCommission = base.Mul(uc.commissionRate(rate)).Round(2)
}

// createWithUniqueCode retries transaction code generation against the
// unique index within the configured budget.
func (uc *ledgerUsecase) createWithUniqueCode(ctx context.Context, transaction *models.FinancialTransaction) (*models.FinancialTransaction, error) {
	var lastErr error
	for attempt := 0; attempt < constvars.CodeGenRetryBudget; attempt++ {
		code, err := uc.Identity.NewTransactionCode(transaction.Type, transaction.TransactionDate)
		if err != nil {
			return nil, exceptions.ErrCodeGenerationExhausted(err)
		}
		transaction.TransactionCode = code

		created, err := uc.TransactionRepository.CreateTransaction(ctx, transaction)
		if err == nil {
			return created, nil
		}
		if !exceptions.IsStatus(err, constvars.StatusConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, exceptions.ErrCodeGenerationExhausted(lastErr)
}

func (uc *ledgerUsecase) buildTransaction(request *requests.RecordTransaction, now time.Time) (*models.FinancialTransaction, error) {
	txType := models.TransactionType(request.Type)
	if !txType.IsValid() {
		return nil, exceptions.ErrTransactionInvalidType()
	}

	gross, err := utils.ParseMoney("gross_amount", request.GrossAmount)
	if err != nil {
		return nil, err
	}
	discount, err := utils.ParseMoney("discount_amount", request.DiscountAmount)
	if err != nil {
		return nil, err
	}
	tax, err := utils.ParseMoney("tax_amount", request.TaxAmount)
	if err != nil {
		return nil, err
	}
	withholding, err := utils.ParseMoney("withholding_tax", request.WithholdingTax)
	if err != nil {
		return nil, err
	}

	transactionDate := now
	if request.TransactionDate != "" {
		transactionDate, err = utils.ParseTimestamp("transaction_date", request.TransactionDate)
		if err != nil {
			return nil, err
		}
	}
	var dueDate *time.Time
	if request.DueDate != "" {
		parsed, err := utils.ParseTimestamp("due_date", request.DueDate)
		if err != nil {
			return nil, err
		}
		dueDate = &parsed
	}

	transaction := &models.FinancialTransaction{
		ID:              uc.Identity.NewUUID(),
		Type:            txType,
		Category:        request.Category,
		Status:          models.TransactionStatusPending,
		Description:     request.Description,
		GrossAmount:     gross,
		DiscountAmount:  discount,
		TaxAmount:       tax,
		WithholdingTax:  withholding,
		PaymentMethod:   request.PaymentMethod,
		PatientID:       request.PatientID,
		PartnerID:       request.PartnerID,
		VoucherID:       request.VoucherID,
		AppointmentID:   request.AppointmentID,
		TransactionDate: transactionDate,
		DueDate:         dueDate,
		CompetenceMonth: int(transactionDate.Month()),
		CompetenceYear:  transactionDate.Year(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	uc.splitFees(transaction)
	uc.partnerCommission(transaction, decimal.Zero)
	return transaction, nil
}

func (uc *ledgerUsecase) Record(ctx context.Context, request *requests.RecordTransaction, actor models.AuditActor) (*models.FinancialTransaction, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("ledgerUsecase.Record called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	transaction, err := uc.buildTransaction(request, uc.Clock.Now())
	if err != nil {
		uc.Log.Error("ledgerUsecase.Record error building transaction",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	created, err := uc.createWithUniqueCode(ctx, transaction)
	if err != nil {
		uc.Log.Error("ledgerUsecase.Record error creating transaction",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordAudit(ctx, created, actor, models.AuditActionCreate, models.AuditSeverityLow,
		fmt.Sprintf("financial transaction %s recorded", created.TransactionCode), nil)

	uc.Log.Info("ledgerUsecase.Record completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionCodeKey, created.TransactionCode),
	)
	return created, nil
}

// transition loads the transaction under a row lock, applies mutate and
// persists the result inside a single database transaction.
func (uc *ledgerUsecase) transition(ctx context.Context, code string, mutate func(transaction *models.FinancialTransaction) error) (*models.FinancialTransaction, error) {
	var updated *models.FinancialTransaction
	err := uc.TransactionRepository.RunInTx(ctx, func(txCtx context.Context) error {
		transaction, err := uc.TransactionRepository.FindByCodeForUpdate(txCtx, code)
		if err != nil {
			return err
		}
		if transaction == nil {
			return exceptions.ErrTransactionNotFound(nil)
		}
		if err := mutate(transaction); err != nil {
			return err
		}
		transaction.UpdatedAt = uc.Clock.Now()
		updated, err = uc.TransactionRepository.UpdateTransaction(txCtx, transaction)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *ledgerUsecase) Process(ctx context.Context, code string, actor models.AuditActor) (*models.FinancialTransaction, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("ledgerUsecase.Process called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionCodeKey, code),
	)

	updated, err := uc.transition(ctx, code, func(transaction *models.FinancialTransaction) error {
		if transaction.Status != models.TransactionStatusPending {
			return exceptions.ErrTransactionInvalidTransition(string(transaction.Status))
		}
		transaction.Status = models.TransactionStatusProcessing
		return nil
	})
	if err != nil {
		uc.Log.Error("ledgerUsecase.Process error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordAudit(ctx, updated, actor, models.AuditActionUpdate, models.AuditSeverityLow,
		fmt.Sprintf("transaction %s moved to processing", code), nil)

	uc.Log.Info("ledgerUsecase.Process completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionCodeKey, code),
	)
	return updated, nil
}

func (uc *ledgerUsecase) Complete(ctx context.Context, code string, paymentDate *time.Time, actor models.AuditActor) (*models.FinancialTransaction, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("ledgerUsecase.Complete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionCodeKey, code),
	)

	updated, err := uc.transition(ctx, code, func(transaction *models.FinancialTransaction) error {
		if transaction.Status != models.TransactionStatusPending && transaction.Status != models.TransactionStatusProcessing {
			return exceptions.ErrTransactionInvalidTransition(string(transaction.Status))
		}
		transaction.Status = models.TransactionStatusCompleted
		if paymentDate != nil {
			transaction.PaymentDate = paymentDate
		} else {
			now := uc.Clock.Now()
			transaction.PaymentDate = &now
		}
		return nil
	})
	if err != nil {
		uc.Log.Error("ledgerUsecase.Complete error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordAudit(ctx, updated, actor, models.AuditActionUpdate, models.AuditSeverityLow,
		fmt.Sprintf("transaction %s completed", code), nil)

	uc.Log.Info("ledgerUsecase.Complete completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionCodeKey, code),
	)
	return updated, nil
}

func (uc *ledgerUsecase) Cancel(ctx context.Context, code, reason string, actor models.AuditActor) (*models.FinancialTransaction, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("ledgerUsecase.Cancel called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionCodeKey, code),
	)

	updated, err := uc.transition(ctx, code, func(transaction *models.FinancialTransaction) error {
		switch transaction.Status {
		case models.TransactionStatusPending, models.TransactionStatusProcessing, models.TransactionStatusCompleted:
		default:
			return exceptions.ErrTransactionInvalidTransition(string(transaction.Status))
		}
		transaction.Status = models.TransactionStatusCancelled
		transaction.CancellationReason = &reason
		transaction.CancelledBy = &actor.UserID
		return nil
	})
	if err != nil {
		uc.Log.Error("ledgerUsecase.Cancel error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordAudit(ctx, updated, actor, models.AuditActionUpdate, models.AuditSeverityMedium,
		fmt.Sprintf("transaction %s cancelled: %s", code, reason), nil)

	uc.Log.Info("ledgerUsecase.Cancel completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionCodeKey, code),
	)
	return updated, nil
}

// Refund flips the source transaction to REFUNDED and books a COMPLETED
// REFUND counter-transaction whose net equals the refunded amount. The source
// net is never rewritten.
func (uc *ledgerUsecase) Refund(ctx context.Context, code string, amount *decimal.Decimal, reason string, actor models.AuditActor) (*models.FinancialTransaction, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("ledgerUsecase.Refund called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionCodeKey, code),
	)

	var refundTransaction *models.FinancialTransaction
	err := uc.TransactionRepository.RunInTx(ctx, func(txCtx context.Context) error {
		transaction, err := uc.TransactionRepository.FindByCodeForUpdate(txCtx, code)
		if err != nil {
			return err
		}
		if transaction == nil {
			return exceptions.ErrTransactionNotFound(nil)
		}
		if transaction.Status != models.TransactionStatusCompleted {
			return exceptions.ErrTransactionInvalidTransition(string(transaction.Status))
		}

		refundAmount := transaction.NetAmount
		if amount != nil {
			refundAmount = amount.Round(2)
		}

		now := uc.Clock.Now()
		transaction.Status = models.TransactionStatusRefunded
		transaction.RefundReason = &reason
		transaction.RefundedBy = &actor.UserID
		transaction.UpdatedAt = now
		if _, err := uc.TransactionRepository.UpdateTransaction(txCtx, transaction); err != nil {
			return err
		}

		refundTransaction = &models.FinancialTransaction{
			ID:                  uc.Identity.NewUUID(),
			Type:                models.TransactionTypeRefund,
			Category:            transaction.Category,
			Status:              models.TransactionStatusCompleted,
			Description:         fmt.Sprintf("refund of %s: %s", transaction.TransactionCode, reason),
			GrossAmount:         refundAmount,
			DiscountAmount:      decimal.Zero,
			TaxAmount:           decimal.Zero,
			WithholdingTax:      decimal.Zero,
			NetAmount:           refundAmount,
			PaymentMethod:       transaction.PaymentMethod,
			PatientID:           transaction.PatientID,
			PartnerID:           transaction.PartnerID,
			VoucherID:           transaction.VoucherID,
			TransactionDate:     now,
			PaymentDate:         &now,
			CompetenceMonth:     int(now.Month()),
			CompetenceYear:      now.Year(),
			ParentTransactionID: &transaction.ID,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		refundTransaction, err = uc.createWithUniqueCode(txCtx, refundTransaction)
		return err
	})
	if err != nil {
		uc.Log.Error("ledgerUsecase.Refund error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordAudit(ctx, refundTransaction, actor, models.AuditActionCreate, models.AuditSeverityMedium,
		fmt.Sprintf("refund booked for transaction %s: %s", code, reason), nil)

	uc.Log.Info("ledgerUsecase.Refund completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionCodeKey, refundTransaction.TransactionCode),
	)
	return refundTransaction, nil
}

// Reconcile marks the transaction against a bank statement line. Orthogonal
// to the status machine, but only COMPLETED transactions qualify.
func (uc *ledgerUsecase) Reconcile(ctx context.Context, code, bankReference string, actor models.AuditActor) (*models.FinancialTransaction, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("ledgerUsecase.Reconcile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionCodeKey, code),
	)

	updated, err := uc.transition(ctx, code, func(transaction *models.FinancialTransaction) error {
		if transaction.Status != models.TransactionStatusCompleted {
			return exceptions.ErrTransactionNotReconcilable()
		}
		now := uc.Clock.Now()
		transaction.IsReconciled = true
		transaction.ReconciledAt = &now
		transaction.BankReference = &bankReference
		return nil
	})
	if err != nil {
		uc.Log.Error("ledgerUsecase.Reconcile error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordAudit(ctx, updated, actor, models.AuditActionUpdate, models.AuditSeverityLow,
		fmt.Sprintf("transaction %s reconciled against %s", code, bankReference), nil)

	uc.Log.Info("ledgerUsecase.Reconcile completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionCodeKey, code),
	)
	return updated, nil
}

// CreateInstallments splits the parent gross over n children. Each child gets
// the rounded per-installment amount; the last absorbs the residue so the sum
// is exact. Fees are computed per child independently.
func (uc *ledgerUsecase) CreateInstallments(ctx context.Context, parentCode string, total int, actor models.AuditActor) ([]models.FinancialTransaction, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("ledgerUsecase.CreateInstallments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransactionCodeKey, parentCode),
		zap.Int(constvars.LoggingCountKey, total),
	)

	if total <= 1 {
		return []models.FinancialTransaction{}, nil
	}

	var installments []models.FinancialTransaction
	err := uc.TransactionRepository.RunInTx(ctx, func(txCtx context.Context) error {
		parent, err := uc.TransactionRepository.FindByCodeForUpdate(txCtx, parentCode)
		if err != nil {
			return err
		}
		if parent == nil {
			return exceptions.ErrTransactionNotFound(nil)
		}

		perInstallment := parent.GrossAmount.Div(decimal.NewFromInt(int64(total))).Round(2)
		lastInstallment := parent.GrossAmount.Sub(perInstallment.Mul(decimal.NewFromInt(int64(total - 1))))

		baseDue := parent.TransactionDate
		if parent.DueDate != nil {
			baseDue = *parent.DueDate
		}

		now := uc.Clock.Now()
		for i := 1; i <= total; i++ {
			gross := perInstallment
			if i == total {
				gross = lastInstallment
			}
			dueDate := baseDue.AddDate(0, 0, constvars.InstallmentIntervalDays*(i-1))

			child := &models.FinancialTransaction{
				ID:                  uc.Identity.NewUUID(),
				Type:                parent.Type,
				Category:            parent.Category,
				Status:              models.TransactionStatusPending,
				Description:         fmt.Sprintf("installment %d/%d of %s", i, total, parent.TransactionCode),
				GrossAmount:         gross,
				DiscountAmount:      decimal.Zero,
				TaxAmount:           decimal.Zero,
				WithholdingTax:      decimal.Zero,
				PaymentMethod:       parent.PaymentMethod,
				PatientID:           parent.PatientID,
				PartnerID:           parent.PartnerID,
				VoucherID:           parent.VoucherID,
				TransactionDate:     parent.TransactionDate,
				DueDate:             &dueDate,
				CompetenceMonth:     parent.CompetenceMonth,
				CompetenceYear:      parent.CompetenceYear,
				InstallmentNumber:   i,
				InstallmentTotal:    total,
				ParentTransactionID: &parent.ID,
				CreatedAt:           now,
				UpdatedAt:           now,
			}
			uc.splitFees(child)
			uc.partnerCommission(child, decimal.Zero)

			created, err := uc.createWithUniqueCode(txCtx, child)
			if err != nil {
				return err
			}
			installments = append(installments, *created)
		}
		return nil
	})
	if err != nil {
		uc.Log.Error("ledgerUsecase.CreateInstallments error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordAudit(ctx, &installments[0], actor, models.AuditActionCreate, models.AuditSeverityLow,
		fmt.Sprintf("%d installments created for %s", total, parentCode), nil)

	uc.Log.Info("ledgerUsecase.CreateInstallments completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(installments)),
	)
	return installments, nil
}

func (uc *ledgerUsecase) FindByCode(ctx context.Context, code string) (*models.FinancialTransaction, error) {
	transaction, err := uc.TransactionRepository.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, exceptions.ErrTransactionNotFound(nil)
	}
	return transaction, nil
}

func reportCacheKey(kind string, start, end time.Time) string {
	return fmt.Sprintf(constvars.RedisKeyReportFormat, kind, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
}

func (uc *ledgerUsecase) RevenueReport(ctx context.Context, start, end time.Time) (*models.RevenueReport, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("ledgerUsecase.RevenueReport called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	cacheKey := reportCacheKey("revenue", start, end)
	var cached models.RevenueReport
	if found, _ := uc.fromCache(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	transactions, err := uc.TransactionRepository.ListCompletedByTypeBetween(ctx, models.TransactionTypeIncome, start, end)
	if err != nil {
		uc.Log.Error("ledgerUsecase.RevenueReport error listing transactions",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	report := &models.RevenueReport{
		PeriodStart: start,
		PeriodEnd:   end,
		TotalGross:  decimal.Zero,
		TotalFees:   decimal.Zero,
		TotalNet:    decimal.Zero,
		ByCategory:  map[string]decimal.Decimal{},
	}
	for i := range transactions {
		transaction := &transactions[i]
		report.TransactionCount++
		report.TotalGross = report.TotalGross.Add(transaction.GrossAmount)
		report.TotalFees = report.TotalFees.Add(transaction.FeeAmount)
		report.TotalNet = report.TotalNet.Add(transaction.NetAmount)
		report.ByCategory[transaction.Category] = report.ByCategory[transaction.Category].Add(transaction.NetAmount)
	}

	uc.toCache(ctx, cacheKey, report)
	return report, nil
}

func (uc *ledgerUsecase) ExpensesReport(ctx context.Context, start, end time.Time) (*models.ExpensesReport, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("ledgerUsecase.ExpensesReport called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	cacheKey := reportCacheKey("expenses", start, end)
	var cached models.ExpensesReport
	if found, _ := uc.fromCache(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	transactions, err := uc.TransactionRepository.ListCompletedByTypeBetween(ctx, models.TransactionTypeExpense, start, end)
	if err != nil {
		uc.Log.Error("ledgerUsecase.ExpensesReport error listing transactions",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	report := &models.ExpensesReport{
		PeriodStart: start,
		PeriodEnd:   end,
		TotalAmount: decimal.Zero,
		ByCategory:  map[string]decimal.Decimal{},
	}
	for i := range transactions {
		transaction := &transactions[i]
		report.TransactionCount++
		report.TotalAmount = report.TotalAmount.Add(transaction.NetAmount)
		report.ByCategory[transaction.Category] = report.ByCategory[transaction.Category].Add(transaction.NetAmount)
	}

	uc.toCache(ctx, cacheKey, report)
	return report, nil
}

func (uc *ledgerUsecase) CashFlow(ctx context.Context, start, end time.Time) (*models.CashFlowReport, error) {
	revenue, err := uc.RevenueReport(ctx, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := uc.ExpensesReport(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &models.CashFlowReport{
		PeriodStart: start,
		PeriodEnd:   end,
		Revenue:     *revenue,
		Expenses:    *expenses,
		NetFlow:     revenue.TotalNet.Sub(expenses.TotalAmount),
	}, nil
}

func (uc *ledgerUsecase) fromCache(ctx context.Context, key string, target interface{}) (bool, error) {
	cached, err := uc.RedisRepository.Get(ctx, key)
	if err != nil || cached == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(cached), target); err != nil {
		return false, nil
	}
	return true, nil
}

func (uc *ledgerUsecase) toCache(ctx context.Context, key string, value interface{}) {
	if err := uc.RedisRepository.Set(ctx, key, value, constvars.ReportCacheTTL); err != nil {
		uc.Log.Warn("ledgerUsecase report cache write failed",
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
	}
}

// BookVoucherPayment books the patient's voucher purchase as a COMPLETED
// INCOME transaction. Called by the voucher engine on activation.
func (uc *ledgerUsecase) BookVoucherPayment(ctx context.Context, voucher *models.Voucher, paymentReference string, actor models.AuditActor) (*models.FinancialTransaction, error) {
	now := uc.Clock.Now()
	transaction := &models.FinancialTransaction{
		ID:              uc.Identity.NewUUID(),
		Type:            models.TransactionTypeIncome,
		Category:        "voucher",
		Status:          models.TransactionStatusCompleted,
		Description:     fmt.Sprintf("voucher %s purchase", voucher.Code),
		GrossAmount:     voucher.OriginalPrice,
		DiscountAmount:  voucher.DiscountAmount,
		TaxAmount:       decimal.Zero,
		WithholdingTax:  decimal.Zero,
		PaymentMethod:   "gateway",
		PatientID:       &voucher.PatientID,
		PartnerID:       &voucher.PartnerID,
		VoucherID:       &voucher.ID,
		TransactionDate: now,
		PaymentDate:     &now,
		CompetenceMonth: int(now.Month()),
		CompetenceYear:  now.Year(),
		BankReference:   &paymentReference,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	uc.splitFees(transaction)
	uc.partnerCommission(transaction, decimal.Zero)

	created, err := uc.createWithUniqueCode(ctx, transaction)
	if err != nil {
		return nil, err
	}
	uc.recordAudit(ctx, created, actor, models.AuditActionCreate, models.AuditSeverityLow,
		fmt.Sprintf("voucher %s payment booked", voucher.Code), nil)
	return created, nil
}

// BookSessionCommission books the partner payout for one completed session
// as a PENDING COMMISSION transaction against the per-session value.
func (uc *ledgerUsecase) BookSessionCommission(ctx context.Context, voucher *models.Voucher, usage *models.VoucherUsage, rate decimal.Decimal, actor models.AuditActor) (*models.FinancialTransaction, error) {
	now := uc.Clock.Now()
	sessionValue := voucher.SessionValue()

	// The commission base follows the fee-split rules for the session value.
	platformFee := sessionValue.Mul(decimal.NewFromFloat(uc.Fees.PlatformFeeRate)).Round(2)
	gatewayFee := sessionValue.Mul(decimal.NewFromFloat(uc.Fees.GatewayFeeRate)).Round(2)
	commission := sessionValue.Sub(platformFee).Sub(gatewayFee).
		Mul(uc.commissionRate(rate)).Round(2)

	transaction := &models.FinancialTransaction{
		ID:              uc.Identity.NewUUID(),
		Type:            models.TransactionTypeCommission,
		Category:        "commission",
		Status:          models.TransactionStatusPending,
		Description:     fmt.Sprintf("commission for session %s of voucher %s", usage.ID, voucher.Code),
		GrossAmount:     commission,
		DiscountAmount:  decimal.Zero,
		TaxAmount:       decimal.Zero,
		WithholdingTax:  decimal.Zero,
		PaymentMethod:   "transfer",
		PatientID:       &voucher.PatientID,
		PartnerID:       &voucher.PartnerID,
		VoucherID:       &voucher.ID,
		TransactionDate: now,
		CompetenceMonth: int(now.Month()),
		CompetenceYear:  now.Year(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	uc.splitFees(transaction)

	created, err := uc.createWithUniqueCode(ctx, transaction)
	if err != nil {
		return nil, err
	}
	uc.recordAudit(ctx, created, actor, models.AuditActionCreate, models.AuditSeverityLow,
		fmt.Sprintf("commission booked for voucher %s", voucher.Code), nil)
	return created, nil
}

// BookVoucherRefund books the refund counter-transaction for a voucher,
// parented to the original payment when one exists.
func (uc *ledgerUsecase) BookVoucherRefund(ctx context.Context, voucher *models.Voucher, amount decimal.Decimal, reason string, actor models.AuditActor) (*models.FinancialTransaction, error) {
	now := uc.Clock.Now()

	var parentID *string
	payment, err := uc.TransactionRepository.FindVoucherPaymentTransaction(ctx, voucher.ID)
	if err != nil {
		return nil, err
	}
	if payment != nil {
		parentID = &payment.ID
	}

	transaction := &models.FinancialTransaction{
		ID:                  uc.Identity.NewUUID(),
		Type:                models.TransactionTypeRefund,
		Category:            "voucher",
		Status:              models.TransactionStatusCompleted,
		Description:         fmt.Sprintf("refund of voucher %s: %s", voucher.Code, reason),
		GrossAmount:         amount,
		DiscountAmount:      decimal.Zero,
		TaxAmount:           decimal.Zero,
		WithholdingTax:      decimal.Zero,
		NetAmount:           amount,
		PaymentMethod:       "gateway",
		PatientID:           &voucher.PatientID,
		PartnerID:           &voucher.PartnerID,
		VoucherID:           &voucher.ID,
		TransactionDate:     now,
		PaymentDate:         &now,
		CompetenceMonth:     int(now.Month()),
		CompetenceYear:      now.Year(),
		ParentTransactionID: parentID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created, err := uc.createWithUniqueCode(ctx, transaction)
	if err != nil {
		return nil, err
	}
	uc.recordAudit(ctx, created, actor, models.AuditActionCreate, models.AuditSeverityMedium,
		fmt.Sprintf("voucher %s refund booked: %s", voucher.Code, reason), nil)
	return created, nil
}

func (uc *ledgerUsecase) recordAudit(ctx context.Context, transaction *models.FinancialTransaction, actor models.AuditActor, action models.AuditActionType, severity models.AuditSeverity, description string, oldValues map[string]interface{}) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.AuditUsecase.Record(ctx, &contracts.AuditEntry{
		ActionType:  action,
		Description: description,
		EntityType:  constvars.ResourceTransactions,
		EntityID:    transaction.ID,
		Actor:       actor,
		RequestID:   requestID,
		OldValues:   oldValues,
		NewValues: map[string]interface{}{
			"transaction_code": transaction.TransactionCode,
			"type":             string(transaction.Type),
			"status":           string(transaction.Status),
			"gross_amount":     transaction.GrossAmount.StringFixed(2),
			"net_amount":       transaction.NetAmount.StringFixed(2),
		},
		Severity: severity,
	})
}
