package contracts

import (
	"context"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/dto/requests"
	"time"

	"github.com/shopspring/decimal"
)

type LedgerUsecase interface {
	Record(ctx context.Context, request *requests.RecordTransaction, actor models.AuditActor) (*models.FinancialTransaction, error)
	Process(ctx context.Context, code string, actor models.AuditActor) (*models.FinancialTransaction, error)
	Complete(ctx context.Context, code string, paymentDate *time.Time, actor models.AuditActor) (*models.FinancialTransaction, error)
	Cancel(ctx context.Context, code, reason string, actor models.AuditActor) (*models.FinancialTransaction, error)
	Refund(ctx context.Context, code string, amount *decimal.Decimal, reason string, actor models.AuditActor) (*models.FinancialTransaction, error)
	Reconcile(ctx context.Context, code, bankReference string, actor models.AuditActor) (*models.FinancialTransaction, error)
	CreateInstallments(ctx context.Context, parentCode string, total int, actor models.AuditActor) ([]models.FinancialTransaction, error)
	FindByCode(ctx context.Context, code string) (*models.FinancialTransaction, error)
	RevenueReport(ctx context.Context, start, end time.Time) (*models.RevenueReport, error)
	ExpensesReport(ctx context.Context, start, end time.Time) (*models.ExpensesReport, error)
	CashFlow(ctx context.Context, start, end time.Time) (*models.CashFlowReport, error)

	// Bookings invoked by the voucher engine on lifecycle transitions.
	BookVoucherPayment(ctx context.Context, voucher *models.Voucher, paymentReference string, actor models.AuditActor) (*models.FinancialTransaction, error)
	// BookSessionCommission accepts a per-partner rate override; a
	// non-positive rate falls back to the configured default.
	BookSessionCommission(ctx context.Context, voucher *models.Voucher, usage *models.VoucherUsage, rate decimal.Decimal, actor models.AuditActor) (*models.FinancialTransaction, error)
	BookVoucherRefund(ctx context.Context, voucher *models.Voucher, amount decimal.Decimal, reason string, actor models.AuditActor) (*models.FinancialTransaction, error)
}

// TransactionRepository is the relational store port for financial
// transactions. ForUpdate methods take an exclusive row lock and are only
// valid inside RunInTx; parent-scoped mutations (installments, refunds) lock
// the parent row.
type TransactionRepository interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateTransaction(ctx context.Context, transaction *models.FinancialTransaction) (*models.FinancialTransaction, error)
	FindByCode(ctx context.Context, code string) (*models.FinancialTransaction, error)
	FindByCodeForUpdate(ctx context.Context, code string) (*models.FinancialTransaction, error)
	FindByIDForUpdate(ctx context.Context, transactionID string) (*models.FinancialTransaction, error)
	UpdateTransaction(ctx context.Context, transaction *models.FinancialTransaction) (*models.FinancialTransaction, error)
	ListByParentID(ctx context.Context, parentID string) ([]models.FinancialTransaction, error)
	ListCompletedByTypeBetween(ctx context.Context, txType models.TransactionType, start, end time.Time) ([]models.FinancialTransaction, error)
	FindVoucherPaymentTransaction(ctx context.Context, voucherID string) (*models.FinancialTransaction, error)
}
