package contracts

import (
	"context"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/dto/requests"
	"time"

	"github.com/shopspring/decimal"
)

type VoucherUsecase interface {
	Issue(ctx context.Context, request *requests.IssueVoucher, actor models.AuditActor) (*models.Voucher, error)
	Activate(ctx context.Context, code, paymentReference string, actor models.AuditActor) (*models.Voucher, error)
	Redeem(ctx context.Context, code string, request *requests.RedeemVoucher, actor models.AuditActor) (*models.VoucherUsage, error)
	CompleteUsage(ctx context.Context, usageID string, request *requests.CompleteUsage, actor models.AuditActor) (*models.VoucherUsage, error)
	CancelUsage(ctx context.Context, usageID, reason string, actor models.AuditActor) (*models.VoucherUsage, error)
	MarkNoShow(ctx context.Context, usageID string, actor models.AuditActor) (*models.VoucherUsage, error)
	Transfer(ctx context.Context, code, newPatientID, reason string, actor models.AuditActor) (*models.Voucher, error)
	Extend(ctx context.Context, code string, days int, reason string, actor models.AuditActor) (*models.Voucher, error)
	Cancel(ctx context.Context, code, reason string, actor models.AuditActor) (*models.Voucher, error)
	Refund(ctx context.Context, code string, amount *decimal.Decimal, reason string, actor models.AuditActor) (*models.Voucher, error)
	CalculateRefund(ctx context.Context, code, feeType string) (decimal.Decimal, error)
	SweepExpired(ctx context.Context) (int, error)
	FindByCode(ctx context.Context, code string) (*models.Voucher, error)
	ListUsages(ctx context.Context, code string) ([]models.VoucherUsage, error)
}

// VoucherRepository is the relational store port for vouchers and their
// usages. Methods suffixed ForUpdate take an exclusive row lock and are only
// valid inside RunInTx.
type VoucherRepository interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateVoucher(ctx context.Context, voucher *models.Voucher) (*models.Voucher, error)
	FindVoucherByCode(ctx context.Context, code string) (*models.Voucher, error)
	FindVoucherByCodeForUpdate(ctx context.Context, code string) (*models.Voucher, error)
	FindVoucherByIDForUpdate(ctx context.Context, voucherID string) (*models.Voucher, error)
	UpdateVoucher(ctx context.Context, voucher *models.Voucher) (*models.Voucher, error)
	ExpireDue(ctx context.Context, now time.Time) ([]models.Voucher, error)
	CreateUsage(ctx context.Context, usage *models.VoucherUsage) (*models.VoucherUsage, error)
	FindUsageByID(ctx context.Context, usageID string) (*models.VoucherUsage, error)
	FindUsageByIDForUpdate(ctx context.Context, usageID string) (*models.VoucherUsage, error)
	UpdateUsage(ctx context.Context, usage *models.VoucherUsage) (*models.VoucherUsage, error)
	ListUsagesByVoucherID(ctx context.Context, voucherID string) ([]models.VoucherUsage, error)
}
