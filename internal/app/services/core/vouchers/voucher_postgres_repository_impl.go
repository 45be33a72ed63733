package vouchers

import (
	"context"
	"database/sql"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/app/drivers/database"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/exceptions"
	"fisioflow-service/internal/pkg/queries"
	"sync"
	"time"

	"github.com/lib/pq"
)

var (
	voucherPostgresRepositoryInstance contracts.VoucherRepository
	onceVoucherPostgresRepository     sync.Once
)

type voucherPostgresRepository struct {
	DB *sql.DB
}

func NewVoucherPostgresRepository(db *sql.DB) contracts.VoucherRepository {
	onceVoucherPostgresRepository.Do(func() {
		voucherPostgresRepositoryInstance = &voucherPostgresRepository{
			DB: db,
		}
	})
	return voucherPostgresRepositoryInstance
}

func (repo *voucherPostgresRepository) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.RunInTx(ctx, repo.DB, fn)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVoucher(row rowScanner) (*models.Voucher, error) {
	var voucher models.Voucher
	var serviceTypes, excludedLocations pq.StringArray
	err := row.Scan(
		&voucher.ID,
		&voucher.Code,
		&voucher.Type,
		&voucher.Status,
		&voucher.PatientID,
		&voucher.PartnerID,
		&voucher.TotalSessions,
		&voucher.UsedSessions,
		&voucher.RemainingSessions,
		&voucher.ValidFrom,
		&voucher.ValidUntil,
		&voucher.OriginalPrice,
		&voucher.DiscountAmount,
		&voucher.FinalPrice,
		&voucher.Transferable,
		&voucher.TransferredTo,
		&voucher.TransferDate,
		&serviceTypes,
		&excludedLocations,
		&voucher.PaymentStatus,
		&voucher.PaymentReference,
		&voucher.PaymentDate,
		&voucher.ActivatedAt,
		&voucher.ExpiredAt,
		&voucher.CancelledAt,
		&voucher.RefundedAt,
		&voucher.RefundAmount,
		&voucher.RefundReason,
		&voucher.CancellationReason,
		&voucher.TotalCancellations,
		&voucher.TotalNoShows,
		&voucher.InternalNotes,
		&voucher.CreatedAt,
		&voucher.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	voucher.ServiceTypes = []string(serviceTypes)
	voucher.ExcludedLocations = []string(excludedLocations)
	return &voucher, nil
}

func (repo *voucherPostgresRepository) CreateVoucher(ctx context.Context, voucher *models.Voucher) (*models.Voucher, error) {
	querier := database.QuerierFromContext(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.InsertVoucher,
		voucher.ID,
		voucher.Code,
		voucher.Type,
		voucher.Status,
		voucher.PatientID,
		voucher.PartnerID,
		voucher.TotalSessions,
		voucher.UsedSessions,
		voucher.RemainingSessions,
		voucher.ValidFrom,
		voucher.ValidUntil,
		voucher.OriginalPrice,
		voucher.DiscountAmount,
		voucher.FinalPrice,
		voucher.Transferable,
		voucher.TransferredTo,
		voucher.TransferDate,
		pq.Array(voucher.ServiceTypes),
		pq.Array(voucher.ExcludedLocations),
		voucher.PaymentStatus,
		voucher.PaymentReference,
		voucher.PaymentDate,
		voucher.ActivatedAt,
		voucher.ExpiredAt,
		voucher.CancelledAt,
		voucher.RefundedAt,
		voucher.RefundAmount,
		voucher.RefundReason,
		voucher.CancellationReason,
		voucher.TotalCancellations,
		voucher.TotalNoShows,
		voucher.InternalNotes,
		voucher.CreatedAt,
		voucher.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, exceptions.ErrCodeGenerationExhausted(err)
		}
		return nil, exceptions.ErrPostgresDBInsertData(err)
	}
	return voucher, nil
}

func (repo *voucherPostgresRepository) findVoucher(ctx context.Context, query string, arg interface{}) (*models.Voucher, error) {
	querier := database.QuerierFromContext(ctx, repo.DB)
	voucher, err := scanVoucher(querier.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return voucher, nil
}

func (repo *voucherPostgresRepository) FindVoucherByCode(ctx context.Context, code string) (*models.Voucher, error) {
	return repo.findVoucher(ctx, queries.GetVoucherByCode, code)
}

func (repo *voucherPostgresRepository) FindVoucherByCodeForUpdate(ctx context.Context, code string) (*models.Voucher, error) {
	return repo.findVoucher(ctx, queries.GetVoucherByCodeForUpdate, code)
}

func (repo *voucherPostgresRepository) FindVoucherByIDForUpdate(ctx context.Context, voucherID string) (*models.Voucher, error) {
	return repo.findVoucher(ctx, queries.GetVoucherByIDForUpdate, voucherID)
}

func (repo *voucherPostgresRepository) UpdateVoucher(ctx context.Context, voucher *models.Voucher) (*models.Voucher, error) {
	querier := database.QuerierFromContext(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.UpdateVoucher,
		voucher.ID,
		voucher.Status,
		voucher.UsedSessions,
		voucher.RemainingSessions,
		voucher.ValidUntil,
		voucher.TransferredTo,
		voucher.TransferDate,
		voucher.PaymentStatus,
		voucher.PaymentReference,
		voucher.PaymentDate,
		voucher.ActivatedAt,
		voucher.ExpiredAt,
		voucher.CancelledAt,
		voucher.RefundedAt,
		voucher.RefundAmount,
		voucher.RefundReason,
		voucher.CancellationReason,
		voucher.TotalCancellations,
		voucher.TotalNoShows,
		voucher.InternalNotes,
		voucher.UpdatedAt,
	)
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	return voucher, nil
}

func (repo *voucherPostgresRepository) ExpireDue(ctx context.Context, now time.Time) ([]models.Voucher, error) {
	querier := database.QuerierFromContext(ctx, repo.DB)
	rows, err := querier.QueryContext(ctx, queries.ExpireDueVouchers, now)
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	defer rows.Close()

	var expired []models.Voucher
	for rows.Next() {
		voucher, err := scanVoucher(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBIterateDataset(err)
		}
		expired = append(expired, *voucher)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return expired, nil
}

func scanUsage(row rowScanner) (*models.VoucherUsage, error) {
	var usage models.VoucherUsage
	err := row.Scan(
		&usage.ID,
		&usage.VoucherID,
		&usage.Status,
		&usage.ScheduledDate,
		&usage.ActualDate,
		&usage.DurationMinutes,
		&usage.ServiceType,
		&usage.ServiceLocation,
		&usage.PatientRating,
		&usage.PartnerRating,
		&usage.Notes,
		&usage.CancelReason,
		&usage.CreatedAt,
		&usage.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

func (repo *voucherPostgresRepository) CreateUsage(ctx context.Context, usage *models.VoucherUsage) (*models.VoucherUsage, error) {
	querier := database.QuerierFromContext(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.InsertVoucherUsage,
		usage.ID,
		usage.VoucherID,
		usage.Status,
		usage.ScheduledDate,
		usage.ActualDate,
		usage.DurationMinutes,
		usage.ServiceType,
		usage.ServiceLocation,
		usage.PatientRating,
		usage.PartnerRating,
		usage.Notes,
		usage.CancelReason,
		usage.CreatedAt,
		usage.UpdatedAt,
	)
	if err != nil {
		return nil, exceptions.ErrPostgresDBInsertData(err)
	}
	return usage, nil
}

func (repo *voucherPostgresRepository) findUsage(ctx context.Context, query, usageID string) (*models.VoucherUsage, error) {
	querier := database.QuerierFromContext(ctx, repo.DB)
	usage, err := scanUsage(querier.QueryRowContext(ctx, query, usageID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return usage, nil
}

func (repo *voucherPostgresRepository) FindUsageByID(ctx context.Context, usageID string) (*models.VoucherUsage, error) {
	return repo.findUsage(ctx, queries.GetVoucherUsageByID, usageID)
}

func (repo *voucherPostgresRepository) FindUsageByIDForUpdate(ctx context.Context, usageID string) (*models.VoucherUsage, error) {
	return repo.findUsage(ctx, queries.GetVoucherUsageByIDForUpdate, usageID)
}

func (repo *voucherPostgresRepository) UpdateUsage(ctx context.Context, usage *models.VoucherUsage) (*models.VoucherUsage, error) {
	querier := database.QuerierFromContext(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.UpdateVoucherUsage,
		usage.ID,
		usage.Status,
		usage.ActualDate,
		usage.DurationMinutes,
		usage.PatientRating,
		usage.PartnerRating,
		usage.Notes,
		usage.CancelReason,
		usage.UpdatedAt,
	)
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	return usage, nil
}

func (repo *voucherPostgresRepository) ListUsagesByVoucherID(ctx context.Context, voucherID string) ([]models.VoucherUsage, error) {
	querier := database.QuerierFromContext(ctx, repo.DB)
	rows, err := querier.QueryContext(ctx, queries.GetVoucherUsagesByVoucherID, voucherID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var usages []models.VoucherUsage
	for rows.Next() {
		usage, err := scanUsage(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBIterateDataset(err)
		}
		usages = append(usages, *usage)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return usages, nil
}
