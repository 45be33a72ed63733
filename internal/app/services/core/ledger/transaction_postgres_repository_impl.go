package ledger

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
)

var (
	transactionPostgresRepositoryInstance contracts.TransactionRepository
	onceTransactionPostgresRepository     sync.Once
)

type transactionPostgresRepository struct {
	DB *sql.DB
}

func NewTransactionPostgresRepository(db *sql.DB) contracts.TransactionRepository {
	onceTransactionPostgresRepository.Do(func() {
		transactionPostgresRepositoryInstance = &transactionPostgresRepository{
			DB: db,
		}
	})
	return transactionPostgresRepositoryInstance
}

func (repo *transactionPostgresRepository) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.RunInTx(ctx, repo.DB, fn)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*models.FinancialTransaction, error) {
	var transaction models.FinancialTransaction
	err := row.Scan(
		&transaction.ID,
		&transaction.TransactionCode,
		&transaction.Type,
		&transaction.Category,
		&transaction.Status,
		&transaction.Description,
		&transaction.GrossAmount,
		&transaction.DiscountAmount,
		&transaction.TaxAmount,
		&transaction.PlatformFee,
		&transaction.GatewayFee,
		&transaction.FeeAmount,
		&transaction.WithholdingTax,
		&transaction.PartnerCommission,
		&transaction.NetAmount,
		&transaction.PaymentMethod,
		&transaction.PatientID,
		&transaction.PartnerID,
		&transaction.VoucherID,
		&transaction.AppointmentID,
		&transaction.TransactionDate,
		&transaction.DueDate,
		&transaction.PaymentDate,
		&transaction.SettlementDate,
		&transaction.CompetenceMonth,
		&transaction.CompetenceYear,
		&transaction.InstallmentNumber,
		&transaction.InstallmentTotal,
		&transaction.ParentTransactionID,
		&transaction.IsReconciled,
		&transaction.ReconciledAt,
		&transaction.BankReference,
		&transaction.CancellationReason,
		&transaction.CancelledBy,
		&transaction.RefundReason,
		&transaction.RefundedBy,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (repo *transactionPostgresRepository) CreateTransaction(ctx context.Context, transaction *models.FinancialTransaction) (*models.FinancialTransaction, error) {
	querier := database.QuerierFromContext(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.InsertTransaction,
		transaction.ID,
		transaction.TransactionCode,
		transaction.Type,
		transaction.Category,
		transaction.Status,
		transaction.Description,
		transaction.GrossAmount,
		transaction.DiscountAmount,
		transaction.TaxAmount,
		transaction.PlatformFee,
		transaction.GatewayFee,
		transaction.FeeAmount,
		transaction.WithholdingTax,
		transaction.PartnerCommission,
		transaction.NetAmount,
		transaction.PaymentMethod,
		transaction.PatientID,
		transaction.PartnerID,
		transaction.VoucherID,
		transaction.AppointmentID,
		transaction.TransactionDate,
		transaction.DueDate,
		transaction.PaymentDate,
		transaction.SettlementDate,
		transaction.CompetenceMonth,
		transaction.CompetenceYear,
		transaction.InstallmentNumber,
		transaction.InstallmentTotal,
		transaction.ParentTransactionID,
		transaction.IsReconciled,
		transaction.ReconciledAt,
		transaction.BankReference,
		transaction.CancellationReason,
		transaction.CancelledBy,
		transaction.RefundReason,
		transaction.RefundedBy,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, exceptions.ErrCodeGenerationExhausted(err)
		}
		return nil, exceptions.ErrPostgresDBInsertData(err)
	}
	return transaction, nil
}

func (repo *transactionPostgresRepository) findTransaction(ctx context.Context, query string, arg interface{}) (*models.FinancialTransaction, error) {
	querier := database.QuerierFromContext(ctx, repo.DB)
	transaction, err := scanTransaction(querier.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return transaction, nil
}

func (repo *transactionPostgresRepository) FindByCode(ctx context.Context, code string) (*models.FinancialTransaction, error) {
	return repo.findTransaction(ctx, queries.GetTransactionByCode, code)
}

func (repo *transactionPostgresRepository) FindByCodeForUpdate(ctx context.Context, code string) (*models.FinancialTransaction, error) {
	return repo.findTransaction(ctx, queries.GetTransactionByCodeForUpdate, code)
}

func (repo *transactionPostgresRepository) FindByIDForUpdate(ctx context.Context, transactionID string) (*models.FinancialTransaction, error) {
	return repo.findTransaction(ctx, queries.GetTransactionByIDForUpdate, transactionID)
}

func (repo *transactionPostgresRepository) UpdateTransaction(ctx context.Context, transaction *models.FinancialTransaction) (*models.FinancialTransaction, error) {
	querier := database.QuerierFromContext(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.UpdateTransaction,
		transaction.ID,
		transaction.Status,
		transaction.PaymentDate,
		transaction.SettlementDate,
		transaction.IsReconciled,
		transaction.ReconciledAt,
		transaction.BankReference,
		transaction.CancellationReason,
		transaction.CancelledBy,
		transaction.RefundReason,
		transaction.RefundedBy,
		transaction.UpdatedAt,
	)
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	return transaction, nil
}

func (repo *transactionPostgresRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]models.FinancialTransaction, error) {
	querier := database.QuerierFromContext(ctx, repo.DB)
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var transactions []models.FinancialTransaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBIterateDataset(err)
		}
		transactions = append(transactions, *transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return transactions, nil
}

func (repo *transactionPostgresRepository) ListByParentID(ctx context.Context, parentID string) ([]models.FinancialTransaction, error) {
	return repo.queryTransactions(ctx, queries.GetTransactionsByParentID, parentID)
}

func (repo *transactionPostgresRepository) ListCompletedByTypeBetween(ctx context.Context, txType models.TransactionType, start, end time.Time) ([]models.FinancialTransaction, error) {
	return repo.queryTransactions(ctx, queries.GetCompletedTransactionsByTypeBetween, txType, start, end)
}

func (repo *transactionPostgresRepository) FindVoucherPaymentTransaction(ctx context.Context, voucherID string) (*models.FinancialTransaction, error) {
	return repo.findTransaction(ctx, queries.GetVoucherPaymentTransaction, voucherID)
}
