package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "INCOME"
	TransactionTypeExpense    TransactionType = "EXPENSE"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeRefund     TransactionType = "REFUND"
	TransactionTypeCommission TransactionType = "COMMISSION"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
)

// CodePrefix maps the transaction type to the three-letter prefix used in
// transaction codes (REC/DES/TRF/REF/COM/SAQ/DEP).
func (t TransactionType) CodePrefix() string {
	switch t {
	case TransactionTypeIncome:
		return "REC"
	case TransactionTypeExpense:
		return "DES"
	case TransactionTypeTransfer:
		return "TRF"
	case TransactionTypeRefund:
		return "REF"
	case TransactionTypeCommission:
		return "COM"
	case TransactionTypeWithdrawal:
		return "SAQ"
	case TransactionTypeDeposit:
		return "DEP"
	default:
		return ""
	}
}

func (t TransactionType) IsValid() bool {
	return t.CodePrefix() != ""
}

type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusProcessing TransactionStatus = "PROCESSING"
	TransactionStatusCompleted  TransactionStatus = "COMPLETED"
	TransactionStatusRefunded   TransactionStatus = "REFUNDED"
	TransactionStatusCancelled  TransactionStatus = "CANCELLED"
	TransactionStatusDisputed   TransactionStatus = "DISPUTED"
)

type FinancialTransaction struct {
	ID                  string            `json:"id"`
	TransactionCode     string            `json:"transaction_code"`
	Type                TransactionType   `json:"type"`
	Category            string            `json:"category"`
	Status              TransactionStatus `json:"status"`
	Description         string            `json:"description"`
	GrossAmount         decimal.Decimal   `json:"gross_amount"`
	DiscountAmount      decimal.Decimal   `json:"discount_amount"`
	TaxAmount           decimal.Decimal   `json:"tax_amount"`
	PlatformFee         decimal.Decimal   `json:"platform_fee"`
	GatewayFee          decimal.Decimal   `json:"gateway_fee"`
	FeeAmount           decimal.Decimal   `json:"fee_amount"`
	WithholdingTax      decimal.Decimal   `json:"withholding_tax"`
	PartnerCommission   decimal.Decimal   `json:"partner_commission"`
	NetAmount           decimal.Decimal   `json:"net_amount"`
	PaymentMethod       string            `json:"payment_method"`
	PatientID           *string           `json:"patient_id,omitempty"`
	PartnerID           *string           `json:"partner_id,omitempty"`
	VoucherID           *string           `json:"voucher_id,omitempty"`
	AppointmentID       *string           `json:"appointment_id,omitempty"`
	TransactionDate     time.Time         `json:"transaction_date"`
	DueDate             *time.Time        `json:"due_date,omitempty"`
	PaymentDate         *time.Time        `json:"payment_date,omitempty"`
	SettlementDate      *time.Time        `json:"settlement_date,omitempty"`
	CompetenceMonth     int               `json:"competence_month"`
	CompetenceYear      int               `json:"competence_year"`
	InstallmentNumber   int               `json:"installment_number"`
	InstallmentTotal    int               `json:"installment_total"`
	ParentTransactionID *string           `json:"parent_transaction_id,omitempty"`
	IsReconciled        bool              `json:"is_reconciled"`
	ReconciledAt        *time.Time        `json:"reconciled_at,omitempty"`
	BankReference       *string           `json:"bank_reference,omitempty"`
	CancellationReason  *string           `json:"cancellation_reason,omitempty"`
	CancelledBy         *string           `json:"cancelled_by,omitempty"`
	RefundReason        *string           `json:"refund_reason,omitempty"`
	RefundedBy          *string           `json:"refunded_by,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}
