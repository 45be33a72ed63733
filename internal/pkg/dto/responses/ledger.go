package responses

type TransactionResponse struct {
	ID                  string  `json:"id"`
	TransactionCode     string  `json:"transaction_code"`
	Type                string  `json:"type"`
	Category            string  `json:"category"`
	Status              string  `json:"status"`
	Description         string  `json:"description,omitempty"`
	GrossAmount         string  `json:"gross_amount"`
	DiscountAmount      string  `json:"discount_amount"`
	TaxAmount           string  `json:"tax_amount"`
	PlatformFee         string  `json:"platform_fee"`
	GatewayFee          string  `json:"gateway_fee"`
	FeeAmount           string  `json:"fee_amount"`
	WithholdingTax      string  `json:"withholding_tax"`
	PartnerCommission   string  `json:"partner_commission"`
	NetAmount           string  `json:"net_amount"`
	PaymentMethod       string  `json:"payment_method"`
	PatientID           *string `json:"patient_id,omitempty"`
	PartnerID           *string `json:"partner_id,omitempty"`
	VoucherID           *string `json:"voucher_id,omitempty"`
	TransactionDate     string  `json:"transaction_date"`
	DueDate             *string `json:"due_date,omitempty"`
	PaymentDate         *string `json:"payment_date,omitempty"`
	CompetenceMonth     int     `json:"competence_month"`
	CompetenceYear      int     `json:"competence_year"`
	InstallmentNumber   int     `json:"installment_number,omitempty"`
	InstallmentTotal    int     `json:"installment_total,omitempty"`
	ParentTransactionID *string `json:"parent_transaction_id,omitempty"`
	IsReconciled        bool    `json:"is_reconciled"`
	BankReference       *string `json:"bank_reference,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

type RevenueReportResponse struct {
	PeriodStart      string            `json:"period_start"`
	PeriodEnd        string            `json:"period_end"`
	TransactionCount int64             `json:"transaction_count"`
	TotalGross       string            `json:"total_gross"`
	TotalFees        string            `json:"total_fees"`
	TotalNet         string            `json:"total_net"`
	ByCategory       map[string]string `json:"by_category"`
}

type ExpensesReportResponse struct {
	PeriodStart      string            `json:"period_start"`
	PeriodEnd        string            `json:"period_end"`
	TransactionCount int64             `json:"transaction_count"`
	TotalAmount      string            `json:"total_amount"`
	ByCategory       map[string]string `json:"by_category"`
}

type CashFlowReportResponse struct {
	PeriodStart string                 `json:"period_start"`
	PeriodEnd   string                 `json:"period_end"`
	Revenue     RevenueReportResponse  `json:"revenue"`
	Expenses    ExpensesReportResponse `json:"expenses"`
	NetFlow     string                 `json:"net_flow"`
}
