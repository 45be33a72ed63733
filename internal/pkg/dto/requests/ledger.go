package requests

type RecordTransaction struct {
	Type            string  `json:"type" validate:"required,transaction_type"`
	Category        string  `json:"category" validate:"required"`
	Description     string  `json:"description,omitempty"`
	GrossAmount     string  `json:"gross_amount" validate:"required,money"`
	DiscountAmount  string  `json:"discount_amount,omitempty" validate:"omitempty,money"`
	TaxAmount       string  `json:"tax_amount,omitempty" validate:"omitempty,money"`
	WithholdingTax  string  `json:"withholding_tax,omitempty" validate:"omitempty,money"`
	PaymentMethod   string  `json:"payment_method" validate:"required"`
	PatientID       *string `json:"patient_id,omitempty" validate:"omitempty,uuid"`
	PartnerID       *string `json:"partner_id,omitempty" validate:"omitempty,uuid"`
	VoucherID       *string `json:"voucher_id,omitempty" validate:"omitempty,uuid"`
	AppointmentID   *string `json:"appointment_id,omitempty" validate:"omitempty,uuid"`
	TransactionDate string  `json:"transaction_date,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DueDate         string  `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type CompleteTransaction struct {
	PaymentDate string `json:"payment_date,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type CancelTransaction struct {
	Reason string `json:"reason" validate:"required"`
}

type RefundTransaction struct {
	Amount string `json:"amount,omitempty" validate:"omitempty,money"`
	Reason string `json:"reason" validate:"required"`
}

type ReconcileTransaction struct {
	BankReference string `json:"bank_reference" validate:"required"`
}

type CreateInstallments struct {
	Total int `json:"total" validate:"required,gt=0"`
}
