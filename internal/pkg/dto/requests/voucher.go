package requests

type IssueVoucher struct {
	PatientID         string   `json:"patient_id" validate:"required,uuid"`
	PartnerID         string   `json:"partner_id" validate:"required,uuid"`
	Type              string   `json:"type" validate:"required,voucher_type"`
	TotalSessions     int      `json:"total_sessions" validate:"required,gt=0"`
	OriginalPrice     string   `json:"original_price" validate:"required,money"`
	DiscountAmount    string   `json:"discount_amount" validate:"omitempty,money"`
	FinalPrice        string   `json:"final_price" validate:"required,money"`
	ServiceTypes      []string `json:"service_types,omitempty"`
	ExcludedLocations []string `json:"excluded_locations,omitempty"`
	Transferable      bool     `json:"transferable"`
	ValidFrom         string   `json:"valid_from,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type ActivateVoucher struct {
	PaymentReference string `json:"payment_reference" validate:"required"`
}

type RedeemVoucher struct {
	ServiceType     string `json:"service_type,omitempty"`
	ServiceLocation string `json:"service_location,omitempty"`
	ScheduledDate   string `json:"scheduled_date,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type CompleteUsage struct {
	DurationMinutes int     `json:"duration_minutes,omitempty" validate:"omitempty,gt=0"`
	Notes           string  `json:"notes,omitempty"`
	CommissionRate  float64 `json:"commission_rate,omitempty" validate:"omitempty,gt=0,lte=1"`
}

type CancelUsage struct {
	Reason string `json:"reason" validate:"required"`
}

type TransferVoucher struct {
	NewPatientID string `json:"new_patient_id" validate:"required,uuid"`
	Reason       string `json:"reason" validate:"required"`
}

type ExtendVoucher struct {
	Days   int    `json:"days" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required"`
}

type CancelVoucher struct {
	Reason string `json:"reason" validate:"required"`
}

type RefundVoucher struct {
	Amount string `json:"amount,omitempty" validate:"omitempty,money"`
	Reason string `json:"reason" validate:"required"`
}
