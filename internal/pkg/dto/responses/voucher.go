package responses

// VoucherResponse is the wire shape of a voucher. Monetary amounts are
// strings with two fractional digits; timestamps RFC3339 UTC.
type VoucherResponse struct {
	ID                 string   `json:"id"`
	Code               string   `json:"code"`
	Type               string   `json:"type"`
	Status             string   `json:"status"`
	PatientID          string   `json:"patient_id"`
	PartnerID          string   `json:"partner_id"`
	TotalSessions      int      `json:"total_sessions"`
	UsedSessions       int      `json:"used_sessions"`
	RemainingSessions  int      `json:"remaining_sessions"`
	UsagePercent       float64  `json:"usage_percent"`
	DaysUntilExpiry    int      `json:"days_until_expiry"`
	ValidFrom          string   `json:"valid_from"`
	ValidUntil         string   `json:"valid_until"`
	OriginalPrice      string   `json:"original_price"`
	DiscountAmount     string   `json:"discount_amount"`
	FinalPrice         string   `json:"final_price"`
	RefundAmount       string   `json:"refund_amount,omitempty"`
	Transferable       bool     `json:"transferable"`
	TransferredTo      *string  `json:"transferred_to,omitempty"`
	ServiceTypes       []string `json:"service_types,omitempty"`
	ExcludedLocations  []string `json:"excluded_locations,omitempty"`
	TotalCancellations int      `json:"total_cancellations"`
	TotalNoShows       int      `json:"total_no_shows"`
	ActivatedAt        *string  `json:"activated_at,omitempty"`
	ExpiredAt          *string  `json:"expired_at,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

type VoucherUsageResponse struct {
	ID              string  `json:"id"`
	VoucherID       string  `json:"voucher_id"`
	Status          string  `json:"status"`
	ScheduledDate   string  `json:"scheduled_date"`
	ActualDate      *string `json:"actual_date,omitempty"`
	DurationMinutes int     `json:"duration_minutes,omitempty"`
	ServiceType     string  `json:"service_type,omitempty"`
	ServiceLocation string  `json:"service_location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CancelReason    *string `json:"cancel_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type SweepResponse struct {
	Count int `json:"count"`
}
