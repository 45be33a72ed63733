package models

import "time"

type VoucherUsageStatus string

const (
	VoucherUsageStatusScheduled VoucherUsageStatus = "SCHEDULED"
	VoucherUsageStatusCompleted VoucherUsageStatus = "COMPLETED"
	VoucherUsageStatusCancelled VoucherUsageStatus = "CANCELLED"
	VoucherUsageStatusNoShow    VoucherUsageStatus = "NO_SHOW"
)

type VoucherUsage struct {
	ID              string             `json:"id"`
	VoucherID       string             `json:"voucher_id"`
	Status          VoucherUsageStatus `json:"status"`
	ScheduledDate   time.Time          `json:"scheduled_date"`
	ActualDate      *time.Time         `json:"actual_date,omitempty"`
	DurationMinutes int                `json:"duration_minutes"`
	ServiceType     string             `json:"service_type,omitempty"`
	ServiceLocation string             `json:"service_location,omitempty"`
	PatientRating   *int               `json:"patient_rating,omitempty"`
	PartnerRating   *int               `json:"partner_rating,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	CancelReason    *string            `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}
