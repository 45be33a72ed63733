package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type VoucherType string

const (
	VoucherTypeSingle  VoucherType = "SINGLE"
	VoucherTypePackage VoucherType = "PACKAGE"
	VoucherTypeMonthly VoucherType = "MONTHLY"
	VoucherTypeWeekly  VoucherType = "WEEKLY"
	VoucherTypeTrial   VoucherType = "TRIAL"
)

// ValidityDays returns how long a freshly issued voucher of this type stays valid.
func (t VoucherType) ValidityDays() int {
	switch t {
	case VoucherTypeSingle:
		return 90
	case VoucherTypePackage:
		return 180
	case VoucherTypeMonthly:
		return 30
	case VoucherTypeWeekly:
		return 7
	case VoucherTypeTrial:
		return 14
	default:
		return 0
	}
}

func (t VoucherType) IsValid() bool {
	switch t {
	case VoucherTypeSingle, VoucherTypePackage, VoucherTypeMonthly, VoucherTypeWeekly, VoucherTypeTrial:
		return true
	}
	return false
}

type VoucherStatus string

const (
	VoucherStatusPending   VoucherStatus = "PENDING"
	VoucherStatusActive    VoucherStatus = "ACTIVE"
	VoucherStatusUsed      VoucherStatus = "USED"
	VoucherStatusExpired   VoucherStatus = "EXPIRED"
	VoucherStatusCancelled VoucherStatus = "CANCELLED"
	VoucherStatusRefunded  VoucherStatus = "REFUNDED"
)

// IsTerminal reports whether no further lifecycle transition is allowed.
func (s VoucherStatus) IsTerminal() bool {
	return s == VoucherStatusCancelled || s == VoucherStatusRefunded
}

type Voucher struct {
	ID                 string          `json:"id"`
	Code               string          `json:"code"`
	Type               VoucherType     `json:"type"`
	Status             VoucherStatus   `json:"status"`
	PatientID          string          `json:"patient_id"`
	PartnerID          string          `json:"partner_id"`
	TotalSessions      int             `json:"total_sessions"`
	UsedSessions       int             `json:"used_sessions"`
	RemainingSessions  int             `json:"remaining_sessions"`
	ValidFrom          time.Time       `json:"valid_from"`
	ValidUntil         time.Time       `json:"valid_until"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	FinalPrice         decimal.Decimal `json:"final_price"`
	Transferable       bool            `json:"transferable"`
	TransferredTo      *string         `json:"transferred_to,omitempty"`
	TransferDate       *time.Time      `json:"transfer_date,omitempty"`
	ServiceTypes       []string        `json:"service_types,omitempty"`
	ExcludedLocations  []string        `json:"excluded_locations,omitempty"`
	PaymentStatus      string          `json:"payment_status"`
	PaymentReference   *string         `json:"payment_reference,omitempty"`
	PaymentDate        *time.Time      `json:"payment_date,omitempty"`
	ActivatedAt        *time.Time      `json:"activated_at,omitempty"`
	ExpiredAt          *time.Time      `json:"expired_at,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	RefundedAt         *time.Time      `json:"refunded_at,omitempty"`
	RefundAmount       decimal.Decimal `json:"refund_amount"`
	RefundReason       *string         `json:"refund_reason,omitempty"`
	CancellationReason *string         `json:"cancellation_reason,omitempty"`
	TotalCancellations int             `json:"total_cancellations"`
	TotalNoShows       int             `json:"total_no_shows"`
	InternalNotes      *string         `json:"internal_notes,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// IsRedeemable reports whether the voucher can consume one more session at
// the given instant. Callers must evaluate this once per operation, after the
// row lock is held.
func (v *Voucher) IsRedeemable(now time.Time) bool {
	if v.Status != VoucherStatusActive {
		return false
	}
	if now.Before(v.ValidFrom) || now.After(v.ValidUntil) {
		return false
	}
	return v.RemainingSessions > 0
}

// AllowsServiceType checks the service-type restriction; an empty allow list
// means any service type is accepted.
func (v *Voucher) AllowsServiceType(serviceType string) bool {
	if serviceType == "" || len(v.ServiceTypes) == 0 {
		return true
	}
	for _, allowed := range v.ServiceTypes {
		if allowed == serviceType {
			return true
		}
	}
	return false
}

// AllowsLocation checks the location restriction list.
func (v *Voucher) AllowsLocation(location string) bool {
	if location == "" {
		return true
	}
	for _, excluded := range v.ExcludedLocations {
		if excluded == location {
			return false
		}
	}
	return true
}

// UsagePercent returns consumed sessions as a 0-100 percentage.
func (v *Voucher) UsagePercent() float64 {
	if v.TotalSessions == 0 {
		return 0
	}
	return float64(v.UsedSessions) / float64(v.TotalSessions) * 100
}

// DaysUntilExpiry returns whole days remaining before valid_until; negative
// when already past.
func (v *Voucher) DaysUntilExpiry(now time.Time) int {
	return int(v.ValidUntil.Sub(now).Hours() / 24)
}

// SessionValue is the monetary value of one session (final price divided by
// total sessions), rounded half-up to two decimals.
func (v *Voucher) SessionValue() decimal.Decimal {
	if v.TotalSessions == 0 {
		return decimal.Zero
	}
	return v.FinalPrice.Div(decimal.NewFromInt(int64(v.TotalSessions))).Round(2)
}
