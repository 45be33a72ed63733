package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func buildActiveVoucher() *Voucher {
	return &Voucher{
		Type:              VoucherTypePackage,
		Status:            VoucherStatusActive,
		TotalSessions:     10,
		UsedSessions:      3,
		RemainingSessions: 7,
		ValidFrom:         time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:        time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
		OriginalPrice:     decimal.NewFromInt(1000),
		DiscountAmount:    decimal.NewFromInt(100),
		FinalPrice:        decimal.NewFromInt(900),
	}
}

func TestVoucherTypeValidityDays(t *testing.T) {
	assert.Equal(t, 90, VoucherTypeSingle.ValidityDays())
	assert.Equal(t, 180, VoucherTypePackage.ValidityDays())
	assert.Equal(t, 30, VoucherTypeMonthly.ValidityDays())
	assert.Equal(t, 7, VoucherTypeWeekly.ValidityDays())
	assert.Equal(t, 14, VoucherTypeTrial.ValidityDays())
	assert.Equal(t, 0, VoucherType("UNKNOWN").ValidityDays())
	assert.False(t, VoucherType("UNKNOWN").IsValid())
}

func TestVoucherStatusIsTerminal(t *testing.T) {
	assert.True(t, VoucherStatusCancelled.IsTerminal())
	assert.True(t, VoucherStatusRefunded.IsTerminal())
	assert.False(t, VoucherStatusActive.IsTerminal())
	assert.False(t, VoucherStatusExpired.IsTerminal(), "expired vouchers can still be revived by an extension")
	assert.False(t, VoucherStatusUsed.IsTerminal())
}

func TestVoucherIsRedeemable(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Active Within Window", func(t *testing.T) {
		voucher := buildActiveVoucher()

		assert.True(t, voucher.IsRedeemable(now))
	})

	t.Run("Not Active", func(t *testing.T) {
		voucher := buildActiveVoucher()
		voucher.Status = VoucherStatusPending

		assert.False(t, voucher.IsRedeemable(now))
	})

	t.Run("Before Validity Window", func(t *testing.T) {
		voucher := buildActiveVoucher()

		assert.False(t, voucher.IsRedeemable(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("After Validity Window", func(t *testing.T) {
		voucher := buildActiveVoucher()

		assert.False(t, voucher.IsRedeemable(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("No Remaining Sessions", func(t *testing.T) {
		voucher := buildActiveVoucher()
		voucher.RemainingSessions = 0

		assert.False(t, voucher.IsRedeemable(now))
	})
}

func TestVoucherAllowsServiceType(t *testing.T) {
	t.Run("Empty Allow List Accepts Anything", func(t *testing.T) {
		voucher := buildActiveVoucher()

		assert.True(t, voucher.AllowsServiceType("pilates"))
	})

	t.Run("Restricted List", func(t *testing.T) {
		voucher := buildActiveVoucher()
		voucher.ServiceTypes = []string{"ortopedica", "rpg"}

		assert.True(t, voucher.AllowsServiceType("rpg"))
		assert.False(t, voucher.AllowsServiceType("pilates"))
	})

	t.Run("Empty Request Value Accepted", func(t *testing.T) {
		voucher := buildActiveVoucher()
		voucher.ServiceTypes = []string{"ortopedica"}

		assert.True(t, voucher.AllowsServiceType(""))
	})
}

func TestVoucherAllowsLocation(t *testing.T) {
	voucher := buildActiveVoucher()
	voucher.ExcludedLocations = []string{"unidade-centro"}

	assert.False(t, voucher.AllowsLocation("unidade-centro"))
	assert.True(t, voucher.AllowsLocation("unidade-sul"))
	assert.True(t, voucher.AllowsLocation(""), "empty location skips the restriction check")
}

func TestVoucherUsagePercent(t *testing.T) {
	voucher := buildActiveVoucher()

	assert.InDelta(t, 30.0, voucher.UsagePercent(), 0.0001)

	voucher.TotalSessions = 0
	assert.Zero(t, voucher.UsagePercent(), "zero total sessions should not divide")
}

func TestVoucherSessionValue(t *testing.T) {
	t.Run("Even Division", func(t *testing.T) {
		voucher := buildActiveVoucher()

		assert.Equal(t, "90.00", voucher.SessionValue().StringFixed(2))
	})

	t.Run("Rounded Division", func(t *testing.T) {
		voucher := buildActiveVoucher()
		voucher.FinalPrice = decimal.NewFromInt(1000)
		voucher.TotalSessions = 3

		assert.Equal(t, "333.33", voucher.SessionValue().StringFixed(2))
	})

	t.Run("Zero Sessions", func(t *testing.T) {
		voucher := buildActiveVoucher()
		voucher.TotalSessions = 0

		assert.True(t, voucher.SessionValue().IsZero())
	})
}

func TestVoucherDaysUntilExpiry(t *testing.T) {
	voucher := buildActiveVoucher()

	assert.Equal(t, 10, voucher.DaysUntilExpiry(time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -5, voucher.DaysUntilExpiry(time.Date(2026, time.July, 5, 0, 0, 0, 0, time.UTC)))
}
