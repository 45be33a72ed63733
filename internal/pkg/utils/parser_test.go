package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseMoney(t *testing.T) {
	t.Run("Valid Amount", func(t *testing.T) {
		amount, err := ParseMoney("gross_amount", "1500.50")

		assert.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(1500.50).Equal(amount), "amount should parse exactly")
	})

	t.Run("Empty Value Parses To Zero", func(t *testing.T) {
		amount, err := ParseMoney("discount_amount", "")

		assert.NoError(t, err)
		assert.True(t, amount.IsZero(), "empty input should mean zero")
	})

	t.Run("Rounds To Two Places", func(t *testing.T) {
		amount, err := ParseMoney("gross_amount", "10.005")

		assert.NoError(t, err)
		assert.Equal(t, "10.01", amount.StringFixed(2), "amount should round half up to cents")
	})

	t.Run("Negative Amount Rejected", func(t *testing.T) {
		_, err := ParseMoney("gross_amount", "-5.00")

		assert.Error(t, err, "negative amounts should be rejected")
	})

	t.Run("Garbage Rejected", func(t *testing.T) {
		_, err := ParseMoney("gross_amount", "ten reais")

		assert.Error(t, err)
	})
}

func TestParseTimestamp(t *testing.T) {
	t.Run("Normalizes To UTC", func(t *testing.T) {
		parsed, err := ParseTimestamp("transaction_date", "2026-03-15T10:30:00-03:00")

		assert.NoError(t, err)
		assert.Equal(t, time.UTC, parsed.Location())
		assert.Equal(t, time.Date(2026, time.March, 15, 13, 30, 0, 0, time.UTC), parsed)
	})

	t.Run("Invalid Format Rejected", func(t *testing.T) {
		_, err := ParseTimestamp("transaction_date", "15/03/2026")

		assert.Error(t, err)
	})
}

func TestParsePeriod(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

	t.Run("Defaults To Current Calendar Month", func(t *testing.T) {
		start, end, err := ParsePeriod("", "", now)

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("Explicit Bounds", func(t *testing.T) {
		start, end, err := ParsePeriod("2026-01-01T00:00:00Z", "2026-02-01T00:00:00Z", now)

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("End Before Start Rejected", func(t *testing.T) {
		_, _, err := ParsePeriod("2026-02-01T00:00:00Z", "2026-01-01T00:00:00Z", now)

		assert.Error(t, err)
	})
}
