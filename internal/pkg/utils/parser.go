package utils

import (
	"fisioflow-service/internal/pkg/exceptions"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ParseMoney converts a validated request amount into a decimal rounded to
// two places. Empty input parses to zero.
func ParseMoney(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, exceptions.ErrInvalidMoneyAmount(err, field)
	}
	if amount.IsNegative() {
		return decimal.Zero, exceptions.ErrInvalidMoneyAmount(fmt.Errorf("negative amount %s", value), field)
	}
	return amount.Round(2), nil
}

// ParseTimestamp parses an RFC3339 timestamp and normalizes it to UTC.
func ParseTimestamp(field, value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, exceptions.ErrInvalidTimestamp(err, field)
	}
	return parsed.UTC(), nil
}

// ParsePeriod resolves optional start/end query values, defaulting to the
// calendar month containing now.
func ParsePeriod(start, end string, now time.Time) (time.Time, time.Time, error) {
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0)

	var err error
	if start != "" {
		periodStart, err = ParseTimestamp("start", start)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if end != "" {
		periodEnd, err = ParseTimestamp("end", end)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if periodEnd.Before(periodStart) {
		return time.Time{}, time.Time{}, exceptions.ErrInvalidPeriod(fmt.Errorf("end %s before start %s", periodEnd, periodStart))
	}
	return periodStart, periodEnd, nil
}
