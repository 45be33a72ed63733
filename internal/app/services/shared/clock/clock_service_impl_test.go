package clock

import (
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClockNow(t *testing.T) {
	systemClock := NewSystemClock()

	now := systemClock.Now()
	assert.Equal(t, time.UTC, now.Location(), "clock should always report UTC")
	assert.WithinDuration(t, time.Now().UTC(), now, 2*time.Second, "clock should track wall time")
}

func TestIdentityServiceNewVoucherCode(t *testing.T) {
	identity := NewIdentityService()

	t.Run("Default Length", func(t *testing.T) {
		code, err := identity.NewVoucherCode(0)

		assert.NoError(t, err)
		assert.Len(t, code, constvars.VoucherCodeLength, "zero length should fall back to the default")
	})

	t.Run("Alphabet", func(t *testing.T) {
		code, err := identity.NewVoucherCode(64)

		assert.NoError(t, err)
		assert.Len(t, code, 64)
		for _, char := range code {
			assert.True(t, strings.ContainsRune(constvars.VoucherCodeAlphabet, char), "code should only use the uppercase alphanumeric alphabet")
		}
	})

	t.Run("Uniqueness", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			code, err := identity.NewVoucherCode(constvars.VoucherCodeLength)
			assert.NoError(t, err)
			assert.False(t, seen[code], "codes should not repeat across draws")
			seen[code] = true
		}
	})
}

func TestIdentityServiceNewTransactionCode(t *testing.T) {
	identity := NewIdentityService()
	codePattern := regexp.MustCompile(constvars.RegexTransactionCode)
	date := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

	t.Run("Matches Code Pattern", func(t *testing.T) {
		for _, txType := range []models.TransactionType{
			models.TransactionTypeIncome,
			models.TransactionTypeExpense,
			models.TransactionTypeTransfer,
			models.TransactionTypeRefund,
			models.TransactionTypeCommission,
			models.TransactionTypeWithdrawal,
			models.TransactionTypeDeposit,
		} {
			code, err := identity.NewTransactionCode(txType, date)

			assert.NoError(t, err)
			assert.Regexp(t, codePattern, code, "code for %s should match the expected pattern", txType)
			assert.True(t, strings.HasPrefix(code, txType.CodePrefix()), "code should carry the type prefix")
		}
	})

	t.Run("Embeds Transaction Date", func(t *testing.T) {
		code, err := identity.NewTransactionCode(models.TransactionTypeIncome, date)

		assert.NoError(t, err)
		assert.Equal(t, "20260315", code[len(models.TransactionTypeIncome.CodePrefix()):][:8], "code should embed the UTC transaction date")
	})
}
