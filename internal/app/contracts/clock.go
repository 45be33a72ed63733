package contracts

import (
	"fisioflow-service/internal/app/models"
	"time"
)

// Clock supplies the current instant. All implementations return UTC; the
// core never calls the system clock inline so tests can freeze time.
type Clock interface {
	Now() time.Time
}

// IdentityService generates opaque identifiers and business codes. Code
// uniqueness is enforced at the store layer; callers retry generation on
// collision within a configured budget.
type IdentityService interface {
	NewUUID() string
	NewVoucherCode(length int) (string, error)
	NewTransactionCode(txType models.TransactionType, now time.Time) (string, error)
}
