package clock

import (
	"crypto/rand"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	clockInstance    contracts.Clock
	onceClock        sync.Once
	identityInstance contracts.IdentityService
	onceIdentity     sync.Once
)

type systemClock struct{}

func NewSystemClock() contracts.Clock {
	onceClock.Do(func() {
		clockInstance = &systemClock{}
	})
	return clockInstance
}

func (c *systemClock) Now() time.Time {
	return time.Now().UTC()
}

type identityService struct{}

func NewIdentityService() contracts.IdentityService {
	onceIdentity.Do(func() {
		identityInstance = &identityService{}
	})
	return identityInstance
}

func (s *identityService) NewUUID() string {
	return uuid.NewString()
}

// NewVoucherCode draws from an uppercase alphanumeric alphabet using a
// cryptographic source. Collisions are handled by the caller against the
// unique code index.
func (s *identityService) NewVoucherCode(length int) (string, error) {
	if length <= 0 {
		length = constvars.VoucherCodeLength
	}
	var builder strings.Builder
	builder.Grow(length)
	alphabetSize := big.NewInt(int64(len(constvars.VoucherCodeAlphabet)))
	for i := 0; i < length; i++ {
		index, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		builder.WriteByte(constvars.VoucherCodeAlphabet[index.Int64()])
	}
	return builder.String(), nil
}

// NewTransactionCode builds <PREFIX><YYYYMMDD><6 digits>, e.g. REC20260829123456.
func (s *identityService) NewTransactionCode(txType models.TransactionType, now time.Time) (string, error) {
	var builder strings.Builder
	builder.WriteString(txType.CodePrefix())
	builder.WriteString(now.UTC().Format(constvars.TransactionCodeDateLayout))
	for i := 0; i < constvars.TransactionCodeRandDigits; i++ {
		digit, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		builder.WriteByte(byte('0' + digit.Int64()))
	}
	return builder.String(), nil
}
