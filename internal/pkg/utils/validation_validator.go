package utils

import (
	"fisioflow-service/internal/app/models"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

var moneyPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("voucher_type", validateVoucherType)
	validate.RegisterValidation("transaction_type", validateTransactionType)
	validate.RegisterValidation("severity", validateSeverity)
	validate.RegisterValidation("money", validateMoney)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateVoucherType(fl validator.FieldLevel) bool {
	return models.VoucherType(fl.Field().String()).IsValid()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).IsValid()
}

func validateSeverity(fl validator.FieldLevel) bool {
	return models.AuditSeverity(fl.Field().String()).IsValid()
}

// validateMoney accepts non-negative decimal strings with at most two
// fractional digits, the precision monetary columns are stored with.
func validateMoney(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !moneyPattern.MatchString(value) {
		return false
	}
	_, err := decimal.NewFromString(value)
	return err == nil
}
