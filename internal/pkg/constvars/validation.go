package constvars

// Validation messages for clients, mapped by validator tag.
var CustomValidationErrorMessages = map[string]string{
	"required":         "is required",
	"min":              "must be at least %s",
	"max":              "must be at most %s",
	"gt":               "must be greater than %s",
	"gte":              "must be greater than or equal to %s",
	"len":              "must be %s characters long",
	"oneof":            "must be one of [%s]",
	"uuid":             "must be a valid UUID",
	"datetime":         "must be a valid timestamp",
	"voucher_type":     "must be one of SINGLE, PACKAGE, MONTHLY, WEEKLY, TRIAL",
	"transaction_type": "must be one of INCOME, EXPENSE, TRANSFER, REFUND, COMMISSION, WITHDRAWAL, DEPOSIT",
	"severity":         "must be one of LOW, MEDIUM, HIGH, CRITICAL",
	"money":            "must be a decimal amount with up to two fractional digits",
}

// Tags whose message requires parameter substitution.
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"gt":    true,
	"gte":   true,
	"len":   true,
	"oneof": true,
}
