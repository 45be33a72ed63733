package constvars

import "time"

// Voucher codes
const (
	VoucherCodeLength   = 12
	VoucherCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CodeGenRetryBudget  = 5
)

// Voucher payment status values
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Refund fee types
const (
	RefundFeeTypeProportional = "proportional"
	RefundFeeTypeFull         = "full"
	RefundFeeTypeNone         = "none"
)

// Transaction codes: <PREFIX><YYYYMMDD><6 random digits>
const (
	TransactionCodeDateLayout = "20060102"
	TransactionCodeRandDigits = 6
	RegexTransactionCode      = `^(REC|DES|TRF|REF|COM|SAQ|DEP)\d{14}$`
)

// Fee split defaults. Overridable per call / per partner through config.
const (
	DefaultPlatformFeeRate       = 0.10
	DefaultGatewayFeeRate        = 0.03
	DefaultPartnerCommissionRate = 0.80
	InstallmentIntervalDays      = 30
)

// Audit redaction and retention
const (
	AuditRedactedMarker   = "[REDACTED]"
	AuditTruncatedSuffix  = "...[TRUNCATED]"
	AuditMaxStringLength  = 1000
	AuditArchiveLeadDays  = 30

	RetentionDaysLGPDOrSecurity = 1825
	RetentionDaysCritical       = 1095
	RetentionDaysHigh           = 730
	RetentionDaysAuthActions    = 365
	RetentionDaysDefault        = 180
)

// AuditSensitiveKeys are matched as lowercase substrings of value keys.
var AuditSensitiveKeys = []string{
	"password", "senha", "token", "secret", "key",
	"cpf", "rg", "credit_card", "card_number", "cvv",
	"pix_key", "bank_account",
}

// Mongo
const (
	MongoCollectionAuditLogs = "audit_logs"
)

// Redis keys
const (
	RedisKeyVoucherLockFormat = "voucher_lock:%s"
	RedisKeyReportFormat      = "report:%s:%s:%s"
	ReportCacheTTL            = 2 * time.Minute
	VoucherLockTTL            = 15 * time.Second
)

// Minio
const (
	AuditArchiveObjectFormat = "audit-archive/%s.json"
)
