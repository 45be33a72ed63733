package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY ContextKey = "request_id"
	CONTEXT_ACTOR_KEY      ContextKey = "actor"
	CONTEXT_API_KEY_AUTH   ContextKey = "api_key_auth"

	CONTEXT_AUDIT_WARNING_KEY ContextKey = "audit_warning"
)

const (
	ResourceVouchers      = "vouchers"
	ResourceVoucherUsages = "voucher-usages"
	ResourceTransactions  = "transactions"
	ResourceAuditLogs     = "audit-logs"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
)
