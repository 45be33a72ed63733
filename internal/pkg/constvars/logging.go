package constvars

const (
	LoggingRequestIDKey        = "request_id"
	LoggingRequestKey          = "request"
	LoggingResponseKey         = "response"
	LoggingMethodKey           = "method"
	LoggingEndpointKey         = "endpoint"
	LoggingRemoteAddrKey       = "remote_addr"
	LoggingUserAgentKey        = "user_agent"
	LoggingQueryKey            = "query"
	LoggingStatusCodeKey       = "status_code"
	LoggingDurationKey         = "duration"
	LoggingSuccessKey          = "success"
	LoggingVoucherCodeKey      = "voucher_code"
	LoggingVoucherIDKey        = "voucher_id"
	LoggingUsageIDKey          = "usage_id"
	LoggingTransactionCodeKey  = "transaction_code"
	LoggingTransactionIDKey    = "transaction_id"
	LoggingAuditLogIDKey       = "audit_log_id"
	LoggingActionTypeKey       = "action_type"
	LoggingSeverityKey         = "severity"
	LoggingActorIDKey          = "actor_id"
	LoggingCountKey            = "count"
	LoggingRedisKey            = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingLockExpirationTimeKey = "lock_expiration"
	LoggingQueueNameKey        = "queue_name"
	LoggingBucketNameKey       = "bucket_name"
	LoggingObjectNameKey       = "object_name"
)
