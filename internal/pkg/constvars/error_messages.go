package constvars

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientVoucherNotRedeemable          = "voucher cannot be redeemed"
	ErrClientVoucherNotTransferable        = "voucher cannot be transferred"
	ErrClientInvalidEntityState            = "operation not allowed in the current state"
	ErrClientResourceNotFound              = "resource not found"
	ErrClientCodeCollision                 = "could not allocate a unique code, please retry"
	ErrClientInconsistentPrices            = "price breakdown is inconsistent"
	ErrClientResourceBusy                  = "resource is busy, please retry"
	ErrClientInvalidAmount                 = "amount is invalid"
	ErrClientInvalidPeriod                 = "period is invalid"
)

// Error messages for developers
const (
	ErrDevValidationFailed           = "request validation failed"
	ErrDevCannotParseJSON            = "cannot parse JSON"
	ErrDevCannotParseDate            = "cannot parse date"
	ErrDevURLParamIDValidationFailed = "invalid url parameter: %s"
	ErrDevAuthTokenMissing           = "authorization token missing"
	ErrDevAuthTokenInvalidOrExpired  = "authorization token invalid or expired"
	ErrDevAPIKeyMissingOrInvalid     = "superadmin api key missing or invalid"
	ErrDevServerDeadlineExceeded     = "server deadline exceeded"

	ErrDevVoucherNotFound          = "voucher not found"
	ErrDevVoucherNotRedeemable     = "voucher is not redeemable: %s"
	ErrDevVoucherUsageNotFound     = "voucher usage not found"
	ErrDevVoucherInvalidTransition = "voucher transition not allowed from status %s"
	ErrDevVoucherPricesInvalid     = "original - discount must equal final price"
	ErrDevVoucherSessionsInvalid   = "total_sessions must be greater than zero"
	ErrDevVoucherNotTransferable   = "voucher is not marked transferable"
	ErrDevRefundFeeTypeInvalid     = "refund fee type %s is not one of proportional, full, none"
	ErrDevUsageInvalidTransition   = "usage transition not allowed from status %s"

	ErrDevTransactionNotFound          = "financial transaction not found"
	ErrDevTransactionInvalidTransition = "transaction transition not allowed from status %s"
	ErrDevTransactionNotReconcilable   = "only COMPLETED transactions can be reconciled"
	ErrDevTransactionInvalidType       = "invalid transaction type"

	ErrDevCodeGenerationExhausted = "unique code generation budget exhausted"
	ErrDevVoucherLockNotAcquired  = "could not acquire lock for voucher %s"
	ErrDevInvalidMoneyAmount      = "invalid monetary amount in field %s"
	ErrDevInvalidTimestamp        = "invalid timestamp in field %s"
	ErrDevInvalidPeriod           = "invalid reporting period"

	// Postgres
	ErrDevDBFailedToFindData       = "failed to find data on database"
	ErrDevDBFailedToInsertData     = "failed to insert data to database"
	ErrDevDBFailedToUpdateData     = "failed to update data on database"
	ErrDevDBFailedToDeleteData     = "failed to delete data on database"
	ErrDevDBFailedToIterateDataset = "failed to iterate dataset"
	ErrDevDBFailedToBeginTx        = "failed to begin database transaction"
	ErrDevDBFailedToCommitTx       = "failed to commit database transaction"

	// Mongo
	ErrDevDBFailedToFindDocument    = "failed to find document"
	ErrDevDBFailedToInsertDocument  = "failed to insert document"
	ErrDevDBFailedToUpdateDocument  = "failed to update document"
	ErrDevDBFailedToDeleteDocument  = "failed to delete document"
	ErrDevDBFailedToAggregate       = "failed to run aggregation"
	ErrDevDBFailedToIterateDocument = "failed to iterate documents"
	ErrDevDBFailedToCountDocuments  = "failed to count documents"

	// Redis
	ErrDevRedisGetNoData      = "no data found on redis with key: %s"
	ErrDevRedisGetData        = "failed to get data from redis"
	ErrDevRedisSetData        = "failed to set data to redis"
	ErrDevRedisDeleteData     = "failed to delete data from redis"
	ErrDevRedisIncrementValue = "failed to increment value on redis"
	ErrDevRedisSetNX          = "failed to set data with NX on redis"
	ErrDevRedisUnlock         = "failed to release redis lock"

	// RabbitMQ
	ErrDevRabbitMQPublish = "failed to publish message to queue %s"
	ErrDevRabbitMQConsume = "failed to consume from queue %s"

	// Minio
	ErrDevMinioFailedToCreateObject = "failed to create object on bucket %s"

	// Audit
	ErrDevAuditPersistFailed = "failed to persist audit log"
)
