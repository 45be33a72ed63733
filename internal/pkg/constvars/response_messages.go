package constvars

const (
	IssueVoucherSuccessMessage    = "voucher issued successfully"
	ActivateVoucherSuccessMessage = "voucher activated successfully"
	RedeemVoucherSuccessMessage   = "voucher redeemed successfully"
	TransferVoucherSuccessMessage = "voucher transferred successfully"
	ExtendVoucherSuccessMessage   = "voucher extended successfully"
	CancelVoucherSuccessMessage   = "voucher cancelled successfully"
	RefundVoucherSuccessMessage   = "voucher refunded successfully"
	RefundPreviewSuccessMessage   = "refund preview calculated successfully"
	GetVoucherSuccessMessage      = "voucher retrieved successfully"
	GetUsagesSuccessMessage       = "voucher usages retrieved successfully"
	CompleteUsageSuccessMessage   = "usage completed successfully"
	CancelUsageSuccessMessage     = "usage cancelled successfully"
	NoShowUsageSuccessMessage     = "usage marked as no-show"
	SweepVouchersSuccessMessage   = "expired vouchers swept"

	RecordTransactionSuccessMessage    = "transaction recorded successfully"
	GetTransactionSuccessMessage       = "transaction retrieved successfully"
	ProcessTransactionSuccessMessage   = "transaction moved to processing"
	CompleteTransactionSuccessMessage  = "transaction completed successfully"
	CancelTransactionSuccessMessage    = "transaction cancelled successfully"
	RefundTransactionSuccessMessage    = "transaction refunded successfully"
	ReconcileTransactionSuccessMessage = "transaction reconciled successfully"
	InstallmentsSuccessMessage         = "installments created successfully"
	RevenueReportSuccessMessage        = "revenue report generated"
	ExpensesReportSuccessMessage       = "expenses report generated"
	CashFlowReportSuccessMessage       = "cash flow report generated"

	GetAuditLogsSuccessMessage       = "audit logs retrieved successfully"
	AuditStatisticsSuccessMessage    = "audit statistics generated"
	ArchiveAuditLogsSuccessMessage   = "audit logs archived"
	CleanupAuditLogsSuccessMessage   = "expired audit logs removed"

	AuditDeferredWarningMessage = "audit trail deferred, the action was queued for asynchronous recording"
)
