package utils

import (
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/dto/responses"
	"time"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := formatTime(*t)
	return &formatted
}

func MapVoucherToResponse(voucher *models.Voucher, now time.Time) *responses.VoucherResponse {
	response := &responses.VoucherResponse{
		ID:                 voucher.ID,
		Code:               voucher.Code,
		Type:               string(voucher.Type),
		Status:             string(voucher.Status),
		PatientID:          voucher.PatientID,
		PartnerID:          voucher.PartnerID,
		TotalSessions:      voucher.TotalSessions,
		UsedSessions:       voucher.UsedSessions,
		RemainingSessions:  voucher.RemainingSessions,
		UsagePercent:       voucher.UsagePercent(),
		DaysUntilExpiry:    voucher.DaysUntilExpiry(now),
		ValidFrom:          formatTime(voucher.ValidFrom),
		ValidUntil:         formatTime(voucher.ValidUntil),
		OriginalPrice:      voucher.OriginalPrice.StringFixed(2),
		DiscountAmount:     voucher.DiscountAmount.StringFixed(2),
		FinalPrice:         voucher.FinalPrice.StringFixed(2),
		Transferable:       voucher.Transferable,
		TransferredTo:      voucher.TransferredTo,
		ServiceTypes:       voucher.ServiceTypes,
		ExcludedLocations:  voucher.ExcludedLocations,
		TotalCancellations: voucher.TotalCancellations,
		TotalNoShows:       voucher.TotalNoShows,
		ActivatedAt:        formatTimePtr(voucher.ActivatedAt),
		ExpiredAt:          formatTimePtr(voucher.ExpiredAt),
		CreatedAt:          formatTime(voucher.CreatedAt),
		UpdatedAt:          formatTime(voucher.UpdatedAt),
	}
	if !voucher.RefundAmount.IsZero() {
		response.RefundAmount = voucher.RefundAmount.StringFixed(2)
	}
	return response
}

func MapVouchersToResponse(vouchers []models.Voucher, now time.Time) []responses.VoucherResponse {
	mapped := make([]responses.VoucherResponse, 0, len(vouchers))
	for i := range vouchers {
		mapped = append(mapped, *MapVoucherToResponse(&vouchers[i], now))
	}
	return mapped
}

func MapVoucherUsageToResponse(usage *models.VoucherUsage) *responses.VoucherUsageResponse {
	return &responses.VoucherUsageResponse{
		ID:              usage.ID,
		VoucherID:       usage.VoucherID,
		Status:          string(usage.Status),
		ScheduledDate:   formatTime(usage.ScheduledDate),
		ActualDate:      formatTimePtr(usage.ActualDate),
		DurationMinutes: usage.DurationMinutes,
		ServiceType:     usage.ServiceType,
		ServiceLocation: usage.ServiceLocation,
		Notes:           usage.Notes,
		CancelReason:    usage.CancelReason,
		CreatedAt:       formatTime(usage.CreatedAt),
	}
}

func MapVoucherUsagesToResponse(usages []models.VoucherUsage) []responses.VoucherUsageResponse {
	mapped := make([]responses.VoucherUsageResponse, 0, len(usages))
	for i := range usages {
		mapped = append(mapped, *MapVoucherUsageToResponse(&usages[i]))
	}
	return mapped
}

func MapTransactionToResponse(transaction *models.FinancialTransaction) *responses.TransactionResponse {
	return &responses.TransactionResponse{
		ID:                  transaction.ID,
		TransactionCode:     transaction.TransactionCode,
		Type:                string(transaction.Type),
		Category:            transaction.Category,
		Status:              string(transaction.Status),
		Description:         transaction.Description,
		GrossAmount:         transaction.GrossAmount.StringFixed(2),
		DiscountAmount:      transaction.DiscountAmount.StringFixed(2),
		TaxAmount:           transaction.TaxAmount.StringFixed(2),
		PlatformFee:         transaction.PlatformFee.StringFixed(2),
		GatewayFee:          transaction.GatewayFee.StringFixed(2),
		FeeAmount:           transaction.FeeAmount.StringFixed(2),
		WithholdingTax:      transaction.WithholdingTax.StringFixed(2),
		PartnerCommission:   transaction.PartnerCommission.StringFixed(2),
		NetAmount:           transaction.NetAmount.StringFixed(2),
		PaymentMethod:       transaction.PaymentMethod,
		PatientID:           transaction.PatientID,
		PartnerID:           transaction.PartnerID,
		VoucherID:           transaction.VoucherID,
		TransactionDate:     formatTime(transaction.TransactionDate),
		DueDate:             formatTimePtr(transaction.DueDate),
		PaymentDate:         formatTimePtr(transaction.PaymentDate),
		CompetenceMonth:     transaction.CompetenceMonth,
		CompetenceYear:      transaction.CompetenceYear,
		InstallmentNumber:   transaction.InstallmentNumber,
		InstallmentTotal:    transaction.InstallmentTotal,
		ParentTransactionID: transaction.ParentTransactionID,
		IsReconciled:        transaction.IsReconciled,
		BankReference:       transaction.BankReference,
		CreatedAt:           formatTime(transaction.CreatedAt),
		UpdatedAt:           formatTime(transaction.UpdatedAt),
	}
}

func MapTransactionsToResponse(transactions []models.FinancialTransaction) []responses.TransactionResponse {
	mapped := make([]responses.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		mapped = append(mapped, *MapTransactionToResponse(&transactions[i]))
	}
	return mapped
}

func MapRevenueReportToResponse(report *models.RevenueReport) *responses.RevenueReportResponse {
	byCategory := make(map[string]string, len(report.ByCategory))
	for category, amount := range report.ByCategory {
		byCategory[category] = amount.StringFixed(2)
	}
	return &responses.RevenueReportResponse{
		PeriodStart:      formatTime(report.PeriodStart),
		PeriodEnd:        formatTime(report.PeriodEnd),
		TransactionCount: report.TransactionCount,
		TotalGross:       report.TotalGross.StringFixed(2),
		TotalFees:        report.TotalFees.StringFixed(2),
		TotalNet:         report.TotalNet.StringFixed(2),
		ByCategory:       byCategory,
	}
}

func MapExpensesReportToResponse(report *models.ExpensesReport) *responses.ExpensesReportResponse {
	byCategory := make(map[string]string, len(report.ByCategory))
	for category, amount := range report.ByCategory {
		byCategory[category] = amount.StringFixed(2)
	}
	return &responses.ExpensesReportResponse{
		PeriodStart:      formatTime(report.PeriodStart),
		PeriodEnd:        formatTime(report.PeriodEnd),
		TransactionCount: report.TransactionCount,
		TotalAmount:      report.TotalAmount.StringFixed(2),
		ByCategory:       byCategory,
	}
}

func MapCashFlowReportToResponse(report *models.CashFlowReport) *responses.CashFlowReportResponse {
	return &responses.CashFlowReportResponse{
		PeriodStart: formatTime(report.PeriodStart),
		PeriodEnd:   formatTime(report.PeriodEnd),
		Revenue:     *MapRevenueReportToResponse(&report.Revenue),
		Expenses:    *MapExpensesReportToResponse(&report.Expenses),
		NetFlow:     report.NetFlow.StringFixed(2),
	}
}

func MapAuditLogToResponse(log *models.AuditLog) *responses.AuditLogResponse {
	return &responses.AuditLogResponse{
		ID:                  log.ID.Hex(),
		ActionType:          string(log.ActionType),
		Description:         log.Description,
		EntityType:          log.EntityType,
		EntityID:            log.EntityID,
		UserID:              log.Actor.UserID,
		UserName:            log.Actor.UserName,
		UserRole:            log.Actor.UserRole,
		RequestID:           log.RequestID,
		IPAddress:           log.IPAddress,
		Endpoint:            log.Endpoint,
		HTTPMethod:          log.HTTPMethod,
		StatusCode:          log.StatusCode,
		OldValues:           log.OldValues,
		NewValues:           log.NewValues,
		Severity:            string(log.Severity),
		IsSensitive:         log.IsSensitive,
		IsLGPDRelevant:      log.IsLGPDRelevant,
		IsSecurityEvent:     log.IsSecurityEvent,
		RetentionPeriodDays: log.RetentionPeriodDays,
		ArchiveDate:         formatTime(log.ArchiveDate),
		DeleteDate:          formatTime(log.DeleteDate),
		IsArchived:          log.IsArchived,
		Timestamp:           formatTime(log.Timestamp),
	}
}

func MapAuditLogsToResponse(logs []models.AuditLog) []responses.AuditLogResponse {
	mapped := make([]responses.AuditLogResponse, 0, len(logs))
	for i := range logs {
		mapped = append(mapped, *MapAuditLogToResponse(&logs[i]))
	}
	return mapped
}

func MapAuditStatisticsToResponse(stats *models.AuditStatistics) *responses.AuditStatisticsResponse {
	return &responses.AuditStatisticsResponse{
		Total:               stats.Total,
		ByAction:            stats.ByAction,
		BySeverity:          stats.BySeverity,
		ByUser:              stats.ByUser,
		SuccessRate:         stats.SuccessRate,
		SecurityEvents:      stats.SecurityEvents,
		LGPDEvents:          stats.LGPDEvents,
		SensitiveDataAccess: stats.SensitiveDataAccess,
	}
}
