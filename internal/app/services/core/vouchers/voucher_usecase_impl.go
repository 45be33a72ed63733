package vouchers

import (
	"context"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"fisioflow-service/internal/pkg/dto/requests"
	"fisioflow-service/internal/pkg/exceptions"
	"fisioflow-service/internal/pkg/utils"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	voucherUsecaseInstance contracts.VoucherUsecase
	onceVoucherUsecase     sync.Once
)

type voucherUsecase struct {
	VoucherRepository contracts.VoucherRepository
	LedgerUsecase     contracts.LedgerUsecase
	AuditUsecase      contracts.AuditUsecase
	Locker            contracts.LockerService
	Clock             contracts.Clock
	Identity          contracts.IdentityService
	Log               *zap.Logger
}

func NewVoucherUsecase(
	voucherRepository contracts.VoucherRepository,
	ledgerUsecase contracts.LedgerUsecase,
	auditUsecase contracts.AuditUsecase,
	locker contracts.LockerService,
	clock contracts.Clock,
	identity contracts.IdentityService,
	logger *zap.Logger,
) contracts.VoucherUsecase {
	onceVoucherUsecase.Do(func() {
		voucherUsecaseInstance = &voucherUsecase{
			VoucherRepository: voucherRepository,
			LedgerUsecase:     ledgerUsecase,
			AuditUsecase:      auditUsecase,
			Locker:            locker,
			Clock:             clock,
			Identity:          identity,
			Log:               logger,
		}
	})
	return voucherUsecaseInstance
}

// createWithUniqueCode retries voucher code generation against the unique
// index within the configured budget.
func (uc *voucherUsecase) createWithUniqueCode(ctx context.Context, voucher *models.Voucher) (*models.Voucher, error) {
	var lastErr error
	for attempt := 0; attempt < constvars.CodeGenRetryBudget; attempt++ {
		code, err := uc.Identity.NewVoucherCode(constvars.VoucherCodeLength)
		if err != nil {
			return nil, exceptions.ErrCodeGenerationExhausted(err)
		}
		voucher.Code = code

		created, err := uc.VoucherRepository.CreateVoucher(ctx, voucher)
		if err == nil {
			return created, nil
		}
		if !exceptions.IsStatus(err, constvars.StatusConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, exceptions.ErrCodeGenerationExhausted(lastErr)
}

func (uc *voucherUsecase) Issue(ctx context.Context, request *requests.IssueVoucher, actor models.AuditActor) (*models.Voucher, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("voucherUsecase.Issue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	voucherType := models.VoucherType(request.Type)
	if !voucherType.IsValid() {
		return nil, exceptions.ErrInputValidation(fmt.Errorf("unknown voucher type %q", request.Type))
	}
	if request.TotalSessions <= 0 {
		return nil, exceptions.ErrVoucherSessionsInvalid()
	}

	originalPrice, err := utils.ParseMoney("original_price", request.OriginalPrice)
	if err != nil {
		return nil, err
	}
	discountAmount, err := utils.ParseMoney("discount_amount", request.DiscountAmount)
	if err != nil {
		return nil, err
	}
	finalPrice, err := utils.ParseMoney("final_price", request.FinalPrice)
	if err != nil {
		return nil, err
	}
	if !originalPrice.Sub(discountAmount).Equal(finalPrice) {
		uc.Log.Error("voucherUsecase.Issue price fields do not reconcile",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil, exceptions.ErrVoucherPricesInvalid()
	}

	now := uc.Clock.Now()
	validFrom := now
	if request.ValidFrom != "" {
		validFrom, err = utils.ParseTimestamp("valid_from", request.ValidFrom)
		if err != nil {
			return nil, err
		}
	}

	voucher := &models.Voucher{
		ID:                uc.Identity.NewUUID(),
		Type:              voucherType,
		Status:            models.VoucherStatusPending,
		PatientID:         request.PatientID,
		PartnerID:         request.PartnerID,
		TotalSessions:     request.TotalSessions,
		RemainingSessions: request.TotalSessions,
		ValidFrom:         validFrom,
		ValidUntil:        validFrom.AddDate(0, 0, voucherType.ValidityDays()),
		OriginalPrice:     originalPrice,
		DiscountAmount:    discountAmount,
		FinalPrice:        finalPrice,
		Transferable:      request.Transferable,
		ServiceTypes:      request.ServiceTypes,
		ExcludedLocations: request.ExcludedLocations,
		PaymentStatus:     constvars.PaymentStatusPending,
		RefundAmount:      decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := uc.createWithUniqueCode(ctx, voucher)
	if err != nil {
		uc.Log.Error("voucherUsecase.Issue error creating voucher",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordAudit(ctx, created, actor, models.AuditActionCreate, models.AuditSeverityLow,
		fmt.Sprintf("voucher %s issued", created.Code), nil, false)

	uc.Log.Info("voucherUsecase.Issue completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, created.Code),
	)
	return created, nil
}

// transition loads the voucher under a row lock, applies mutate and persists
// the result inside a single database transaction.
func (uc *voucherUsecase) transition(ctx context.Context, code string, mutate func(voucher *models.Voucher) error) (*models.Voucher, error) {
	var updated *models.Voucher
	err := uc.VoucherRepository.RunInTx(ctx, func(txCtx context.Context) error {
		voucher, err := uc.VoucherRepository.FindVoucherByCodeForUpdate(txCtx, code)
		if err != nil {
			return err
		}
		if voucher == nil {
			return exceptions.ErrVoucherNotFound(nil)
		}
		if err := mutate(voucher); err != nil {
			return err
		}
		voucher.UpdatedAt = uc.Clock.Now()
		updated, err = uc.VoucherRepository.UpdateVoucher(txCtx, voucher)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *voucherUsecase) Activate(ctx context.Context, code, paymentReference string, actor models.AuditActor) (*models.Voucher, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("voucherUsecase.Activate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
	)

	updated, err := uc.transition(ctx, code, func(voucher *models.Voucher) error {
		if voucher.Status != models.VoucherStatusPending {
			return exceptions.ErrVoucherInvalidTransition(string(voucher.Status))
		}
		now := uc.Clock.Now()
		voucher.Status = models.VoucherStatusActive
		voucher.PaymentStatus = constvars.PaymentStatusPaid
		voucher.PaymentReference = &paymentReference
		voucher.PaymentDate = &now
		voucher.ActivatedAt = &now
		return nil
	})
	if err != nil {
		uc.Log.Error("voucherUsecase.Activate error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if _, err := uc.LedgerUsecase.BookVoucherPayment(ctx, updated, paymentReference, actor); err != nil {
		uc.Log.Error("voucherUsecase.Activate error booking payment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	// Payment data ties a natural person to a purchase, so activation is an
	// LGPD-relevant event.
	uc.recordAudit(ctx, updated, actor, models.AuditActionUpdate, models.AuditSeverityLow,
		fmt.Sprintf("voucher %s activated", code), nil, true)

	uc.Log.Info("voucherUsecase.Activate completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
	)
	return updated, nil
}

func redemptionBlockReason(voucher *models.Voucher, now time.Time) string {
	switch {
	case voucher.Status != models.VoucherStatusActive:
		return fmt.Sprintf("voucher is %s", voucher.Status)
	case now.Before(voucher.ValidFrom):
		return "voucher validity window has not started"
	case now.After(voucher.ValidUntil):
		return "voucher validity window has ended"
	case voucher.RemainingSessions <= 0:
		return "no remaining sessions"
	default:
		return "voucher is not redeemable"
	}
}

func (uc *voucherUsecase) Redeem(ctx context.Context, code string, request *requests.RedeemVoucher, actor models.AuditActor) (*models.VoucherUsage, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("voucherUsecase.Redeem called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
	)

	// Concurrent redemptions serialize on the row lock inside the
	// transaction; each waiter re-reads the session count after the lock
	// clears, so parallel redeems drain the voucher without over-issuing.
	var err error
	now := uc.Clock.Now()
	scheduledDate := now
	if request.ScheduledDate != "" {
		scheduledDate, err = utils.ParseTimestamp("scheduled_date", request.ScheduledDate)
		if err != nil {
			return nil, err
		}
	}

	var usage *models.VoucherUsage
	var voucher *models.Voucher
	err = uc.VoucherRepository.RunInTx(ctx, func(txCtx context.Context) error {
		voucher, err = uc.VoucherRepository.FindVoucherByCodeForUpdate(txCtx, code)
		if err != nil {
			return err
		}
		if voucher == nil {
			return exceptions.ErrVoucherNotFound(nil)
		}
		if !voucher.IsRedeemable(now) {
			return exceptions.ErrVoucherNotRedeemable(redemptionBlockReason(voucher, now))
		}
		if !voucher.AllowsServiceType(request.ServiceType) {
			return exceptions.ErrVoucherNotRedeemable(fmt.Sprintf("service type %s is not covered", request.ServiceType))
		}
		if !voucher.AllowsLocation(request.ServiceLocation) {
			return exceptions.ErrVoucherNotRedeemable(fmt.Sprintf("location %s is excluded", request.ServiceLocation))
		}

		usage = &models.VoucherUsage{
			ID:              uc.Identity.NewUUID(),
			VoucherID:       voucher.ID,
			Status:          models.VoucherUsageStatusScheduled,
			ScheduledDate:   scheduledDate,
			ServiceType:     request.ServiceType,
			ServiceLocation: request.ServiceLocation,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		usage, err = uc.VoucherRepository.CreateUsage(txCtx, usage)
		if err != nil {
			return err
		}

		voucher.UsedSessions++
		voucher.RemainingSessions--
		// Only SINGLE vouchers terminate on depletion; multi-session types
		// stay ACTIVE so cancellations can restore sessions until expiry.
		if voucher.RemainingSessions == 0 && voucher.Type == models.VoucherTypeSingle {
			voucher.Status = models.VoucherStatusUsed
		}
		voucher.UpdatedAt = now
		_, err = uc.VoucherRepository.UpdateVoucher(txCtx, voucher)
		return err
	})
	if err != nil {
		uc.Log.Error("voucherUsecase.Redeem error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordUsageAudit(ctx, voucher, usage, actor, models.AuditActionCreate, models.AuditSeverityLow,
		fmt.Sprintf("session scheduled against voucher %s", code))

	uc.Log.Info("voucherUsecase.Redeem completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
		zap.String(constvars.LoggingUsageIDKey, usage.ID),
	)
	return usage, nil
}

func (uc *voucherUsecase) CompleteUsage(ctx context.Context, usageID string, request *requests.CompleteUsage, actor models.AuditActor) (*models.VoucherUsage, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("voucherUsecase.CompleteUsage called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUsageIDKey, usageID),
	)

	var usage *models.VoucherUsage
	var voucher *models.Voucher
	err := uc.VoucherRepository.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		usage, err = uc.VoucherRepository.FindUsageByIDForUpdate(txCtx, usageID)
		if err != nil {
			return err
		}
		if usage == nil {
			return exceptions.ErrVoucherUsageNotFound(nil)
		}
		if usage.Status != models.VoucherUsageStatusScheduled {
			return exceptions.ErrUsageInvalidTransition(string(usage.Status))
		}

		voucher, err = uc.VoucherRepository.FindVoucherByIDForUpdate(txCtx, usage.VoucherID)
		if err != nil {
			return err
		}
		if voucher == nil {
			return exceptions.ErrVoucherNotFound(nil)
		}

		now := uc.Clock.Now()
		usage.Status = models.VoucherUsageStatusCompleted
		usage.ActualDate = &now
		if request.DurationMinutes > 0 {
			usage.DurationMinutes = request.DurationMinutes
		}
		if request.Notes != "" {
			usage.Notes = &request.Notes
		}
		usage.UpdatedAt = now
		usage, err = uc.VoucherRepository.UpdateUsage(txCtx, usage)
		if err != nil {
			return err
		}

		// The commission payout joins the same database transaction so a
		// failed booking rolls the completion back. The partner rate from
		// the request overrides the configured default.
		_, err = uc.LedgerUsecase.BookSessionCommission(txCtx, voucher, usage, decimal.NewFromFloat(request.CommissionRate), actor)
		return err
	})
	if err != nil {
		uc.Log.Error("voucherUsecase.CompleteUsage error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordUsageAudit(ctx, voucher, usage, actor, models.AuditActionUpdate, models.AuditSeverityLow,
		fmt.Sprintf("session %s completed for voucher %s", usageID, voucher.Code))

	uc.Log.Info("voucherUsecase.CompleteUsage completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUsageIDKey, usageID),
	)
	return usage, nil
}

// CancelUsage returns the session to the voucher unless the voucher itself
// already reached a terminal state, in which case only the cancellation
// counter moves.
func (uc *voucherUsecase) CancelUsage(ctx context.Context, usageID, reason string, actor models.AuditActor) (*models.VoucherUsage, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("voucherUsecase.CancelUsage called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUsageIDKey, usageID),
	)

	var usage *models.VoucherUsage
	var voucher *models.Voucher
	err := uc.VoucherRepository.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		usage, err = uc.VoucherRepository.FindUsageByIDForUpdate(txCtx, usageID)
		if err != nil {
			return err
		}
		if usage == nil {
			return exceptions.ErrVoucherUsageNotFound(nil)
		}
		if usage.Status != models.VoucherUsageStatusScheduled {
			return exceptions.ErrUsageInvalidTransition(string(usage.Status))
		}

		voucher, err = uc.VoucherRepository.FindVoucherByIDForUpdate(txCtx, usage.VoucherID)
		if err != nil {
			return err
		}
		if voucher == nil {
			return exceptions.ErrVoucherNotFound(nil)
		}

		now := uc.Clock.Now()
		usage.Status = models.VoucherUsageStatusCancelled
		usage.CancelReason = &reason
		usage.UpdatedAt = now
		usage, err = uc.VoucherRepository.UpdateUsage(txCtx, usage)
		if err != nil {
			return err
		}

		voucher.TotalCancellations++
		if !voucher.Status.IsTerminal() {
			voucher.UsedSessions--
			voucher.RemainingSessions++
			if voucher.Status == models.VoucherStatusUsed && voucher.RemainingSessions > 0 {
				voucher.Status = models.VoucherStatusActive
			}
		}
		voucher.UpdatedAt = now
		_, err = uc.VoucherRepository.UpdateVoucher(txCtx, voucher)
		return err
	})
	if err != nil {
		uc.Log.Error("voucherUsecase.CancelUsage error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordUsageAudit(ctx, voucher, usage, actor, models.AuditActionUpdate, models.AuditSeverityLow,
		fmt.Sprintf("session %s cancelled for voucher %s: %s", usageID, voucher.Code, reason))

	uc.Log.Info("voucherUsecase.CancelUsage completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUsageIDKey, usageID),
	)
	return usage, nil
}

// MarkNoShow burns the session. The patient did not attend, so nothing is
// returned to the voucher.
func (uc *voucherUsecase) MarkNoShow(ctx context.Context, usageID string, actor models.AuditActor) (*models.VoucherUsage, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("voucherUsecase.MarkNoShow called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUsageIDKey, usageID),
	)

	var usage *models.VoucherUsage
	var voucher *models.Voucher
	err := uc.VoucherRepository.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		usage, err = uc.VoucherRepository.FindUsageByIDForUpdate(txCtx, usageID)
		if err != nil {
			return err
		}
		if usage == nil {
			return exceptions.ErrVoucherUsageNotFound(nil)
		}
		if usage.Status != models.VoucherUsageStatusScheduled {
			return exceptions.ErrUsageInvalidTransition(string(usage.Status))
		}

		voucher, err = uc.VoucherRepository.FindVoucherByIDForUpdate(txCtx, usage.VoucherID)
		if err != nil {
			return err
		}
		if voucher == nil {
			return exceptions.ErrVoucherNotFound(nil)
		}

		now := uc.Clock.Now()
		usage.Status = models.VoucherUsageStatusNoShow
		usage.UpdatedAt = now
		usage, err = uc.VoucherRepository.UpdateUsage(txCtx, usage)
		if err != nil {
			return err
		}

		voucher.TotalNoShows++
		voucher.UpdatedAt = now
		_, err = uc.VoucherRepository.UpdateVoucher(txCtx, voucher)
		return err
	})
	if err != nil {
		uc.Log.Error("voucherUsecase.MarkNoShow error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordUsageAudit(ctx, voucher, usage, actor, models.AuditActionUpdate, models.AuditSeverityLow,
		fmt.Sprintf("session %s marked as no-show for voucher %s", usageID, voucher.Code))

	uc.Log.Info("voucherUsecase.MarkNoShow completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUsageIDKey, usageID),
	)
	return usage, nil
}

func (uc *voucherUsecase) Transfer(ctx context.Context, code, newPatientID, reason string, actor models.AuditActor) (*models.Voucher, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("voucherUsecase.Transfer called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
	)

	var oldPatientID string
	updated, err := uc.transition(ctx, code, func(voucher *models.Voucher) error {
		if voucher.Status.IsTerminal() {
			return exceptions.ErrVoucherInvalidTransition(string(voucher.Status))
		}
		if !voucher.Transferable {
			return exceptions.ErrVoucherNotTransferable()
		}
		now := uc.Clock.Now()
		oldPatientID = voucher.PatientID
		note := fmt.Sprintf("transferred from patient %s to %s on %s: %s",
			oldPatientID, newPatientID, now.Format(time.RFC3339), reason)
		if voucher.InternalNotes != nil && *voucher.InternalNotes != "" {
			note = *voucher.InternalNotes + "\n" + note
		}
		voucher.PatientID = newPatientID
		voucher.TransferredTo = &newPatientID
		voucher.TransferDate = &now
		voucher.InternalNotes = &note
		return nil
	})
	if err != nil {
		uc.Log.Error("voucherUsecase.Transfer error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	// Re-assigning a voucher moves personal data between holders.
	uc.AuditUsecase.Record(ctx, &contracts.AuditEntry{
		ActionType:  models.AuditActionUpdate,
		Description: fmt.Sprintf("voucher %s transferred: %s", code, reason),
		EntityType:  constvars.ResourceVouchers,
		EntityID:    updated.ID,
		Actor:       actor,
		RequestID:   requestID,
		OldValues:   map[string]interface{}{"patient_id": oldPatientID},
		NewValues:   map[string]interface{}{"patient_id": newPatientID},
		Severity:    models.AuditSeverityMedium,
		IsLGPDRelevant: true,
	})

	uc.Log.Info("voucherUsecase.Transfer completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
	)
	return updated, nil
}

// Extend pushes valid_until forward and revives an EXPIRED voucher when the
// new window is open and sessions remain.
func (uc *voucherUsecase) Extend(ctx context.Context, code string, days int, reason string, actor models.AuditActor) (*models.Voucher, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("voucherUsecase.Extend called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
		zap.Int(constvars.LoggingCountKey, days),
	)

	updated, err := uc.transition(ctx, code, func(voucher *models.Voucher) error {
		if voucher.Status.IsTerminal() {
			return exceptions.ErrVoucherInvalidTransition(string(voucher.Status))
		}
		now := uc.Clock.Now()
		voucher.ValidUntil = voucher.ValidUntil.AddDate(0, 0, days)
		if voucher.Status == models.VoucherStatusExpired &&
			voucher.ValidUntil.After(now) && voucher.RemainingSessions > 0 {
			voucher.Status = models.VoucherStatusActive
			voucher.ExpiredAt = nil
		}
		note := fmt.Sprintf("validity extended by %d days on %s: %s", days, now.Format(time.RFC3339), reason)
		if voucher.InternalNotes != nil && *voucher.InternalNotes != "" {
			note = *voucher.InternalNotes + "\n" + note
		}
		voucher.InternalNotes = &note
		return nil
	})
	if err != nil {
		uc.Log.Error("voucherUsecase.Extend error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordAudit(ctx, updated, actor, models.AuditActionUpdate, models.AuditSeverityLow,
		fmt.Sprintf("voucher %s extended by %d days: %s", code, days, reason), nil, false)

	uc.Log.Info("voucherUsecase.Extend completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
	)
	return updated, nil
}

func (uc *voucherUsecase) Cancel(ctx context.Context, code, reason string, actor models.AuditActor) (*models.Voucher, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("voucherUsecase.Cancel called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
	)

	var oldStatus models.VoucherStatus
	updated, err := uc.transition(ctx, code, func(voucher *models.Voucher) error {
		if voucher.Status.IsTerminal() {
			return exceptions.ErrVoucherInvalidTransition(string(voucher.Status))
		}
		now := uc.Clock.Now()
		oldStatus = voucher.Status
		voucher.Status = models.VoucherStatusCancelled
		voucher.CancelledAt = &now
		voucher.CancellationReason = &reason
		return nil
	})
	if err != nil {
		uc.Log.Error("voucherUsecase.Cancel error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordAudit(ctx, updated, actor, models.AuditActionUpdate, models.AuditSeverityMedium,
		fmt.Sprintf("voucher %s cancelled: %s", code, reason),
		map[string]interface{}{"status": string(oldStatus)}, false)

	uc.Log.Info("voucherUsecase.Cancel completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
	)
	return updated, nil
}

// Refund moves the voucher to REFUNDED from any non-terminal state and books
// the counter-transaction. When no amount is given the refund is proportional
// to the remaining sessions.
func (uc *voucherUsecase) Refund(ctx context.Context, code string, amount *decimal.Decimal, reason string, actor models.AuditActor) (*models.Voucher, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("voucherUsecase.Refund called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
	)

	// The redis lock fences the two-step flow: the status flip commits
	// before the counter-transaction is booked, and a second refund racing
	// in between would book the refund twice.
	lockKey := fmt.Sprintf(constvars.RedisKeyVoucherLockFormat, code)
	acquired, lockValue, err := uc.Locker.TryLock(ctx, lockKey, constvars.VoucherLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrVoucherLockNotAcquired(code)
	}
	defer func() {
		if err := uc.Locker.Unlock(ctx, lockKey, lockValue); err != nil {
			uc.Log.Warn("voucherUsecase.Refund failed to release lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(err),
			)
		}
	}()

	var oldStatus models.VoucherStatus
	updated, err := uc.transition(ctx, code, func(voucher *models.Voucher) error {
		if voucher.Status.IsTerminal() {
			return exceptions.ErrVoucherInvalidTransition(string(voucher.Status))
		}
		now := uc.Clock.Now()
		oldStatus = voucher.Status

		refundAmount, feeErr := refundAmountFor(voucher, constvars.RefundFeeTypeProportional)
		if feeErr != nil {
			return feeErr
		}
		if amount != nil {
			refundAmount = amount.Round(2)
		}

		voucher.Status = models.VoucherStatusRefunded
		voucher.PaymentStatus = constvars.PaymentStatusRefunded
		voucher.RefundedAt = &now
		voucher.RefundAmount = refundAmount
		voucher.RefundReason = &reason
		return nil
	})
	if err != nil {
		uc.Log.Error("voucherUsecase.Refund error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if _, err := uc.LedgerUsecase.BookVoucherRefund(ctx, updated, updated.RefundAmount, reason, actor); err != nil {
		uc.Log.Error("voucherUsecase.Refund error booking refund",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordAudit(ctx, updated, actor, models.AuditActionUpdate, models.AuditSeverityMedium,
		fmt.Sprintf("voucher %s refunded (%s): %s", code, updated.RefundAmount.StringFixed(2), reason),
		map[string]interface{}{"status": string(oldStatus)}, false)

	uc.Log.Info("voucherUsecase.Refund completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
	)
	return updated, nil
}

// refundAmountFor resolves the refund amount by fee type: proportional
// scales the final price by the remaining sessions, full returns the final
// price and none returns zero.
func refundAmountFor(voucher *models.Voucher, feeType string) (decimal.Decimal, error) {
	switch feeType {
	case constvars.RefundFeeTypeFull:
		return voucher.FinalPrice.Round(2), nil
	case constvars.RefundFeeTypeNone:
		return decimal.Zero, nil
	case constvars.RefundFeeTypeProportional, "":
		if voucher.TotalSessions == 0 {
			return decimal.Zero, nil
		}
		return voucher.FinalPrice.
			Mul(decimal.NewFromInt(int64(voucher.RemainingSessions))).
			Div(decimal.NewFromInt(int64(voucher.TotalSessions))).
			Round(2), nil
	default:
		return decimal.Zero, exceptions.ErrRefundFeeTypeInvalid(feeType)
	}
}

// CalculateRefund previews the refund amount for a voucher without mutating
// anything.
func (uc *voucherUsecase) CalculateRefund(ctx context.Context, code, feeType string) (decimal.Decimal, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("voucherUsecase.CalculateRefund called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
	)

	voucher, err := uc.VoucherRepository.FindVoucherByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	if voucher == nil {
		return decimal.Zero, exceptions.ErrVoucherNotFound(nil)
	}
	amount, err := refundAmountFor(voucher, feeType)
	if err != nil {
		uc.Log.Error("voucherUsecase.CalculateRefund error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return decimal.Zero, err
	}

	uc.Log.Info("voucherUsecase.CalculateRefund completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingVoucherCodeKey, code),
	)
	return amount, nil
}

// SweepExpired flips every ACTIVE voucher whose validity window has closed to
// EXPIRED. Runs from the background worker and the admin endpoint.
func (uc *voucherUsecase) SweepExpired(ctx context.Context) (int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("voucherUsecase.SweepExpired called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	expired, err := uc.VoucherRepository.ExpireDue(ctx, uc.Clock.Now())
	if err != nil {
		uc.Log.Error("voucherUsecase.SweepExpired error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, err
	}

	if len(expired) > 0 {
		codes := make([]string, 0, len(expired))
		for i := range expired {
			codes = append(codes, expired[i].Code)
		}
		uc.AuditUsecase.Record(ctx, &contracts.AuditEntry{
			ActionType:  models.AuditActionUpdate,
			Description: fmt.Sprintf("%d vouchers expired by sweep", len(expired)),
			EntityType:  constvars.ResourceVouchers,
			Actor:       models.SystemActor(),
			RequestID:   requestID,
			NewValues:   map[string]interface{}{"codes": codes},
			Severity:    models.AuditSeverityLow,
		})
	}

	uc.Log.Info("voucherUsecase.SweepExpired completed successfully",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(expired)),
	)
	return len(expired), nil
}

func (uc *voucherUsecase) FindByCode(ctx context.Context, code string) (*models.Voucher, error) {
	voucher, err := uc.VoucherRepository.FindVoucherByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, exceptions.ErrVoucherNotFound(nil)
	}
	return voucher, nil
}

func (uc *voucherUsecase) ListUsages(ctx context.Context, code string) ([]models.VoucherUsage, error) {
	voucher, err := uc.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return uc.VoucherRepository.ListUsagesByVoucherID(ctx, voucher.ID)
}

func (uc *voucherUsecase) recordAudit(ctx context.Context, voucher *models.Voucher, actor models.AuditActor, action models.AuditActionType, severity models.AuditSeverity, description string, oldValues map[string]interface{}, lgpdRelevant bool) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.AuditUsecase.Record(ctx, &contracts.AuditEntry{
		ActionType:  action,
		Description: description,
		EntityType:  constvars.ResourceVouchers,
		EntityID:    voucher.ID,
		Actor:       actor,
		RequestID:   requestID,
		OldValues:   oldValues,
		NewValues: map[string]interface{}{
			"code":               voucher.Code,
			"status":             string(voucher.Status),
			"remaining_sessions": voucher.RemainingSessions,
		},
		Severity:       severity,
		IsLGPDRelevant: lgpdRelevant,
	})
}

func (uc *voucherUsecase) recordUsageAudit(ctx context.Context, voucher *models.Voucher, usage *models.VoucherUsage, actor models.AuditActor, action models.AuditActionType, severity models.AuditSeverity, description string) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.AuditUsecase.Record(ctx, &contracts.AuditEntry{
		ActionType:  action,
		Description: description,
		EntityType:  constvars.ResourceVoucherUsages,
		EntityID:    usage.ID,
		Actor:       actor,
		RequestID:   requestID,
		NewValues: map[string]interface{}{
			"voucher_code": voucher.Code,
			"status":       string(usage.Status),
		},
		Severity: severity,
	})
}
