package controllers

import (
	"context"
	"errors"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/pkg/constvars"
	"fisioflow-service/internal/pkg/dto/requests"
	"fisioflow-service/internal/pkg/exceptions"
	"fisioflow-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type VoucherController struct {
	Log            *zap.Logger
	VoucherUsecase contracts.VoucherUsecase
	Clock          contracts.Clock
}

var (
	voucherControllerInstance *VoucherController
	onceVoucherController     sync.Once
)

func NewVoucherController(logger *zap.Logger, voucherUsecase contracts.VoucherUsecase, clock contracts.Clock) *VoucherController {
	onceVoucherController.Do(func() {
		voucherControllerInstance = &VoucherController{
			Log:            logger,
			VoucherUsecase: voucherUsecase,
			Clock:          clock,
		}
	})
	return voucherControllerInstance
}

// respond writes the mapped payload, downgrading to a warning response when
// the audit trail was deferred.
func respond(w http.ResponseWriter, warning *utils.AuditWarning, code int, message string, data interface{}) {
	if warning != nil && warning.Message != "" {
		utils.BuildSuccessResponseWithWarning(w, code, message, warning.Message, data)
		return
	}
	utils.BuildSuccessResponse(w, code, message, data)
}

func buildErr(log *zap.Logger, w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}

func (ctrl *VoucherController) Issue(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	request := new(requests.IssueVoucher)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("failed to parse issue voucher request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx, warning := utils.ContextWithAuditWarning(ctx)

	voucher, err := ctrl.VoucherUsecase.Issue(ctx, request, utils.ActorFromContext(r))
	if err != nil {
		ctrl.Log.Error("failed to issue voucher",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusCreated, constvars.IssueVoucherSuccessMessage,
		utils.MapVoucherToResponse(voucher, ctrl.Clock.Now()))
}

func (ctrl *VoucherController) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	voucher, err := ctrl.VoucherUsecase.FindByCode(ctx, code)
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetVoucherSuccessMessage,
		utils.MapVoucherToResponse(voucher, ctrl.Clock.Now()))
}

func (ctrl *VoucherController) Activate(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	code := chi.URLParam(r, "code")

	request := new(requests.ActivateVoucher)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx, warning := utils.ContextWithAuditWarning(ctx)

	voucher, err := ctrl.VoucherUsecase.Activate(ctx, code, request.PaymentReference, utils.ActorFromContext(r))
	if err != nil {
		ctrl.Log.Error("failed to activate voucher",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingVoucherCodeKey, code),
			zap.Error(err),
		)
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusOK, constvars.ActivateVoucherSuccessMessage,
		utils.MapVoucherToResponse(voucher, ctrl.Clock.Now()))
}

func (ctrl *VoucherController) Redeem(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	code := chi.URLParam(r, "code")

	request := new(requests.RedeemVoucher)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx, warning := utils.ContextWithAuditWarning(ctx)

	usage, err := ctrl.VoucherUsecase.Redeem(ctx, code, request, utils.ActorFromContext(r))
	if err != nil {
		ctrl.Log.Error("failed to redeem voucher",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingVoucherCodeKey, code),
			zap.Error(err),
		)
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusCreated, constvars.RedeemVoucherSuccessMessage,
		utils.MapVoucherUsageToResponse(usage))
}

func (ctrl *VoucherController) CompleteUsage(w http.ResponseWriter, r *http.Request) {
	usageID := chi.URLParam(r, "usageID")

	request := new(requests.CompleteUsage)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx, warning := utils.ContextWithAuditWarning(ctx)

	usage, err := ctrl.VoucherUsecase.CompleteUsage(ctx, usageID, request, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusOK, constvars.CompleteUsageSuccessMessage,
		utils.MapVoucherUsageToResponse(usage))
}

func (ctrl *VoucherController) CancelUsage(w http.ResponseWriter, r *http.Request) {
	usageID := chi.URLParam(r, "usageID")

	request := new(requests.CancelUsage)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx, warning := utils.ContextWithAuditWarning(ctx)

	usage, err := ctrl.VoucherUsecase.CancelUsage(ctx, usageID, request.Reason, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusOK, constvars.CancelUsageSuccessMessage,
		utils.MapVoucherUsageToResponse(usage))
}

func (ctrl *VoucherController) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	usageID := chi.URLParam(r, "usageID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx, warning := utils.ContextWithAuditWarning(ctx)

	usage, err := ctrl.VoucherUsecase.MarkNoShow(ctx, usageID, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusOK, constvars.NoShowUsageSuccessMessage,
		utils.MapVoucherUsageToResponse(usage))
}

func (ctrl *VoucherController) Transfer(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	request := new(requests.TransferVoucher)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx, warning := utils.ContextWithAuditWarning(ctx)

	voucher, err := ctrl.VoucherUsecase.Transfer(ctx, code, request.NewPatientID, request.Reason, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusOK, constvars.TransferVoucherSuccessMessage,
		utils.MapVoucherToResponse(voucher, ctrl.Clock.Now()))
}

func (ctrl *VoucherController) Extend(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	request := new(requests.ExtendVoucher)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx, warning := utils.ContextWithAuditWarning(ctx)

	voucher, err := ctrl.VoucherUsecase.Extend(ctx, code, request.Days, request.Reason, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusOK, constvars.ExtendVoucherSuccessMessage,
		utils.MapVoucherToResponse(voucher, ctrl.Clock.Now()))
}

func (ctrl *VoucherController) Cancel(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	request := new(requests.CancelVoucher)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx, warning := utils.ContextWithAuditWarning(ctx)

	voucher, err := ctrl.VoucherUsecase.Cancel(ctx, code, request.Reason, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusOK, constvars.CancelVoucherSuccessMessage,
		utils.MapVoucherToResponse(voucher, ctrl.Clock.Now()))
}

func (ctrl *VoucherController) Refund(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	request := new(requests.RefundVoucher)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	var amount *decimal.Decimal
	if request.Amount != "" {
		parsed, err := utils.ParseMoney("amount", request.Amount)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
		amount = &parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx, warning := utils.ContextWithAuditWarning(ctx)

	voucher, err := ctrl.VoucherUsecase.Refund(ctx, code, amount, request.Reason, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusOK, constvars.RefundVoucherSuccessMessage,
		utils.MapVoucherToResponse(voucher, ctrl.Clock.Now()))
}

func (ctrl *VoucherController) RefundPreview(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	feeType := r.URL.Query().Get("fee_type")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	amount, err := ctrl.VoucherUsecase.CalculateRefund(ctx, code, feeType)
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RefundPreviewSuccessMessage,
		map[string]string{"refund_amount": amount.StringFixed(2)})
}

func (ctrl *VoucherController) ListUsages(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	usages, err := ctrl.VoucherUsecase.ListUsages(ctx, code)
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetUsagesSuccessMessage,
		utils.MapVoucherUsagesToResponse(usages))
}

func (ctrl *VoucherController) SweepExpired(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	count, err := ctrl.VoucherUsecase.SweepExpired(ctx)
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SweepVouchersSuccessMessage,
		map[string]int{"expired": count})
}
