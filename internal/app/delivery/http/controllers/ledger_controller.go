package controllers

import (
	"context"
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

type LedgerController struct {
	Log           *zap.Logger
	LedgerUsecase contracts.LedgerUsecase
	Clock         contracts.Clock
}

var (
	ledgerControllerInstance *LedgerController
	onceLedgerController     sync.Once
)

func NewLedgerController(logger *zap.Logger, ledgerUsecase contracts.LedgerUsecase, clock contracts.Clock) *LedgerController {
	onceLedgerController.Do(func() {
		ledgerControllerInstance = &LedgerController{
			Log:           logger,
			LedgerUsecase: ledgerUsecase,
			Clock:         clock,
		}
	})
	return ledgerControllerInstance
}

func (ctrl *LedgerController) Record(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	request := new(requests.RecordTransaction)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("failed to parse record transaction request",
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

	transaction, err := ctrl.LedgerUsecase.Record(ctx, request, utils.ActorFromContext(r))
	if err != nil {
		ctrl.Log.Error("failed to record transaction",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusCreated, constvars.RecordTransactionSuccessMessage,
		utils.MapTransactionToResponse(transaction))
}

func (ctrl *LedgerController) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	transaction, err := ctrl.LedgerUsecase.FindByCode(ctx, code)
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetTransactionSuccessMessage,
		utils.MapTransactionToResponse(transaction))
}

func (ctrl *LedgerController) Process(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx, warning := utils.ContextWithAuditWarning(ctx)

	transaction, err := ctrl.LedgerUsecase.Process(ctx, code, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusOK, constvars.ProcessTransactionSuccessMessage,
		utils.MapTransactionToResponse(transaction))
}

func (ctrl *LedgerController) Complete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	request := new(requests.CompleteTransaction)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	var paymentDate *time.Time
	if request.PaymentDate != "" {
		parsed, err := utils.ParseTimestamp("payment_date", request.PaymentDate)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
		paymentDate = &parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx, warning := utils.ContextWithAuditWarning(ctx)

	transaction, err := ctrl.LedgerUsecase.Complete(ctx, code, paymentDate, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusOK, constvars.CompleteTransactionSuccessMessage,
		utils.MapTransactionToResponse(transaction))
}

func (ctrl *LedgerController) Cancel(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	request := new(requests.CancelTransaction)
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

	transaction, err := ctrl.LedgerUsecase.Cancel(ctx, code, request.Reason, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusOK, constvars.CancelTransactionSuccessMessage,
		utils.MapTransactionToResponse(transaction))
}

func (ctrl *LedgerController) Refund(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	request := new(requests.RefundTransaction)
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

	transaction, err := ctrl.LedgerUsecase.Refund(ctx, code, amount, request.Reason, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusCreated, constvars.RefundTransactionSuccessMessage,
		utils.MapTransactionToResponse(transaction))
}

func (ctrl *LedgerController) Reconcile(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	request := new(requests.ReconcileTransaction)
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

	transaction, err := ctrl.LedgerUsecase.Reconcile(ctx, code, request.BankReference, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusOK, constvars.ReconcileTransactionSuccessMessage,
		utils.MapTransactionToResponse(transaction))
}

func (ctrl *LedgerController) CreateInstallments(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	request := new(requests.CreateInstallments)
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

	installments, err := ctrl.LedgerUsecase.CreateInstallments(ctx, code, request.Total, utils.ActorFromContext(r))
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	respond(w, warning, constvars.StatusCreated, constvars.InstallmentsSuccessMessage,
		utils.MapTransactionsToResponse(installments))
}

func (ctrl *LedgerController) RevenueReport(w http.ResponseWriter, r *http.Request) {
	ctrl.report(w, r, "revenue")
}

func (ctrl *LedgerController) ExpensesReport(w http.ResponseWriter, r *http.Request) {
	ctrl.report(w, r, "expenses")
}

func (ctrl *LedgerController) CashFlowReport(w http.ResponseWriter, r *http.Request) {
	ctrl.report(w, r, "cashflow")
}

func (ctrl *LedgerController) report(w http.ResponseWriter, r *http.Request, kind string) {
	params := utils.BuildQueryParams(r)
	start, end, err := utils.ParsePeriod(params.Start, params.End, ctrl.Clock.Now())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	switch kind {
	case "revenue":
		report, err := ctrl.LedgerUsecase.RevenueReport(ctx, start, end)
		if err != nil {
			buildErr(ctrl.Log, w, err)
			return
		}
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RevenueReportSuccessMessage,
			utils.MapRevenueReportToResponse(report))
	case "expenses":
		report, err := ctrl.LedgerUsecase.ExpensesReport(ctx, start, end)
		if err != nil {
			buildErr(ctrl.Log, w, err)
			return
		}
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ExpensesReportSuccessMessage,
			utils.MapExpensesReportToResponse(report))
	default:
		report, err := ctrl.LedgerUsecase.CashFlow(ctx, start, end)
		if err != nil {
			buildErr(ctrl.Log, w, err)
			return
		}
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CashFlowReportSuccessMessage,
			utils.MapCashFlowReportToResponse(report))
	}
}
