package controllers

import (
	"context"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"fisioflow-service/internal/pkg/exceptions"
	"fisioflow-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

type AuditController struct {
	Log          *zap.Logger
	AuditUsecase contracts.AuditUsecase
}

var (
	auditControllerInstance *AuditController
	onceAuditController     sync.Once
)

func NewAuditController(logger *zap.Logger, auditUsecase contracts.AuditUsecase) *AuditController {
	onceAuditController.Do(func() {
		auditControllerInstance = &AuditController{
			Log:          logger,
			AuditUsecase: auditUsecase,
		}
	})
	return auditControllerInstance
}

func (ctrl *AuditController) List(w http.ResponseWriter, r *http.Request) {
	query := utils.BuildAuditListQuery(r)
	if err := utils.ValidateStruct(query); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	filter := &contracts.AuditListFilter{
		ActionType: models.AuditActionType(query.ActionType),
		EntityType: query.EntityType,
		UserID:     query.UserID,
		Limit:      int64(query.PageSize),
		Offset:     int64((query.Page - 1) * query.PageSize),
	}
	if query.Start != "" {
		start, err := utils.ParseTimestamp("start", query.Start)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
		filter.Start = &start
	}
	if query.End != "" {
		end, err := utils.ParseTimestamp("end", query.End)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
		filter.End = &end
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	logs, total, err := ctrl.AuditUsecase.List(ctx, filter)
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	pagination := utils.BuildPaginationResponse(int(total), query.Page, query.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.GetAuditLogsSuccessMessage,
		pagination, utils.MapAuditLogsToResponse(logs))
}

func (ctrl *AuditController) Statistics(w http.ResponseWriter, r *http.Request) {
	params := utils.BuildQueryParams(r)

	var start, end *time.Time
	if params.Start != "" {
		parsed, err := utils.ParseTimestamp("start", params.Start)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
		start = &parsed
	}
	if params.End != "" {
		parsed, err := utils.ParseTimestamp("end", params.End)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
		end = &parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	statistics, err := ctrl.AuditUsecase.Statistics(ctx, start, end)
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AuditStatisticsSuccessMessage,
		utils.MapAuditStatisticsToResponse(statistics))
}

func (ctrl *AuditController) Archive(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	count, err := ctrl.AuditUsecase.ArchiveOldLogs(ctx)
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ArchiveAuditLogsSuccessMessage,
		map[string]int{"archived": count})
}

func (ctrl *AuditController) Cleanup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	count, err := ctrl.AuditUsecase.CleanupExpiredLogs(ctx)
	if err != nil {
		buildErr(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CleanupAuditLogsSuccessMessage,
		map[string]int{"deleted": count})
}
