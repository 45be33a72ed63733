package routers

import (
	"fisioflow-service/internal/app/delivery/http/controllers"
	"fisioflow-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAuditRoutes(router chi.Router, middlewares *middlewares.Middlewares, auditController *controllers.AuditController) {
	router.With(middlewares.Authenticate).Get("/", auditController.List)
	router.With(middlewares.Authenticate).Get("/statistics", auditController.Statistics)
}

func attachAdminRoutes(router chi.Router, middlewares *middlewares.Middlewares, voucherController *controllers.VoucherController, auditController *controllers.AuditController) {
	router.With(middlewares.RequireAPIKey).Post("/vouchers/sweep-expired", voucherController.SweepExpired)
	router.With(middlewares.RequireAPIKey).Post("/audit-logs/archive", auditController.Archive)
	router.With(middlewares.RequireAPIKey).Post("/audit-logs/cleanup", auditController.Cleanup)
}
