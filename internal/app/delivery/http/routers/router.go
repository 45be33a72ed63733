package routers

import (
	"fisioflow-service/internal/app/config"
	"fisioflow-service/internal/app/delivery/http/controllers"
	"fisioflow-service/internal/app/delivery/http/middlewares"
	"fisioflow-service/internal/pkg/constvars"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	voucherController *controllers.VoucherController,
	ledgerController *controllers.LedgerController,
	auditController *controllers.AuditController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constvars.HeaderXRequestID, "x-api-key"},
		ExposedHeaders:   []string{constvars.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second))

	router.Use(middlewares.RequestID)
	router.Use(middlewares.Logging)
	router.Use(middlewares.Recovery)

	router.Route(internalConfig.App.EndpointPrefix, func(r chi.Router) {
		r.Route("/vouchers", func(r chi.Router) {
			attachVoucherRoutes(r, middlewares, voucherController)
		})
		r.Route("/voucher-usages", func(r chi.Router) {
			attachVoucherUsageRoutes(r, middlewares, voucherController)
		})
		r.Route("/transactions", func(r chi.Router) {
			attachTransactionRoutes(r, middlewares, ledgerController)
		})
		r.Route("/reports", func(r chi.Router) {
			attachReportRoutes(r, middlewares, ledgerController)
		})
		r.Route("/audit-logs", func(r chi.Router) {
			attachAuditRoutes(r, middlewares, auditController)
		})
		r.Route("/admin", func(r chi.Router) {
			attachAdminRoutes(r, middlewares, voucherController, auditController)
		})
	})
}
