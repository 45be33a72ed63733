package routers

import (
	"fisioflow-service/internal/app/delivery/http/controllers"
	"fisioflow-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachVoucherRoutes(router chi.Router, middlewares *middlewares.Middlewares, voucherController *controllers.VoucherController) {
	router.With(middlewares.Authenticate).Post("/", voucherController.Issue)
	router.With(middlewares.Authenticate).Get("/{code}", voucherController.Get)
	router.With(middlewares.Authenticate).Get("/{code}/usages", voucherController.ListUsages)
	router.With(middlewares.Authenticate).Post("/{code}/activate", voucherController.Activate)
	router.With(middlewares.Authenticate).Post("/{code}/redeem", voucherController.Redeem)
	router.With(middlewares.Authenticate).Post("/{code}/transfer", voucherController.Transfer)
	router.With(middlewares.Authenticate).Post("/{code}/extend", voucherController.Extend)
	router.With(middlewares.Authenticate).Post("/{code}/cancel", voucherController.Cancel)
	router.With(middlewares.Authenticate).Get("/{code}/refund-preview", voucherController.RefundPreview)
	router.With(middlewares.Authenticate).Post("/{code}/refund", voucherController.Refund)
}

func attachVoucherUsageRoutes(router chi.Router, middlewares *middlewares.Middlewares, voucherController *controllers.VoucherController) {
	router.With(middlewares.Authenticate).Post("/{usageID}/complete", voucherController.CompleteUsage)
	router.With(middlewares.Authenticate).Post("/{usageID}/cancel", voucherController.CancelUsage)
	router.With(middlewares.Authenticate).Post("/{usageID}/no-show", voucherController.MarkNoShow)
}
