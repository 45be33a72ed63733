package routers

import (
	"fisioflow-service/internal/app/delivery/http/controllers"
	"fisioflow-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachTransactionRoutes(router chi.Router, middlewares *middlewares.Middlewares, ledgerController *controllers.LedgerController) {
	router.With(middlewares.Authenticate).Post("/", ledgerController.Record)
	router.With(middlewares.Authenticate).Get("/{code}", ledgerController.Get)
	router.With(middlewares.Authenticate).Post("/{code}/process", ledgerController.Process)
	router.With(middlewares.Authenticate).Post("/{code}/complete", ledgerController.Complete)
	router.With(middlewares.Authenticate).Post("/{code}/cancel", ledgerController.Cancel)
	router.With(middlewares.Authenticate).Post("/{code}/refund", ledgerController.Refund)
	router.With(middlewares.Authenticate).Post("/{code}/reconcile", ledgerController.Reconcile)
	router.With(middlewares.Authenticate).Post("/{code}/installments", ledgerController.CreateInstallments)
}

func attachReportRoutes(router chi.Router, middlewares *middlewares.Middlewares, ledgerController *controllers.LedgerController) {
	router.With(middlewares.Authenticate).Get("/revenue", ledgerController.RevenueReport)
	router.With(middlewares.Authenticate).Get("/expenses", ledgerController.ExpensesReport)
	router.With(middlewares.Authenticate).Get("/cash-flow", ledgerController.CashFlowReport)
}
