package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueReport aggregates COMPLETED INCOME transactions over a period.
type RevenueReport struct {
	PeriodStart      time.Time                  `json:"period_start"`
	PeriodEnd        time.Time                  `json:"period_end"`
	TransactionCount int64                      `json:"transaction_count"`
	TotalGross       decimal.Decimal            `json:"total_gross"`
	TotalFees        decimal.Decimal            `json:"total_fees"`
	TotalNet         decimal.Decimal            `json:"total_net"`
	ByCategory       map[string]decimal.Decimal `json:"by_category"`
}

// ExpensesReport aggregates COMPLETED EXPENSE transactions grouped by category.
type ExpensesReport struct {
	PeriodStart      time.Time                  `json:"period_start"`
	PeriodEnd        time.Time                  `json:"period_end"`
	TransactionCount int64                      `json:"transaction_count"`
	TotalAmount      decimal.Decimal            `json:"total_amount"`
	ByCategory       map[string]decimal.Decimal `json:"by_category"`
}

// CashFlowReport is revenue net minus expenses for the period.
type CashFlowReport struct {
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Revenue     RevenueReport   `json:"revenue"`
	Expenses    ExpensesReport  `json:"expenses"`
	NetFlow     decimal.Decimal `json:"net_flow"`
}
