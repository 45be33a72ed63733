package queries

const (
	InsertTransaction = `
		INSERT INTO financial_transactions (
			id,
			transaction_code,
			type,
			category,
			status,
			description,
			gross_amount,
			discount_amount,
			tax_amount,
			platform_fee,
			gateway_fee,
			fee_amount,
			withholding_tax,
			partner_commission,
			net_amount,
			payment_method,
			patient_id,
			partner_id,
			voucher_id,
			appointment_id,
			transaction_date,
			due_date,
			payment_date,
			settlement_date,
			competence_month,
			competence_year,
			installment_number,
			installment_total,
			parent_transaction_id,
			is_reconciled,
			reconciled_at,
			bank_reference,
			cancellation_reason,
			cancelled_by,
			refund_reason,
			refunded_by,
			created_at,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, $37, $38
		)
	`

	GetTransactionByID = `
		SELECT
			id,
			transaction_code,
			type,
			category,
			status,
			description,
			gross_amount,
			discount_amount,
			tax_amount,
			platform_fee,
			gateway_fee,
			fee_amount,
			withholding_tax,
			partner_commission,
			net_amount,
			payment_method,
			patient_id,
			partner_id,
			voucher_id,
			appointment_id,
			transaction_date,
			due_date,
			payment_date,
			settlement_date,
			competence_month,
			competence_year,
			installment_number,
			installment_total,
			parent_transaction_id,
			is_reconciled,
			reconciled_at,
			bank_reference,
			cancellation_reason,
			cancelled_by,
			refund_reason,
			refunded_by,
			created_at,
			updated_at
		FROM financial_transactions
		WHERE id = $1
	`

	GetTransactionByIDForUpdate = GetTransactionByID + `
		FOR UPDATE
	`

	GetTransactionByCode = `
		SELECT
			id,
			transaction_code,
			type,
			category,
			status,
			description,
			gross_amount,
			discount_amount,
			tax_amount,
			platform_fee,
			gateway_fee,
			fee_amount,
			withholding_tax,
			partner_commission,
			net_amount,
			payment_method,
			patient_id,
			partner_id,
			voucher_id,
			appointment_id,
			transaction_date,
			due_date,
			payment_date,
			settlement_date,
			competence_month,
			competence_year,
			installment_number,
			installment_total,
			parent_transaction_id,
			is_reconciled,
			reconciled_at,
			bank_reference,
			cancellation_reason,
			cancelled_by,
			refund_reason,
			refunded_by,
			created_at,
			updated_at
		FROM financial_transactions
		WHERE transaction_code = $1
	`

	GetTransactionByCodeForUpdate = GetTransactionByCode + `
		FOR UPDATE
	`

	GetAllTransactions = `
		SELECT
			id,
			transaction_code,
			type,
			category,
			status,
			description,
			gross_amount,
			discount_amount,
			tax_amount,
			platform_fee,
			gateway_fee,
			fee_amount,
			withholding_tax,
			partner_commission,
			net_amount,
			payment_method,
			patient_id,
			partner_id,
			voucher_id,
			appointment_id,
			transaction_date,
			due_date,
			payment_date,
			settlement_date,
			competence_month,
			competence_year,
			installment_number,
			installment_total,
			parent_transaction_id,
			is_reconciled,
			reconciled_at,
			bank_reference,
			cancellation_reason,
			cancelled_by,
			refund_reason,
			refunded_by,
			created_at,
			updated_at
		FROM financial_transactions
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`

	CountTransactions = `
		SELECT COUNT(*) FROM financial_transactions
	`

	CountTransactionsByCode = `
		SELECT COUNT(*) FROM financial_transactions WHERE transaction_code = $1
	`

	GetTransactionsByParentID = `
		SELECT
			id,
			transaction_code,
			type,
			category,
			status,
			description,
			gross_amount,
			discount_amount,
			tax_amount,
			platform_fee,
			gateway_fee,
			fee_amount,
			withholding_tax,
			partner_commission,
			net_amount,
			payment_method,
			patient_id,
			partner_id,
			voucher_id,
			appointment_id,
			transaction_date,
			due_date,
			payment_date,
			settlement_date,
			competence_month,
			competence_year,
			installment_number,
			installment_total,
			parent_transaction_id,
			is_reconciled,
			reconciled_at,
			bank_reference,
			cancellation_reason,
			cancelled_by,
			refund_reason,
			refunded_by,
			created_at,
			updated_at
		FROM financial_transactions
		WHERE parent_transaction_id = $1
		ORDER BY installment_number ASC
	`

	GetCompletedTransactionsByTypeBetween = `
		SELECT
			id,
			transaction_code,
			type,
			category,
			status,
			description,
			gross_amount,
			discount_amount,
			tax_amount,
			platform_fee,
			gateway_fee,
			fee_amount,
			withholding_tax,
			partner_commission,
			net_amount,
			payment_method,
			patient_id,
			partner_id,
			voucher_id,
			appointment_id,
			transaction_date,
			due_date,
			payment_date,
			settlement_date,
			competence_month,
			competence_year,
			installment_number,
			installment_total,
			parent_transaction_id,
			is_reconciled,
			reconciled_at,
			bank_reference,
			cancellation_reason,
			cancelled_by,
			refund_reason,
			refunded_by,
			created_at,
			updated_at
		FROM financial_transactions
		WHERE type = $1
		  AND status = 'COMPLETED'
		  AND transaction_date >= $2
		  AND transaction_date < $3
		ORDER BY transaction_date ASC
	`

	GetVoucherPaymentTransaction = `
		SELECT
			id,
			transaction_code,
			type,
			category,
			status,
			description,
			gross_amount,
			discount_amount,
			tax_amount,
			platform_fee,
			gateway_fee,
			fee_amount,
			withholding_tax,
			partner_commission,
			net_amount,
			payment_method,
			patient_id,
			partner_id,
			voucher_id,
			appointment_id,
			transaction_date,
			due_date,
			payment_date,
			settlement_date,
			competence_month,
			competence_year,
			installment_number,
			installment_total,
			parent_transaction_id,
			is_reconciled,
			reconciled_at,
			bank_reference,
			cancellation_reason,
			cancelled_by,
			refund_reason,
			refunded_by,
			created_at,
			updated_at
		FROM financial_transactions
		WHERE voucher_id = $1
		  AND type = 'INCOME'
		ORDER BY created_at DESC
		LIMIT 1
	`

	UpdateTransaction = `
		UPDATE financial_transactions SET
			status = $2,
			payment_date = $3,
			settlement_date = $4,
			is_reconciled = $5,
			reconciled_at = $6,
			bank_reference = $7,
			cancellation_reason = $8,
			cancelled_by = $9,
			refund_reason = $10,
			refunded_by = $11,
			updated_at = $12
		WHERE id = $1
	`
)
