package queries

const (
	InsertVoucher = `
		INSERT INTO vouchers (
			id,
			code,
			type,
			status,
			patient_id,
			partner_id,
			total_sessions,
			used_sessions,
			remaining_sessions,
			valid_from,
			valid_until,
			original_price,
			discount_amount,
			final_price,
			transferable,
			transferred_to,
			transfer_date,
			service_types,
			excluded_locations,
			payment_status,
			payment_reference,
			payment_date,
			activated_at,
			expired_at,
			cancelled_at,
			refunded_at,
			refund_amount,
			refund_reason,
			cancellation_reason,
			total_cancellations,
			total_no_shows,
			internal_notes,
			created_at,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34
		)
	`

	GetVoucherByID = `
		SELECT
			id,
			code,
			type,
			status,
			patient_id,
			partner_id,
			total_sessions,
			used_sessions,
			remaining_sessions,
			valid_from,
			valid_until,
			original_price,
			discount_amount,
			final_price,
			transferable,
			transferred_to,
			transfer_date,
			service_types,
			excluded_locations,
			payment_status,
			payment_reference,
			payment_date,
			activated_at,
			expired_at,
			cancelled_at,
			refunded_at,
			refund_amount,
			refund_reason,
			cancellation_reason,
			total_cancellations,
			total_no_shows,
			internal_notes,
			created_at,
			updated_at
		FROM vouchers
		WHERE id = $1
	`

	GetVoucherByIDForUpdate = GetVoucherByID + `
		FOR UPDATE
	`

	GetVoucherByCode = `
		SELECT
			id,
			code,
			type,
			status,
			patient_id,
			partner_id,
			total_sessions,
			used_sessions,
			remaining_sessions,
			valid_from,
			valid_until,
			original_price,
			discount_amount,
			final_price,
			transferable,
			transferred_to,
			transfer_date,
			service_types,
			excluded_locations,
			payment_status,
			payment_reference,
			payment_date,
			activated_at,
			expired_at,
			cancelled_at,
			refunded_at,
			refund_amount,
			refund_reason,
			cancellation_reason,
			total_cancellations,
			total_no_shows,
			internal_notes,
			created_at,
			updated_at
		FROM vouchers
		WHERE code = $1
	`

	GetVoucherByCodeForUpdate = GetVoucherByCode + `
		FOR UPDATE
	`

	GetAllVouchers = `
		SELECT
			id,
			code,
			type,
			status,
			patient_id,
			partner_id,
			total_sessions,
			used_sessions,
			remaining_sessions,
			valid_from,
			valid_until,
			original_price,
			discount_amount,
			final_price,
			transferable,
			transferred_to,
			transfer_date,
			service_types,
			excluded_locations,
			payment_status,
			payment_reference,
			payment_date,
			activated_at,
			expired_at,
			cancelled_at,
			refunded_at,
			refund_amount,
			refund_reason,
			cancellation_reason,
			total_cancellations,
			total_no_shows,
			internal_notes,
			created_at,
			updated_at
		FROM vouchers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	CountVouchers = `
		SELECT COUNT(*) FROM vouchers
	`

	CountVouchersByCode = `
		SELECT COUNT(*) FROM vouchers WHERE code = $1
	`

	UpdateVoucher = `
		UPDATE vouchers SET
			status = $2,
			used_sessions = $3,
			remaining_sessions = $4,
			valid_until = $5,
			transferred_to = $6,
			transfer_date = $7,
			payment_status = $8,
			payment_reference = $9,
			payment_date = $10,
			activated_at = $11,
			expired_at = $12,
			cancelled_at = $13,
			refunded_at = $14,
			refund_amount = $15,
			refund_reason = $16,
			cancellation_reason = $17,
			total_cancellations = $18,
			total_no_shows = $19,
			internal_notes = $20,
			updated_at = $21
		WHERE id = $1
	`

	ExpireDueVouchers = `
		UPDATE vouchers SET
			status = 'EXPIRED',
			expired_at = $1,
			updated_at = $1
		WHERE status = 'ACTIVE'
		  AND valid_until < $1
		RETURNING
			id,
			code,
			type,
			status,
			patient_id,
			partner_id,
			total_sessions,
			used_sessions,
			remaining_sessions,
			valid_from,
			valid_until,
			original_price,
			discount_amount,
			final_price,
			transferable,
			transferred_to,
			transfer_date,
			service_types,
			excluded_locations,
			payment_status,
			payment_reference,
			payment_date,
			activated_at,
			expired_at,
			cancelled_at,
			refunded_at,
			refund_amount,
			refund_reason,
			cancellation_reason,
			total_cancellations,
			total_no_shows,
			internal_notes,
			created_at,
			updated_at
	`
)
