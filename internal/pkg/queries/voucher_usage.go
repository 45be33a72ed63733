package queries

const (
	InsertVoucherUsage = `
		INSERT INTO voucher_usages (
			id,
			voucher_id,
			status,
			scheduled_date,
			actual_date,
			duration_minutes,
			service_type,
			service_location,
			patient_rating,
			partner_rating,
			notes,
			cancel_reason,
			created_at,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14
		)
	`

	GetVoucherUsageByID = `
		SELECT
			id,
			voucher_id,
			status,
			scheduled_date,
			actual_date,
			duration_minutes,
			service_type,
			service_location,
			patient_rating,
			partner_rating,
			notes,
			cancel_reason,
			created_at,
			updated_at
		FROM voucher_usages
		WHERE id = $1
	`

	GetVoucherUsageByIDForUpdate = GetVoucherUsageByID + `
		FOR UPDATE
	`

	GetVoucherUsagesByVoucherID = `
		SELECT
			id,
			voucher_id,
			status,
			scheduled_date,
			actual_date,
			duration_minutes,
			service_type,
			service_location,
			patient_rating,
			partner_rating,
			notes,
			cancel_reason,
			created_at,
			updated_at
		FROM voucher_usages
		WHERE voucher_id = $1
		ORDER BY scheduled_date DESC
	`

	UpdateVoucherUsage = `
		UPDATE voucher_usages SET
			status = $2,
			actual_date = $3,
			duration_minutes = $4,
			patient_rating = $5,
			partner_rating = $6,
			notes = $7,
			cancel_reason = $8,
			updated_at = $9
		WHERE id = $1
	`
)
