package bookings

const (
	bookingColumns = `id, user_id, customer_name, email, guests, date::text, time, COALESCE(special_requests, ''), status, receipt_url, receipt_data, created_at`

	queryCreate = `
		INSERT INTO bookings (user_id, customer_name, email, guests, date, time, special_requests, status)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), 'pending')
		RETURNING ` + bookingColumns

	queryGetByID = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	queryListByUser = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY date DESC, time DESC
		LIMIT $2 OFFSET $3
	`

	queryListAll = `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY date DESC, time DESC
		LIMIT $1 OFFSET $2
	`

	queryUpdateStatus = `
		UPDATE bookings
		SET status = $2
		WHERE id = $1
		RETURNING ` + bookingColumns

	queryGetReceipt = `
		SELECT id, user_id, COALESCE(receipt_url, ''), receipt_data IS NOT NULL
		FROM bookings
		WHERE id = $1
	`

	// a new image invalidates data extracted from the previous one
	querySetReceiptURL = `
		UPDATE bookings
		SET receipt_url = $2, receipt_data = NULL
		WHERE id = $1
	`

	querySetReceiptData = `
		UPDATE bookings
		SET receipt_data = $3
		WHERE id = $1 AND receipt_url = $2
	`
)
