package profiles

const (
	profileColumns = `id, COALESCE(email, ''), COALESCE(full_name, ''), COALESCE(avatar_url, ''), COALESCE(role, 'member'), is_approved, loyalty_points, created_at`

	queryFindByID = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE id = $1
	`

	queryUpsert = `
		INSERT INTO profiles (id, email, full_name, avatar_url, role, is_approved)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), 'member', false)
		ON CONFLICT (id)
		DO UPDATE SET
			email = EXCLUDED.email,
			full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
			avatar_url = COALESCE(EXCLUDED.avatar_url, profiles.avatar_url)
		RETURNING ` + profileColumns

	queryApprove = `
		UPDATE profiles
		SET is_approved = true
		WHERE id = $1
		RETURNING ` + profileColumns

	queryListPending = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE is_approved = false AND COALESCE(role, 'member') <> 'admin'
		ORDER BY created_at ASC
		LIMIT $1
	`

	queryListAll = `
		SELECT ` + profileColumns + `
		FROM profiles
		ORDER BY created_at DESC
		LIMIT $1
	`
)
