package catalog

const (
	queryListMenu = `
		SELECT id, name, COALESCE(price, ''), COALESCE(description, ''), COALESCE(image, ''),
			COALESCE(subcategory, ''), COALESCE(tags, '{}'), COALESCE(is_chef_choice, false)
		FROM menu_items
		WHERE ($1::text = '' OR subcategory = $1::text)
		ORDER BY id
	`

	queryListWines = `
		SELECT id, name, COALESCE(year, ''), COALESCE(region, ''), COALESCE(type, ''),
			COALESCE(subcategory, ''), COALESCE(price, ''), COALESCE(description, ''), COALESCE(image, '')
		FROM wines
		ORDER BY id
	`

	queryListEvents = `
		SELECT id, title, COALESCE(date::text, ''), COALESCE(time, ''), COALESCE(description, ''),
			COALESCE(image, ''), COALESCE(type, ''), COALESCE(is_tonight, false)
		FROM events
		ORDER BY date, id
	`

	queryListStaff = `
		SELECT id, name, COALESCE(role, ''), COALESCE(description, ''), COALESCE(image, ''),
			COALESCE(rate, ''), COALESCE(badge, '')
		FROM staff
		ORDER BY id
	`

	queryListArt = `
		SELECT id, title, COALESCE(medium, ''), COALESCE(price, ''), COALESCE(image, '')
		FROM art_pieces
		ORDER BY id
	`
)
