package knowledge

const (
	queryUpsert = `
		INSERT INTO knowledge_base (category, content, embedding, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (category)
		DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			updated_at = NOW()
	`

	queryList = `
		SELECT id, category, content, updated_at, 0::float8
		FROM knowledge_base
		ORDER BY updated_at DESC
		LIMIT $1
	`

	// cosine distance; similarity is 1 - distance
	querySearchVector = `
		SELECT id, category, content, updated_at, 1 - (embedding <=> $1) AS similarity
		FROM knowledge_base
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`

	querySearchText = `
		SELECT id, category, content, updated_at,
			ts_rank(to_tsvector('simple', category || ' ' || content), websearch_to_tsquery('simple', $1))::float8 AS rank
		FROM knowledge_base
		WHERE to_tsvector('simple', category || ' ' || content) @@ websearch_to_tsquery('simple', $1)
		ORDER BY rank DESC
		LIMIT $2
	`

	queryListUnembedded = `
		SELECT id, category, content, updated_at, 0::float8
		FROM knowledge_base
		WHERE embedding IS NULL
		ORDER BY id
		LIMIT $1
	`

	querySetEmbedding = `
		UPDATE knowledge_base
		SET embedding = $2
		WHERE id = $1
	`
)
