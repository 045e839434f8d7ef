package chatlogs

const (
	queryInsert = `
		INSERT INTO chat_logs (conversation_id, user_id, message, reply, model, input_tokens, output_tokens)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	queryListConversation = `
		SELECT id, conversation_id, user_id, message, reply, COALESCE(model, ''), input_tokens, output_tokens, created_at
		FROM chat_logs
		WHERE conversation_id = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
)
