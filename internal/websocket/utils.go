package websocket

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"codeberg.org/olkkari/server/internal/logger"
)

// builds a message with a JSON payload
func NewMessage(msgType string, payload any) (*Message, error) {
	msg := &Message{Type: msgType, Timestamp: time.Now()}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = raw
	}

	return msg, nil
}

func allowedOrigins() []string {
	env := os.Getenv("ALLOWED_ORIGINS")
	if env == "" {
		return nil
	}

	origins := strings.Split(env, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return origins
}

// accepts any origin outside production; in production only ALLOWED_ORIGINS.
// requests without an Origin header come from non-browser clients.
func CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || os.Getenv("ENVIRONMENT") != "production" {
		return true
	}

	if slices.Contains(allowedOrigins(), origin) {
		return true
	}

	logger.Warn("websocket origin rejected", "origin", origin)
	return false
}

func GenerateClientID() (string, error) {
	b := make([]byte, 16)

	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
