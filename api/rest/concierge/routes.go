package concierge

import (
	"codeberg.org/olkkari/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// the concierge is open to guests; signed-in members get their chats
// attributed. limit may be nil.
func RegisterRoutes(rg *gin.RouterGroup, chatter Chatter, limit gin.HandlerFunc) {
	group := rg.Group("/concierge")
	group.Use(auth.OptionalAuthMiddleware())

	if limit != nil {
		group.Use(limit)
	}

	group.POST("/chat", ChatHandler(chatter))
}
