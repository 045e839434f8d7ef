package websocket

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/internal/gate"
	"codeberg.org/olkkari/server/internal/identity"
	ws "codeberg.org/olkkari/server/internal/websocket"
)

func RegisterRoutes(router *gin.RouterGroup, hub *ws.Hub, resolver *identity.Resolver) {
	router.GET("/admin/feed",
		auth.TokenFromQuery(),
		auth.AuthMiddleware(),
		auth.RequireAccess(resolver, gate.Admin),
		FeedHandler(hub),
	)
}
