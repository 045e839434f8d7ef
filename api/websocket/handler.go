package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/internal/errors"
	"codeberg.org/olkkari/server/internal/logger"
	ws "codeberg.org/olkkari/server/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     ws.CheckOrigin,
}

// FeedHandler godoc
// @Summary Host live feed
// @Description Upgrades to a websocket that pushes booking, approval and receipt events to hosts. The token may be passed as ?token= for browser clients.
// @Tags admin
// @Param token query string false "access token"
// @Success 101
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/v1/admin/feed [get]
// @Security BearerAuth
func FeedHandler(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		if err := hub.CanAcceptConnection(userID); err != nil {
			errors.TooManyRequests(c, err.Error())
			return
		}

		clientID, err := ws.GenerateClientID()
		if err != nil {
			errors.InternalError(c, "failed to generate client ID", err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "failed to upgrade connection",
				"user_id", userID,
				"ip", c.ClientIP(),
			)
			return
		}

		client := ws.NewClient(clientID, userID, conn, hub)
		hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
