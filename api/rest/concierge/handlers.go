package concierge

import (
	stderrors "errors"
	"net/http"

	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/internal/concierge"
	"codeberg.org/olkkari/server/internal/errors"
	"github.com/gin-gonic/gin"
)

// ChatHandler godoc
// @Summary Chat with the AI concierge
// @Description Runs one chat turn with house context and returns the reply
// @Tags concierge
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Message and recent history"
// @Success 200 {object} concierge.ChatResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/concierge/chat [post]
func ChatHandler(chatter Chatter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		userID, _ := auth.GetUserID(c)

		resp, err := chatter.Chat(c.Request.Context(), concierge.ChatRequest{
			Message:        req.Message,
			History:        req.History,
			ConversationID: req.ConversationID,
			UserID:         userID,
		})
		if stderrors.Is(err, concierge.ErrEmptyMessage) {
			errors.BadRequest(c, "message is required", nil)
			return
		}

		if err != nil {
			errors.ServiceUnavailable(c, "", "the concierge is unavailable right now", err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
