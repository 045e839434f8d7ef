package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

// named dependency probe, e.g. the database ping
type Check func(ctx context.Context) error

// Handler godoc
// @Summary Health check
// @Description Reports server health and the state of its dependencies
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func Handler(checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		resp := Response{
			Status:  "healthy",
			Service: "olkkari",
			Version: Version,
		}

		status := http.StatusOK

		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))

			for name, check := range checks {
				if err := check(ctx); err != nil {
					resp.Checks[name] = "unavailable"
					resp.Status = "degraded"
					status = http.StatusServiceUnavailable
					continue
				}

				resp.Checks[name] = "ok"
			}
		}

		c.JSON(status, resp)
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}
