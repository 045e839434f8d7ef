package profiles

import (
	"codeberg.org/olkkari/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// profile routes only need a signed-in member so pending applicants can
// see their status
func RegisterRoutes(rg *gin.RouterGroup, store Store) {
	profile := rg.Group("/profile")
	profile.Use(auth.AuthMiddleware())

	profile.GET("", GetProfile(store))
	profile.PUT("", UpdateProfile(store))
}
