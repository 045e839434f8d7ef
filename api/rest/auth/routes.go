package auth

import (
	"codeberg.org/olkkari/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers all authentication routes. limit guards the unauthenticated
// endpoints; it may be nil.
func RegisterRoutes(router *gin.RouterGroup, deps Deps, limit gin.HandlerFunc) {
	authGroup := router.Group("/auth")

	public := authGroup.Group("")
	if limit != nil {
		public.Use(limit)
	}

	public.POST("/login", LoginHandler(deps))
	public.POST("/magic-link", MagicLinkHandler(deps))
	public.POST("/refresh", RefreshHandler(deps))

	authGroup.POST("/logout", auth.AuthMiddleware(), LogoutHandler(deps))
	authGroup.GET("/me", auth.AuthMiddleware(), MeHandler(deps))
	authGroup.POST("/onboarding", auth.AuthMiddleware(), OnboardingHandler(deps))
}
