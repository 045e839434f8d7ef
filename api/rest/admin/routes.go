package admin

import (
	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/internal/gate"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, deps Deps) {
	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(), auth.RequireAccess(deps.Resolver, gate.Admin))

	admin.GET("/bookings", ListBookings(deps.Bookings))
	admin.PUT("/bookings/:id/status", UpdateBookingStatus(deps.Bookings))

	admin.GET("/members", ListMembers(deps.Members))
	admin.POST("/members/:id/approve", ApproveMember(deps.Members, deps.Mailer, deps.Events))

	admin.POST("/email", SendEmail(deps.Mailer))
	admin.POST("/sync-website", SyncWebsite(deps.Syncer, deps.SiteURL))
}
