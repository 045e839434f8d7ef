package bookings

import (
	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/internal/gate"
	"github.com/gin-gonic/gin"
)

// booking routes require an approved member (or a host). receiptLimit
// guards the upload and extraction endpoints; it may be nil.
func RegisterRoutes(rg *gin.RouterGroup, deps Deps, receiptLimit gin.HandlerFunc) {
	group := rg.Group("/bookings")
	group.Use(auth.AuthMiddleware(), auth.RequireAccess(deps.Resolver, gate.Approved))

	group.POST("", CreateBooking(deps))
	group.GET("", ListBookings(deps))
	group.GET("/:id", GetBooking(deps))

	receipts := group.Group("/:id/receipt")
	if receiptLimit != nil {
		receipts.Use(receiptLimit)
	}

	receipts.POST("", UploadReceipt(deps))
	receipts.POST("/extract", ExtractReceipt(deps))
}
