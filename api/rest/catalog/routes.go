package catalog

import (
	"github.com/gin-gonic/gin"
)

// catalog routes are public, like the browsing screens
func RegisterRoutes(rg *gin.RouterGroup, reader Reader) {
	rg.GET("/menu", ListMenu(reader))
	rg.GET("/wines", ListWines(reader))
	rg.GET("/events", ListEvents(reader))
	rg.GET("/staff", ListStaff(reader))
	rg.GET("/art", ListArt(reader))
}
