package catalog

import (
	"net/http"
	"strings"

	"codeberg.org/olkkari/server/internal/errors"
	"github.com/gin-gonic/gin"
)

// ListMenu godoc
// @Summary List menu items
// @Tags catalog
// @Produce json
// @Param subcategory query string false "Filter by subcategory, e.g. starters"
// @Success 200 {object} MenuResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/menu [get]
func ListMenu(reader Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := reader.ListMenu(c.Request.Context(), strings.TrimSpace(c.Query("subcategory")))
		if err != nil {
			errors.InternalError(c, "failed to list menu", err)
			return
		}

		c.JSON(http.StatusOK, MenuResponse{Items: items})
	}
}

// ListWines godoc
// @Summary List the wine cellar
// @Tags catalog
// @Produce json
// @Success 200 {object} WinesResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/wines [get]
func ListWines(reader Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		wines, err := reader.ListWines(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to list wines", err)
			return
		}

		c.JSON(http.StatusOK, WinesResponse{Wines: wines})
	}
}

// ListEvents godoc
// @Summary List upcoming events
// @Tags catalog
// @Produce json
// @Success 200 {object} EventsResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/events [get]
func ListEvents(reader Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := reader.ListEvents(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to list events", err)
			return
		}

		c.JSON(http.StatusOK, EventsResponse{Events: events})
	}
}

// ListStaff godoc
// @Summary List chefs available for private hire
// @Tags catalog
// @Produce json
// @Success 200 {object} StaffResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/staff [get]
func ListStaff(reader Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		staff, err := reader.ListStaff(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to list staff", err)
			return
		}

		c.JSON(http.StatusOK, StaffResponse{Staff: staff})
	}
}

// ListArt godoc
// @Summary List the current art exhibition
// @Tags catalog
// @Produce json
// @Success 200 {object} ArtResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/art [get]
func ListArt(reader Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		pieces, err := reader.ListArt(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to list art", err)
			return
		}

		c.JSON(http.StatusOK, ArtResponse{Pieces: pieces})
	}
}
