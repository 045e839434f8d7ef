package profiles

import (
	stderrors "errors"
	"net/http"

	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/internal/errors"
	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/olkkari/profiles"
	"github.com/gin-gonic/gin"
)

// GetProfile godoc
// @Summary Get the caller's profile
// @Description Returns the profile row, loyalty points and membership status
// @Tags profile
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/profile [get]
// @Security BearerAuth
func GetProfile(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		profile, err := store.FindByID(c.Request.Context(), userID)
		if stderrors.Is(err, identity.ErrProfileNotFound) {
			errors.NotFound(c, "profile")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to load profile", err)
			return
		}

		c.JSON(http.StatusOK, response(profile))
	}
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Description Updates name and avatar. Creates the profile row if it does not exist yet.
// @Tags profile
// @Accept json
// @Produce json
// @Param request body profiles.UpsertProfileRequest true "Profile fields"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/profile [put]
// @Security BearerAuth
func UpdateProfile(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.GetUser(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		var req profiles.UpsertProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		req.ID = user.ID
		req.Email = user.Email

		profile, err := store.Upsert(c.Request.Context(), req)
		if err != nil {
			errors.InternalError(c, "failed to update profile", err)
			return
		}

		c.JSON(http.StatusOK, response(profile))
	}
}

func response(p *identity.Profile) ProfileResponse {
	res := identity.Resolution{Authoritative: p, Source: identity.SourceAuthoritative}

	status := StatusPending
	switch {
	case res.IsAdmin():
		status = StatusHost
	case res.IsApproved():
		status = StatusApproved
	}

	return ProfileResponse{Profile: p, Access: res.Access(), Status: status}
}
