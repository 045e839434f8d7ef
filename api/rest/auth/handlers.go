package auth

import (
	stderrors "errors"
	"net/http"

	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/internal/errors"
	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/logger"
	"codeberg.org/olkkari/server/internal/supabase"
	"codeberg.org/olkkari/server/olkkari/profiles"
	"github.com/gin-gonic/gin"
)

// metadata keys only an admin may set
var protectedMetadataKeys = []string{"role", "is_approved"}

// LoginHandler godoc
// @Summary Sign in with email and password
// @Description Exchanges credentials for a session and resolves the member's access
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/auth/login [post]
func LoginHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		session, err := deps.Provider.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			providerError(c, err, "invalid email or password")
			return
		}

		c.JSON(http.StatusOK, sessionResponse(c, deps.Resolver, session))
	}
}

// MagicLinkHandler godoc
// @Summary Send a magic sign-in link
// @Description Emails a one-time sign-in link; new addresses get an account and land on onboarding
// @Tags auth
// @Accept json
// @Produce json
// @Param request body MagicLinkRequest true "Email"
// @Success 202 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/auth/magic-link [post]
func MagicLinkHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MagicLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		if err := deps.Provider.SignInWithMagicLink(c.Request.Context(), req.Email, deps.MagicLinkURL); err != nil {
			providerError(c, err, "could not send the sign-in link")
			return
		}

		c.JSON(http.StatusAccepted, MessageResponse{Message: "check your inbox for a sign-in link"})
	}
}

// RefreshHandler godoc
// @Summary Refresh a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func RefreshHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		session, err := deps.Provider.RefreshSession(c.Request.Context(), req.RefreshToken)
		if err != nil {
			providerError(c, err, "session expired, please sign in again")
			return
		}

		c.JSON(http.StatusOK, sessionResponse(c, deps.Resolver, session))
	}
}

// LogoutHandler godoc
// @Summary Sign out
// @Description Revokes the session at the identity provider. Always succeeds; provider failures are logged.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/auth/logout [post]
// @Security BearerAuth
func LogoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetString(auth.ContextAccessToken)

		if err := deps.Provider.SignOut(c.Request.Context(), token); err != nil {
			userID, _ := auth.GetUserID(c)
			logger.WarnErr(err, "remote sign out failed", "user_id", userID)
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "signed out"})
	}
}

// MeHandler godoc
// @Summary Get the current identity
// @Description Returns the user, profile and resolved access. Falls back to token claims when the profile cannot be read.
// @Tags auth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/auth/me [get]
// @Security BearerAuth
func MeHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.GetUser(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		res := deps.Resolver.Resolve(c.Request.Context(), user)
		if res.Err != nil && !res.ProfileMissing() {
			logger.WarnErr(res.Err, "profile lookup failed, using claims", "user_id", user.ID)
		}

		c.JSON(http.StatusOK, MeResponse{
			User:    user,
			Profile: res.Authoritative,
			Claims:  res.Optimistic,
			Access:  res.Access(),
			Source:  res.Source,
		})
	}
}

// OnboardingHandler godoc
// @Summary Complete onboarding
// @Description Sets the member's name and optional password, marks onboarding complete and creates the profile row. Role and approval cannot be self-assigned.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body OnboardingRequest true "Onboarding details"
// @Success 200 {object} OnboardingResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/auth/onboarding [post]
// @Security BearerAuth
func OnboardingHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.GetUser(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		var req OnboardingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		data := SanitizeMetadata(req.Metadata)
		data["full_name"] = req.FullName
		data["onboarding_complete"] = true

		updated, err := deps.Provider.UpdateUser(c.Request.Context(), c.GetString(auth.ContextAccessToken), supabase.UserUpdate{
			Password: req.Password,
			Data:     data,
		})
		if err != nil {
			providerError(c, err, "could not update your account")
			return
		}

		profile, err := deps.Profiles.Upsert(c.Request.Context(), profiles.UpsertProfileRequest{
			ID:       user.ID,
			Email:    user.Email,
			FullName: req.FullName,
		})
		if err != nil {
			errors.InternalError(c, "failed to create profile", err)
			return
		}

		c.JSON(http.StatusOK, OnboardingResponse{User: updated, Profile: profile})
	}
}

// copies user-supplied metadata without admin-only keys
func SanitizeMetadata(in map[string]any) map[string]any {
	out := make(map[string]any, len(in)+2)

	for k, v := range in {
		out[k] = v
	}

	for _, k := range protectedMetadataKeys {
		delete(out, k)
	}

	return out
}

func sessionResponse(c *gin.Context, resolver *identity.Resolver, session *identity.Session) SessionResponse {
	res := resolver.Resolve(c.Request.Context(), session.User)

	if res.Err != nil && !res.ProfileMissing() && session.User != nil {
		logger.WarnErr(res.Err, "profile lookup failed at sign in", "user_id", session.User.ID)
	}

	return SessionResponse{
		Session: session,
		Access:  res.Access(),
		Source:  res.Source,
	}
}

func providerError(c *gin.Context, err error, message string) {
	var apiErr *supabase.APIError
	if stderrors.As(err, &apiErr) && apiErr.IsUnauthorized() {
		errors.Unauthorized(c, message)
		return
	}

	errors.ServiceUnavailable(c, "", "identity provider unavailable", err)
}
