package auth

import (
	"strings"

	"codeberg.org/olkkari/server/internal/errors"
	"codeberg.org/olkkari/server/internal/gate"
	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// validates the bearer token and adds user info to context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			errors.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		claims, err := ValidateJWT(token)
		if err != nil {
			errors.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		setClaims(c, token, claims)
		c.Next()
	}
}

// validates the bearer token if present but doesn't require it
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := ValidateJWT(token); err == nil {
				setClaims(c, token, claims)
			}
		}

		c.Next()
	}
}

// lets clients that cannot set headers (browser websockets) pass the
// access token as ?token=. a header, when present, wins.
func TokenFromQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token := c.Query("token"); token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}

		c.Next()
	}
}

// enforces a gate requirement server-side. must run after AuthMiddleware.
// approved and admin checks are only made against the profile row, since
// token metadata can be edited by the user.
func RequireAccess(resolver *identity.Resolver, req gate.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if req == gate.Member {
			c.Next()
			return
		}

		res := resolver.Resolve(c.Request.Context(), user)

		if !res.IsAuthoritative() {
			if res.ProfileMissing() {
				errors.ApprovalPending(c)
				c.Abort()
				return
			}

			logger.WarnErr(res.Err, "profile lookup failed during access check",
				"user_id", user.ID,
				"requirement", req.String(),
			)
			errors.ServiceUnavailable(c, "", "could not verify membership", res.Err)
			c.Abort()
			return
		}

		c.Set(ContextResolution, res)

		if gate.Satisfies(res.Access(), req) {
			c.Next()
			return
		}

		if req == gate.Admin {
			errors.Forbidden(c, "host access only")
		} else {
			errors.ApprovalPending(c)
		}

		c.Abort()
	}
}

// extracts user_id from context after AuthMiddleware
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	return id, ok && id != ""
}

// rebuilds the token's user from context after AuthMiddleware
func GetUser(c *gin.Context) (*identity.User, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return nil, false
	}

	metadata, _ := c.Get(ContextUserMetadata)
	md, _ := metadata.(map[string]any)

	return &identity.User{
		ID:       userID,
		Email:    c.GetString(ContextUserEmail),
		Metadata: md,
	}, true
}

// resolution stored by RequireAccess, if it ran
func GetResolution(c *gin.Context) (identity.Resolution, bool) {
	v, exists := c.Get(ContextResolution)
	if !exists {
		return identity.Resolution{}, false
	}

	res, ok := v.(identity.Resolution)
	return res, ok
}

func setClaims(c *gin.Context, token string, claims *Claims) {
	c.Set(ContextUserID, claims.UserID())
	c.Set(ContextUserEmail, claims.Email)
	c.Set(ContextUserMetadata, claims.UserMetadata)
	c.Set(ContextAccessToken, token)
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
