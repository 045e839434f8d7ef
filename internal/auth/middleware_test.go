package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/olkkari/server/internal/gate"
	"codeberg.org/olkkari/server/internal/identity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func profilesReturning(p *identity.Profile, err error) *identity.Resolver {
	return identity.NewResolver(identity.ProfileFetcherFunc(
		func(ctx context.Context, userID string) (*identity.Profile, error) {
			return p, err
		},
	))
}

func protectedRouter(resolver *identity.Resolver, req gate.Requirement) *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), RequireAccess(resolver, req), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.String(http.StatusOK, userID)
	})
	return r
}

func get(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, metadata map[string]any) string {
	t.Helper()

	token, err := GenerateJWT("user-1", "guest@example.com", metadata)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	setSecret(t, testSecret)

	w := get(t, protectedRouter(profilesReturning(nil, nil), gate.Member), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadScheme(t *testing.T) {
	setSecret(t, testSecret)
	r := protectedRouter(profilesReturning(nil, nil), gate.Member)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAccess_MemberSkipsProfileLookup(t *testing.T) {
	setSecret(t, testSecret)
	called := false
	resolver := identity.NewResolver(identity.ProfileFetcherFunc(
		func(ctx context.Context, userID string) (*identity.Profile, error) {
			called = true
			return nil, nil
		},
	))

	w := get(t, protectedRouter(resolver, gate.Member), tokenFor(t, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
	assert.False(t, called)
}

func TestRequireAccess_ApprovedProfile(t *testing.T) {
	setSecret(t, testSecret)
	resolver := profilesReturning(&identity.Profile{ID: "user-1", Role: identity.RoleMember, IsApproved: true}, nil)

	w := get(t, protectedRouter(resolver, gate.Approved), tokenFor(t, nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAccess_ClaimsAloneAreNotEnough(t *testing.T) {
	setSecret(t, testSecret)
	resolver := profilesReturning(&identity.Profile{ID: "user-1", Role: identity.RoleMember}, nil)
	token := tokenFor(t, map[string]any{"role": "admin", "is_approved": true})

	w := get(t, protectedRouter(resolver, gate.Admin), token)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "forbidden")
}

func TestRequireAccess_PendingMember(t *testing.T) {
	setSecret(t, testSecret)
	resolver := profilesReturning(&identity.Profile{ID: "user-1", Role: identity.RoleMember}, nil)

	w := get(t, protectedRouter(resolver, gate.Approved), tokenFor(t, nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "approval_pending")
}

func TestRequireAccess_AdminPassesApprovedGate(t *testing.T) {
	setSecret(t, testSecret)
	resolver := profilesReturning(&identity.Profile{ID: "user-1", Role: identity.RoleAdmin}, nil)

	w := get(t, protectedRouter(resolver, gate.Approved), tokenFor(t, nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAccess_MissingProfile(t *testing.T) {
	setSecret(t, testSecret)
	resolver := profilesReturning(nil, identity.ErrProfileNotFound)

	w := get(t, protectedRouter(resolver, gate.Approved), tokenFor(t, map[string]any{"is_approved": true}))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "approval_pending")
}

func TestRequireAccess_LookupFailure(t *testing.T) {
	setSecret(t, testSecret)
	resolver := profilesReturning(nil, errors.New("connection refused"))

	w := get(t, protectedRouter(resolver, gate.Admin), tokenFor(t, map[string]any{"role": "admin"}))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	setSecret(t, testSecret)

	r := gin.New()
	r.GET("/optional", OptionalAuthMiddleware(), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, userID)
	})

	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "anonymous", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "user-1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestTokenFromQuery(t *testing.T) {
	setSecret(t, testSecret)
	token := tokenFor(t, nil)

	r := gin.New()
	r.GET("/feed", TokenFromQuery(), AuthMiddleware(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.String(http.StatusOK, userID)
	})

	req := httptest.NewRequest(http.MethodGet, "/feed?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/feed?token="+token, nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code, "header wins over query")
}
