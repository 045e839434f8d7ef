package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/internal/identity"
	ws "codeberg.org/olkkari/server/internal/websocket"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func feedServer(t *testing.T, role identity.Role) (*httptest.Server, *ws.Hub) {
	t.Helper()
	t.Setenv("JWT_SECRET", "feed-test-secret-with-enough-length")

	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	resolver := identity.NewResolver(identity.ProfileFetcherFunc(
		func(ctx context.Context, userID string) (*identity.Profile, error) {
			return &identity.Profile{ID: userID, Role: role, IsApproved: true}, nil
		},
	))

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), hub, resolver)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, hub
}

func feedURL(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	token, err := auth.GenerateJWT("host-1", "host@olkkari.fi", nil)
	require.NoError(t, err)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/admin/feed?token=" + token
}

func readMessage(t *testing.T, conn *websocket.Conn) ws.Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg ws.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestFeed_HostReceivesEvents(t *testing.T) {
	srv, hub := feedServer(t, identity.RoleAdmin)

	conn, _, err := websocket.DefaultDialer.Dial(feedURL(t, srv), nil)
	require.NoError(t, err)
	defer conn.Close() //nolint:errcheck

	state := readMessage(t, conn)
	assert.Equal(t, ws.TypeFeedState, state.Type)

	hub.Publish(ws.TypeBookingCreated, ws.BookingCreatedPayload{BookingID: "b-1", Guests: 2})

	msg := readMessage(t, conn)
	assert.Equal(t, ws.TypeBookingCreated, msg.Type)
	assert.Contains(t, string(msg.Payload), `"booking_id":"b-1"`)
}

func TestFeed_PingGetsPong(t *testing.T) {
	srv, _ := feedServer(t, identity.RoleAdmin)

	conn, _, err := websocket.DefaultDialer.Dial(feedURL(t, srv), nil)
	require.NoError(t, err)
	defer conn.Close() //nolint:errcheck

	readMessage(t, conn)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))

	assert.Equal(t, ws.TypePong, readMessage(t, conn).Type)
}

func TestFeed_MemberIsForbidden(t *testing.T) {
	srv, _ := feedServer(t, identity.RoleMember)

	_, resp, err := websocket.DefaultDialer.Dial(feedURL(t, srv), nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestFeed_RequiresToken(t *testing.T) {
	srv, _ := feedServer(t, identity.RoleAdmin)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/admin/feed"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
