package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"recipebox/internal/notifications"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listen serves the app on a loopback port for real websocket clients.
func (ts *testServer) listen(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = ts.app.Listener(ln) }()
	t.Cleanup(func() { _ = ts.app.Shutdown() })
	return ln.Addr().String()
}

func TestWebsocket_ReceivesActivity(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, ts.hub.StartWiring(ctx, ts.notifier))

	addr := ts.listen(t)
	alice := ts.token(t, "alice", "Alice")
	bob := ts.token(t, "bob", "Bob")
	recipe := ts.createRecipe(t, alice, soupBody())

	conn, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+"/api/ws?token="+alice, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	defer func() { _ = conn.Close() }()

	require.Eventually(t, func() bool { return ts.hub.IsOnline("alice") }, 2*time.Second, 10*time.Millisecond)

	status, _ := ts.do(t, http.MethodPost, "/api/recipes/"+recipe.ID+"/fork", bob, nil)
	require.Equal(t, http.StatusCreated, status)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var event notifications.Event
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, notifications.EventRecipeForked, event.Type)
	payload := event.Payload.(map[string]any)
	assert.Equal(t, recipe.ID, payload["recipeId"])
	assert.Equal(t, "bob", payload["user"])
}

func TestWebsocket_RejectsBadToken(t *testing.T) {
	ts := newTestServer(t)
	addr := ts.listen(t)

	_, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+"/api/ws?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebsocket_HubShutdownSendsGoingAway(t *testing.T) {
	ts := newTestServer(t)
	addr := ts.listen(t)
	alice := ts.token(t, "alice", "Alice")

	conn, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+"/api/ws?token="+alice, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	defer func() { _ = conn.Close() }()
	require.Eventually(t, func() bool { return ts.hub.IsOnline("alice") }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ts.hub.Shutdown(context.Background()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
