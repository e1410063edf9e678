package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"recipebox/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRecipe_NotifiesOwner(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice", "Alice")
	bob := ts.token(t, "bob", "Bob")
	recipe := ts.createRecipe(t, alice, soupBody())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub := ts.redis.Subscribe(ctx, notifications.UserChannel("alice"))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	// Liking your own recipe is not announced.
	status, _ := ts.do(t, http.MethodPut, "/api/recipes/"+recipe.ID+"/like", alice, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.do(t, http.MethodPut, "/api/recipes/"+recipe.ID+"/like", bob, nil)
	require.Equal(t, http.StatusOK, status)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var event notifications.Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, notifications.EventRecipeLiked, event.Type)
	payload := event.Payload.(map[string]any)
	assert.Equal(t, "bob", payload["user"])
	assert.Equal(t, recipe.ID, payload["recipeId"])
}

func TestNotifyOwner_SkipsSelf(t *testing.T) {
	ts := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	sub := ts.redis.Subscribe(ctx, notifications.UserChannel("alice"))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	ts.notifyOwner(ctx, "alice", "alice", notifications.EventCommentCreated, map[string]any{"x": 1})
	ts.notifyOwner(ctx, "alice", "bob", notifications.EventCommentCreated, map[string]any{"x": 2})

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg.Payload, `"x":2`)
}
