package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipebox/internal/config"
	"recipebox/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*Server
	app *fiber.App
	cfg *config.Config
}

// newTestServer wires a full server over in-memory sqlite and miniredis.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := testutil.Config(t)
	_, rdb := testutil.NewRedis(t)

	s, err := NewServerWithDeps(cfg, testutil.OpenSQLite(t), rdb)
	require.NoError(t, err)

	app := s.NewApp()
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return &testServer{Server: s, app: app, cfg: cfg}
}

func (ts *testServer) token(t *testing.T, userID, name string) string {
	t.Helper()
	return testutil.Token(t, ts.cfg, userID, name)
}

// do sends a JSON request and returns the status and raw body.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.send(t, req)
}

func (ts *testServer) send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// decode unmarshals raw into a fresh T.
func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func soupBody() fiber.Map {
	return fiber.Map{
		"title":        "Tomato Soup",
		"description":  "Simple and warm",
		"ingredients":  []fiber.Map{{"name": "tomato", "quantity": "4"}},
		"instructions": []fiber.Map{{"step": 1, "text": "Simmer"}},
		"cookingTime":  20,
		"servings":     2,
		"tags":         []string{"Soup", " vegan "},
	}
}
