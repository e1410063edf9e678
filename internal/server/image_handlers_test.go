package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"recipebox/internal/models"
	"recipebox/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageUploadRequest(t *testing.T, path, token, contentType string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="soup.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadRecipeImage(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice", "Alice")
	bob := ts.token(t, "bob", "Bob")
	recipe := ts.createRecipe(t, alice, soupBody())
	path := "/api/recipes/" + recipe.ID + "/image"

	status, _ := ts.send(t, imageUploadRequest(t, path, bob, "image/png", testutil.TinyPNG(t, 32, 32)))
	assert.Equal(t, http.StatusForbidden, status)

	status, raw := ts.send(t, imageUploadRequest(t, path, alice, "image/png", testutil.TinyPNG(t, 32, 32)))
	require.Equal(t, http.StatusOK, status, string(raw))
	updated := decode[models.Recipe](t, raw)
	require.True(t, strings.HasPrefix(updated.Image, "/uploads/"), updated.Image)
	assert.True(t, strings.HasSuffix(updated.Image, ".webp"))

	status, served := ts.do(t, http.MethodGet, updated.Image, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, served)
}

func TestUploadRecipeImage_Rejections(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice", "Alice")
	recipe := ts.createRecipe(t, alice, soupBody())
	path := "/api/recipes/" + recipe.ID + "/image"

	status, _ := ts.send(t, imageUploadRequest(t, path, alice, "text/plain", []byte("not an image at all")))
	assert.Equal(t, http.StatusBadRequest, status)

	tooLarge := bytes.Repeat([]byte{0x89}, 1024*1024+512)
	status, _ = ts.send(t, imageUploadRequest(t, path, alice, "image/png", tooLarge))
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("Authorization", "Bearer "+alice)
	status, _ = ts.send(t, req)
	assert.Equal(t, http.StatusBadRequest, status)
}
