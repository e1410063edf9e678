package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeReferenceMismatch, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeForbidden, http.StatusForbidden},
		{CodeConflict, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusFor(tt.code))
		})
	}
}

func TestIsCodeAndHasReason(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewConflictError(ReasonAlreadyLiked, "already liked"))
	assert.True(t, IsCode(err, CodeConflict))
	assert.True(t, HasReason(err, ReasonAlreadyLiked))
	assert.False(t, HasReason(err, ReasonNotYetLiked))
	assert.False(t, IsCode(errors.New("plain"), CodeConflict))
}

func TestRespondWithError_HidesInternalDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/internal", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, NewInternalError(errors.New("pq: connection refused")))
	})
	app.Get("/raw", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, errors.New("dial tcp 10.0.0.1"))
	})
	app.Get("/fields", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusBadRequest, NewFieldValidationError(map[string]string{"title": "Title is required"}))
	})

	for _, path := range []string{"/internal", "/raw"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.NotContains(t, string(body), "pq:")
		assert.NotContains(t, string(body), "10.0.0.1")
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fields", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var out ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, CodeValidation, out.Code)
	assert.Equal(t, "Title is required", out.Fields["title"])
}
