package server

import (
	"log/slog"

	"recipebox/internal/middleware"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SyncUser keeps the local user projection in step with the token claims.
// A failed sync is logged and does not block the request.
func (s *Server) SyncUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.CurrentIdentity(c)
		if !ok {
			return c.Next()
		}
		err := s.userService.EnsureUser(c.UserContext(), service.EnsureUserInput{
			ID:     identity.UserID,
			Name:   identity.Name,
			Avatar: identity.Avatar,
		})
		if err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "user sync failed",
				slog.String("user_id", identity.UserID),
				slog.String("error", err.Error()),
			)
		}
		return c.Next()
	}
}

// GetMyProfile godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile godoc
// @Summary Get a user's public profile
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
