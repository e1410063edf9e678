package server

import (
	"context"

	"recipebox/internal/models"
	"recipebox/internal/notifications"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateFolderRequest is the body accepted by POST /folders.
type CreateFolderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
}

// GetPublicFolders godoc
// @Summary List public folders
// @Tags folders
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Folder
// @Router /folders/public/all [get]
func (s *Server) GetPublicFolders(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)
	folders, err := s.folderService.ListPublicFolders(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(folders)
}

// GetMyFolders godoc
// @Summary List the caller's folders
// @Tags folders
// @Produce json
// @Success 200 {array} models.Folder
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /folders [get]
func (s *Server) GetMyFolders(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)
	folders, err := s.folderService.ListMyFolders(c.UserContext(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(folders)
}

// CreateFolder godoc
// @Summary Create a folder
// @Tags folders
// @Accept json
// @Produce json
// @Param request body CreateFolderRequest true "Folder"
// @Success 201 {object} models.Folder
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /folders [post]
func (s *Server) CreateFolder(c *fiber.Ctx) error {
	var req CreateFolderRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	folder, err := s.folderService.CreateFolder(c.UserContext(), service.CreateFolderInput{
		UserID:      currentUserID(c),
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(folder)
}

// GetFolder godoc
// @Summary Get a folder with its recipes
// @Description Recipes are returned in folder order. Private folders are visible to their owner only.
// @Tags folders
// @Produce json
// @Param id path string true "Folder ID"
// @Success 200 {object} models.FolderDetail
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /folders/{id} [get]
func (s *Server) GetFolder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	detail, err := s.folderService.GetFolder(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// UpdateFolder godoc
// @Summary Update a folder
// @Description Partial update of name, description and visibility. Owner only.
// @Tags folders
// @Accept json
// @Produce json
// @Param id path string true "Folder ID"
// @Param request body service.FolderPatch true "Fields to change"
// @Success 200 {object} models.Folder
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /folders/{id} [put]
func (s *Server) UpdateFolder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var patch service.FolderPatch
	if err := parseBody(c, &patch); err != nil {
		return nil
	}
	folder, err := s.folderService.UpdateFolder(c.UserContext(), service.UpdateFolderInput{
		UserID:   currentUserID(c),
		FolderID: id,
		Patch:    patch,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(folder)
}

// DeleteFolder godoc
// @Summary Delete a folder
// @Description Member recipes are not affected. Owner only.
// @Tags folders
// @Produce json
// @Param id path string true "Folder ID"
// @Success 200 {object} object{message=string,id=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /folders/{id} [delete]
func (s *Server) DeleteFolder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	folder, err := s.folderService.DeleteFolder(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Folder deleted", "id": folder.ID})
}

// AddRecipeToFolder godoc
// @Summary Add a recipe to a folder
// @Tags folders
// @Produce json
// @Param id path string true "Folder ID"
// @Param recipeId path string true "Recipe ID"
// @Success 200 {object} models.Folder
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /folders/{id}/recipes/{recipeId} [put]
func (s *Server) AddRecipeToFolder(c *fiber.Ctx) error {
	return s.changeMembership(c, s.folderService.AddRecipe, "added")
}

// RemoveRecipeFromFolder godoc
// @Summary Remove a recipe from a folder
// @Tags folders
// @Produce json
// @Param id path string true "Folder ID"
// @Param recipeId path string true "Recipe ID"
// @Success 200 {object} models.Folder
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /folders/{id}/recipes/{recipeId} [delete]
func (s *Server) RemoveRecipeFromFolder(c *fiber.Ctx) error {
	return s.changeMembership(c, s.folderService.RemoveRecipe, "removed")
}

type membershipFunc func(ctx context.Context, in service.MembershipInput) (*models.Folder, error)

func (s *Server) changeMembership(c *fiber.Ctx, change membershipFunc, action string) error {
	folderID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	recipeID, err := parseID(c, "recipeId")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	folder, err := change(c.UserContext(), service.MembershipInput{
		UserID:   userID,
		FolderID: folderID,
		RecipeID: recipeID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(c.UserContext(), userID, notifications.EventFolderUpdated, map[string]any{
		"folderId": folder.ID,
		"recipeId": recipeID,
		"action":   action,
		"count":    len(folder.Recipes),
	})
	return c.JSON(folder)
}
