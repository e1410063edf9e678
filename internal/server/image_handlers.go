package server

import (
	"fmt"
	"io"

	"recipebox/internal/models"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadRecipeImage godoc
// @Summary Upload a recipe image
// @Description Accepts JPEG, PNG or WebP in the multipart field "image". The image is downsized and stored as WebP. Owner only.
// @Tags recipes
// @Accept mpfd
// @Produce json
// @Param id path string true "Recipe ID"
// @Param image formData file true "Image file"
// @Success 200 {object} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /recipes/{id}/image [post]
func (s *Server) UploadRecipeImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(map[string]string{"image": "Image file is required"}))
	}

	maxBytes := s.imageService.MaxUploadSizeBytes()
	if fileHeader.Size > maxBytes {
		return models.RespondWithError(c, fiber.StatusRequestEntityTooLarge,
			models.NewValidationError(fmt.Sprintf("Image exceeds %d MB", maxBytes/(1024*1024))))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondServiceError(c, err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return respondServiceError(c, err)
	}
	if int64(len(content)) > maxBytes {
		return models.RespondWithError(c, fiber.StatusRequestEntityTooLarge,
			models.NewValidationError(fmt.Sprintf("Image exceeds %d MB", maxBytes/(1024*1024))))
	}

	recipe, err := s.recipeService.AttachImage(c.UserContext(), service.AttachImageInput{
		UserID:      currentUserID(c),
		RecipeID:    id,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(recipe)
}
