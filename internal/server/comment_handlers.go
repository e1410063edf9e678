package server

import (
	"recipebox/internal/middleware"
	"recipebox/internal/notifications"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CommentRequest is the body accepted when creating or editing a comment.
type CommentRequest struct {
	Text string `json:"text"`
}

// commentPath parses the recipe and comment ids shared by the per-comment routes.
func commentPath(c *fiber.Ctx) (recipeID, commentID string, err error) {
	if recipeID, err = parseID(c, "recipeId"); err != nil {
		return "", "", err
	}
	if commentID, err = parseID(c, "commentId"); err != nil {
		return "", "", err
	}
	return recipeID, commentID, nil
}

// CreateComment godoc
// @Summary Comment on a recipe
// @Tags comments
// @Accept json
// @Produce json
// @Param recipeId path string true "Recipe ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{recipeId} [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	recipeID, err := parseID(c, "recipeId")
	if err != nil {
		return nil
	}
	var req CommentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	in := service.CreateCommentInput{UserID: currentUserID(c), RecipeID: recipeID, Text: req.Text}
	if identity, ok := middleware.CurrentIdentity(c); ok {
		in.Name = identity.Name
		in.Avatar = identity.Avatar
	}

	ctx := c.UserContext()
	created, err := s.commentService.CreateComment(ctx, in)
	if err != nil {
		return respondServiceError(c, err)
	}

	if recipe, lookupErr := s.recipeRepo.GetByID(ctx, recipeID); lookupErr == nil {
		s.notifyOwner(ctx, recipe.UserID, in.UserID, notifications.EventCommentCreated, map[string]any{
			"recipeId":  recipeID,
			"commentId": created.ID,
			"user":      in.UserID,
			"name":      created.Name,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetComments godoc
// @Summary List comments on a recipe
// @Description Newest first
// @Tags comments
// @Produce json
// @Param recipeId path string true "Recipe ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{recipeId} [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	recipeID, err := parseID(c, "recipeId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPaginationLimit)
	comments, err := s.commentService.ListComments(c.UserContext(), recipeID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// GetComment godoc
// @Summary Get one comment
// @Description The comment must belong to the given recipe
// @Tags comments
// @Produce json
// @Param recipeId path string true "Recipe ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{recipeId}/{commentId} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	recipeID, commentID, err := commentPath(c)
	if err != nil {
		return nil
	}
	comment, err := s.commentService.GetComment(c.UserContext(), recipeID, commentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comment)
}

// UpdateComment godoc
// @Summary Edit a comment
// @Description Author only
// @Tags comments
// @Accept json
// @Produce json
// @Param recipeId path string true "Recipe ID"
// @Param commentId path string true "Comment ID"
// @Param request body CommentRequest true "Comment"
// @Success 200 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{recipeId}/{commentId} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	recipeID, commentID, err := commentPath(c)
	if err != nil {
		return nil
	}
	var req CommentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	updated, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    currentUserID(c),
		RecipeID:  recipeID,
		CommentID: commentID,
		Text:      req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(updated)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Allowed for the comment author and the owner of the recipe
// @Tags comments
// @Produce json
// @Param recipeId path string true "Recipe ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} object{message=string,id=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{recipeId}/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	recipeID, commentID, err := commentPath(c)
	if err != nil {
		return nil
	}
	deleted, err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		RecipeID:  recipeID,
		CommentID: commentID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted", "id": deleted.ID})
}

// LikeComment godoc
// @Summary Like a comment
// @Tags comments
// @Produce json
// @Param recipeId path string true "Recipe ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} LikesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{recipeId}/{commentId}/like [put]
func (s *Server) LikeComment(c *fiber.Ctx) error {
	recipeID, commentID, err := commentPath(c)
	if err != nil {
		return nil
	}
	userID := currentUserID(c)
	comment, err := s.commentService.LikeComment(c.UserContext(), service.CommentLikeInput{
		UserID:    userID,
		RecipeID:  recipeID,
		CommentID: commentID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.notifyOwner(c.UserContext(), comment.UserID, userID, notifications.EventCommentLiked, map[string]any{
		"recipeId":  recipeID,
		"commentId": comment.ID,
		"user":      userID,
	})
	return c.JSON(LikesResponse{ID: comment.ID, Likes: comment.Likes})
}

// UnlikeComment godoc
// @Summary Remove a like from a comment
// @Tags comments
// @Produce json
// @Param recipeId path string true "Recipe ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} LikesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{recipeId}/{commentId}/unlike [put]
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	recipeID, commentID, err := commentPath(c)
	if err != nil {
		return nil
	}
	comment, err := s.commentService.UnlikeComment(c.UserContext(), service.CommentLikeInput{
		UserID:    currentUserID(c),
		RecipeID:  recipeID,
		CommentID: commentID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(LikesResponse{ID: comment.ID, Likes: comment.Likes})
}
