package service

import (
	"context"
	"errors"
	"time"

	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/validation"

	"gorm.io/gorm"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	recipeRepo  repository.RecipeRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

type CreateCommentInput struct {
	UserID   string
	RecipeID string
	Text     string
	// Name and Avatar are fallbacks used when no profile is stored.
	Name   string
	Avatar string
}

type UpdateCommentInput struct {
	UserID    string
	RecipeID  string
	CommentID string
	Text      string
}

type DeleteCommentInput struct {
	UserID    string
	RecipeID  string
	CommentID string
}

// CommentLikeInput addresses a comment through its recipe.
type CommentLikeInput struct {
	UserID    string
	RecipeID  string
	CommentID string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		recipeRepo:  recipeRepo,
		userRepo:    userRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateComment attaches a comment to an existing recipe, snapshotting the
// author's display name and avatar.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.ValidateCommentText(in.Text); err != nil {
		return nil, err
	}
	if _, err := s.recipeRepo.GetByID(ctx, in.RecipeID); err != nil {
		return nil, lookupError(err, "Recipe", in.RecipeID)
	}

	comment := &models.Comment{
		RecipeID: in.RecipeID,
		UserID:   in.UserID,
		Text:     in.Text,
		Name:     in.Name,
		Avatar:   in.Avatar,
		Likes:    models.Likes{},
	}
	if s.userRepo != nil {
		user, err := s.userRepo.GetByID(ctx, in.UserID)
		switch {
		case err == nil:
			if user.Name != "" {
				comment.Name = user.Name
			}
			if user.Avatar != "" {
				comment.Avatar = user.Avatar
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, storeError(err)
		}
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, storeError(err)
	}
	return comment, nil
}

// ListComments returns the recipe's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, recipeID string, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID); err != nil {
		return nil, lookupError(err, "Recipe", recipeID)
	}
	comments, err := s.commentRepo.ListByRecipe(ctx, recipeID, limit, offset)
	return comments, storeError(err)
}

// GetComment resolves a comment and checks it belongs to recipeID.
func (s *CommentService) GetComment(ctx context.Context, recipeID, commentID string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, lookupError(err, "Comment", commentID)
	}
	if err := checkCommentPairing(comment, recipeID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.GetComment(ctx, in.RecipeID, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeCommentUpdate(comment, in.UserID); err != nil {
		return nil, err
	}
	if err := validation.ValidateCommentText(in.Text); err != nil {
		return nil, err
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, lookupError(err, "Comment", comment.ID)
	}
	return comment, nil
}

// DeleteComment lets the author or the owner of the parent recipe remove a comment.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.GetComment(ctx, in.RecipeID, in.CommentID)
	if err != nil {
		return nil, err
	}

	var recipe *models.Recipe
	if comment.UserID != in.UserID {
		recipe, err = s.recipeRepo.GetByID(ctx, comment.RecipeID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storeError(err)
		}
	}
	if err := AuthorizeCommentDelete(comment, recipe, in.UserID); err != nil {
		return nil, err
	}

	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return nil, lookupError(err, "Comment", comment.ID)
	}
	return comment, nil
}

func (s *CommentService) LikeComment(ctx context.Context, in CommentLikeInput) (*models.Comment, error) {
	comment, err := s.GetComment(ctx, in.RecipeID, in.CommentID)
	if err != nil {
		return nil, err
	}
	likes, err := addLike(comment.Likes, in.UserID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateLikes(ctx, comment.ID, likes); err != nil {
		return nil, lookupError(err, "Comment", comment.ID)
	}
	comment.Likes = likes
	return comment, nil
}

func (s *CommentService) UnlikeComment(ctx context.Context, in CommentLikeInput) (*models.Comment, error) {
	comment, err := s.GetComment(ctx, in.RecipeID, in.CommentID)
	if err != nil {
		return nil, err
	}
	likes, err := removeLike(comment.Likes, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateLikes(ctx, comment.ID, likes); err != nil {
		return nil, lookupError(err, "Comment", comment.ID)
	}
	comment.Likes = likes
	return comment, nil
}
