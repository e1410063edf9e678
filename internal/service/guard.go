package service

import (
	"errors"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// AuthorizeRecipe allows only the recipe's owner.
func AuthorizeRecipe(recipe *models.Recipe, userID string) error {
	if recipe.UserID != userID {
		return models.NewForbiddenError("You can only modify your own recipes")
	}
	return nil
}

// AuthorizeFolder allows only the folder's owner.
func AuthorizeFolder(folder *models.Folder, userID string) error {
	if folder.UserID != userID {
		return models.NewForbiddenError("You can only modify your own folders")
	}
	return nil
}

// AuthorizeCommentUpdate allows only the comment's author.
func AuthorizeCommentUpdate(comment *models.Comment, userID string) error {
	if comment.UserID != userID {
		return models.NewForbiddenError("You can only update your own comments")
	}
	return nil
}

// AuthorizeCommentDelete allows the comment's author or the owner of the
// recipe it is attached to. recipe may be nil when the recipe is gone.
func AuthorizeCommentDelete(comment *models.Comment, recipe *models.Recipe, userID string) error {
	if comment.UserID == userID {
		return nil
	}
	if recipe != nil && recipe.ID == comment.RecipeID && recipe.UserID == userID {
		return nil
	}
	return models.NewForbiddenError("You can only delete your own comments or comments on your recipes")
}

// checkCommentPairing rejects a comment addressed through a recipe it does not belong to.
func checkCommentPairing(comment *models.Comment, recipeID string) error {
	if comment.RecipeID != recipeID {
		return models.NewReferenceMismatchError("Comment does not belong to this recipe")
	}
	return nil
}

// lookupError converts a repository lookup failure into a domain error.
func lookupError(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}

// storeError wraps an unexpected persistence failure.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}
