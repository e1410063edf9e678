package service

import (
	"time"

	"recipebox/internal/models"
)

// addLike prepends userID's like, rejecting a second like from the same user.
func addLike(likes models.Likes, userID string, at time.Time) (models.Likes, error) {
	if likes.Has(userID) {
		return nil, models.NewConflictError(models.ReasonAlreadyLiked, "Already liked")
	}
	return likes.Prepend(models.Like{User: userID, CreatedAt: at}), nil
}

// removeLike drops every like from userID.
func removeLike(likes models.Likes, userID string) (models.Likes, error) {
	if !likes.Has(userID) {
		return nil, models.NewConflictError(models.ReasonNotYetLiked, "Not yet liked")
	}
	return likes.Without(userID), nil
}
