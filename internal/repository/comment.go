package repository

import (
	"context"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByRecipe(ctx context.Context, recipeID string, limit, offset int) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	UpdateLikes(ctx context.Context, id string, likes models.Likes) error
	Delete(ctx context.Context, id string) error
	DeleteByRecipe(ctx context.Context, recipeID string) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByRecipe(ctx context.Context, recipeID string, limit, offset int) ([]*models.Comment, error) {
	q := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var comments []*models.Comment
	err := q.Find(&comments).Error
	return comments, err
}

// Update writes the comment text. A comment removed since it was read is
// not recreated and yields gorm.ErrRecordNotFound.
func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	result := r.db.WithContext(ctx).Model(&models.Comment{ID: comment.ID}).Select("text").Updates(comment)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) UpdateLikes(ctx context.Context, id string, likes models.Likes) error {
	result := r.db.WithContext(ctx).Model(&models.Comment{ID: id}).Select("likes").Updates(&models.Comment{Likes: likes})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error
}

// DeleteByRecipe removes every comment attached to recipeID.
func (r *commentRepository) DeleteByRecipe(ctx context.Context, recipeID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&models.Comment{})
	return result.RowsAffected, result.Error
}
