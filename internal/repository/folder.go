package repository

import (
	"context"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// FolderRepository defines interface for folder operations
type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) error
	GetByID(ctx context.Context, id string) (*models.Folder, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Folder, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*models.Folder, error)
	Update(ctx context.Context, folder *models.Folder) error
	UpdateRecipes(ctx context.Context, id string, recipes []string) error
	Delete(ctx context.Context, id string) error
}

type folderRepository struct {
	db *gorm.DB
}

// NewFolderRepository creates a new FolderRepository
func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &folderRepository{db: db}
}

func (r *folderRepository) Create(ctx context.Context, folder *models.Folder) error {
	return r.db.WithContext(ctx).Create(folder).Error
}

func (r *folderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	var folder models.Folder
	if err := r.db.WithContext(ctx).First(&folder, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *folderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Folder, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID), limit, offset)
}

func (r *folderRepository) ListPublic(ctx context.Context, limit, offset int) ([]*models.Folder, error) {
	return r.list(r.db.WithContext(ctx).Where("is_public = ?", true), limit, offset)
}

func (r *folderRepository) list(q *gorm.DB, limit, offset int) ([]*models.Folder, error) {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var folders []*models.Folder
	err := q.Order("created_at desc").Find(&folders).Error
	return folders, err
}

// Update writes name, description and visibility. Membership goes through
// UpdateRecipes.
func (r *folderRepository) Update(ctx context.Context, folder *models.Folder) error {
	result := r.db.WithContext(ctx).
		Model(&models.Folder{ID: folder.ID}).
		Select("name", "description", "is_public").
		Updates(folder)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateRecipes replaces only the membership list.
func (r *folderRepository) UpdateRecipes(ctx context.Context, id string, recipes []string) error {
	result := r.db.WithContext(ctx).Model(&models.Folder{ID: id}).Select("recipes").Updates(&models.Folder{Recipes: recipes})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *folderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Folder{}, "id = ?", id).Error
}
