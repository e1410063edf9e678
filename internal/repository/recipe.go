package repository

import (
	"context"
	"encoding/json"
	"strings"

	"recipebox/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows a recipe listing. Zero values mean "any".
type RecipeFilter struct {
	UserID   string
	ParentID string
	Tag      string
	Limit    int
	Offset   int
}

// RecipeRepository defines interface for recipe operations
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id string) (*models.Recipe, error)
	GetWithRelations(ctx context.Context, id string) (*models.Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]*models.Recipe, error)
	FindByIDs(ctx context.Context, ids []string) ([]*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	UpdateLikes(ctx context.Context, id string, likes models.Likes) error
	Delete(ctx context.Context, id string) (int64, error)
	CountByImage(ctx context.Context, image, userID string) (int64, error)
}

// recipeContentColumns are the columns an owner edit may write. Owner,
// lineage and likes are never rewritten by Update.
var recipeContentColumns = []string{
	"title", "description", "ingredients", "instructions",
	"cooking_time", "servings", "image", "tags", "modifications",
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

func (r *recipeRepository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetWithRelations loads the recipe with its author and parent recipe.
// A parent that no longer exists leaves Parent nil.
func (r *recipeRepository) GetWithRelations(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Parent").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter) ([]*models.Recipe, error) {
	q := r.db.WithContext(ctx).Preload("Author")
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.ParentID != "" {
		q = q.Where("parent_recipe_id = ?", filter.ParentID)
	}
	if filter.Tag != "" {
		q = q.Where("tags LIKE ? ESCAPE '\\'", "%"+tagPattern(filter.Tag)+"%")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var recipes []*models.Recipe
	err := q.Order("created_at desc").Find(&recipes).Error
	return recipes, err
}

// tagPattern renders tag the way it appears inside the serialized tags array,
// with LIKE wildcards escaped.
func tagPattern(tag string) string {
	quoted, _ := json.Marshal(tag)
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return escaper.Replace(string(quoted))
}

// FindByIDs returns the recipes that exist among ids, in no particular order.
func (r *recipeRepository) FindByIDs(ctx context.Context, ids []string) ([]*models.Recipe, error) {
	if len(ids) == 0 {
		return []*models.Recipe{}, nil
	}
	var recipes []*models.Recipe
	err := r.db.WithContext(ctx).Preload("Author").Where("id IN ?", ids).Find(&recipes).Error
	return recipes, err
}

// Update writes the recipe's content columns. A recipe deleted since it was
// read is not recreated and yields gorm.ErrRecordNotFound.
func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	result := r.db.WithContext(ctx).
		Model(&models.Recipe{ID: recipe.ID}).
		Select(recipeContentColumns).
		Omit(clause.Associations).
		Updates(recipe)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateLikes writes only the likes list so a concurrent content edit is not overwritten.
func (r *recipeRepository) UpdateLikes(ctx context.Context, id string, likes models.Likes) error {
	result := r.db.WithContext(ctx).Model(&models.Recipe{ID: id}).Select("likes").Updates(&models.Recipe{Likes: likes})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// CountByImage counts recipes whose image is image, limited to userID's
// recipes when userID is set.
func (r *recipeRepository) CountByImage(ctx context.Context, image, userID string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("image = ?", image)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
