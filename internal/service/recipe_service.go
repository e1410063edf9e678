package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/observability"
	"recipebox/internal/repository"
	"recipebox/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// ImageStore persists recipe images and returns their public path.
type ImageStore interface {
	Store(ctx context.Context, in UploadImageInput) (string, error)
	Remove(publicPath string) error
	OwnedBy(publicPath, ownerID string) bool
}

type RecipeService struct {
	recipeRepo  repository.RecipeRepository
	commentRepo repository.CommentRepository
	images      ImageStore
	now         func() time.Time
}

type CreateRecipeInput struct {
	UserID         string
	Title          string
	Description    string
	Ingredients    []models.Ingredient
	Instructions   []models.Instruction
	CookingTime    int
	Servings       int
	Image          string
	Tags           []string
	ParentRecipeID *string
	Modifications  string
}

// RecipePatch is a merge-patch: nil fields are left unchanged.
// Owner and lineage are not patchable.
type RecipePatch struct {
	Title         *string               `json:"title"`
	Description   *string               `json:"description"`
	Ingredients   *[]models.Ingredient  `json:"ingredients"`
	Instructions  *[]models.Instruction `json:"instructions"`
	CookingTime   *int                  `json:"cookingTime"`
	Servings      *int                  `json:"servings"`
	Image         *string               `json:"image"`
	Tags          *[]string             `json:"tags"`
	Modifications *string               `json:"modifications"`
}

type UpdateRecipeInput struct {
	UserID   string
	RecipeID string
	Patch    RecipePatch
}

type DeleteRecipeInput struct {
	UserID   string
	RecipeID string
}

type ForkRecipeInput struct {
	UserID        string
	RecipeID      string
	Modifications string
}

type ListRecipesInput struct {
	Tag    string
	Limit  int
	Offset int
}

type AttachImageInput struct {
	UserID      string
	RecipeID    string
	Filename    string
	ContentType string
	Content     []byte
}

// DeleteRecipeResult reports what a recipe delete removed.
type DeleteRecipeResult struct {
	Recipe          *models.Recipe
	CommentsDeleted int64
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	commentRepo repository.CommentRepository,
	images ImageStore,
) *RecipeService {
	return &RecipeService{
		recipeRepo:  recipeRepo,
		commentRepo: commentRepo,
		images:      images,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *RecipeService) getRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Recipe", id)
	}
	return recipe, nil
}

func (s *RecipeService) reload(ctx context.Context, id string) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetWithRelations(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Recipe", id)
	}
	return recipe, nil
}

// CreateRecipe stores a new recipe. A non-empty ParentRecipeID must resolve
// and marks the recipe as a fork.
func (s *RecipeService) CreateRecipe(ctx context.Context, in CreateRecipeInput) (*models.Recipe, error) {
	recipe := &models.Recipe{
		UserID:        in.UserID,
		Title:         in.Title,
		Description:   in.Description,
		Ingredients:   in.Ingredients,
		Instructions:  in.Instructions,
		CookingTime:   in.CookingTime,
		Servings:      in.Servings,
		Image:         in.Image,
		Tags:          validation.NormalizeTags(in.Tags),
		Modifications: in.Modifications,
		Likes:         models.Likes{},
	}

	if in.ParentRecipeID != nil && *in.ParentRecipeID != "" {
		parent, err := s.recipeRepo.GetByID(ctx, *in.ParentRecipeID)
		if err != nil {
			return nil, lookupError(err, "Parent recipe", *in.ParentRecipeID)
		}
		recipe.ParentRecipeID = &parent.ID
		recipe.IsForked = true
		if recipe.Modifications == "" {
			recipe.Modifications = models.DefaultForkModifications
		}
	}

	if err := validation.ValidateRecipe(recipe); err != nil {
		return nil, err
	}
	if err := s.checkImageRef(recipe.Image, in.UserID); err != nil {
		return nil, err
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, storeError(err)
	}
	return s.reload(ctx, recipe.ID)
}

// ListRecipes returns recipes newest first, optionally filtered by tag.
func (s *RecipeService) ListRecipes(ctx context.Context, in ListRecipesInput) ([]*models.Recipe, error) {
	tags := validation.NormalizeTags([]string{in.Tag})
	filter := repository.RecipeFilter{Limit: in.Limit, Offset: in.Offset}
	if len(tags) == 1 {
		filter.Tag = tags[0]
	}
	recipes, err := s.recipeRepo.List(ctx, filter)
	return recipes, storeError(err)
}

func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	return s.reload(ctx, id)
}

func (s *RecipeService) ListUserRecipes(ctx context.Context, userID string, limit, offset int) ([]*models.Recipe, error) {
	recipes, err := s.recipeRepo.List(ctx, repository.RecipeFilter{UserID: userID, Limit: limit, Offset: offset})
	return recipes, storeError(err)
}

// ListForks returns direct forks of recipeID. Forks outlive their parent,
// so a deleted parent still lists its forks.
func (s *RecipeService) ListForks(ctx context.Context, recipeID string, limit, offset int) ([]*models.Recipe, error) {
	recipes, err := s.recipeRepo.List(ctx, repository.RecipeFilter{ParentID: recipeID, Limit: limit, Offset: offset})
	return recipes, storeError(err)
}

func (s *RecipeService) UpdateRecipe(ctx context.Context, in UpdateRecipeInput) (*models.Recipe, error) {
	recipe, err := s.getRecipe(ctx, in.RecipeID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeRecipe(recipe, in.UserID); err != nil {
		return nil, err
	}

	previous := recipe.Image
	applyRecipePatch(recipe, in.Patch)
	if err := validation.ValidateRecipe(recipe); err != nil {
		return nil, err
	}
	if recipe.Image != previous {
		if err := s.checkImageRef(recipe.Image, in.UserID); err != nil {
			return nil, err
		}
	}
	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, lookupError(err, "Recipe", recipe.ID)
	}
	if recipe.Image != previous {
		s.releaseImage(ctx, previous)
	}
	return s.reload(ctx, recipe.ID)
}

func applyRecipePatch(recipe *models.Recipe, p RecipePatch) {
	if p.Title != nil {
		recipe.Title = *p.Title
	}
	if p.Description != nil {
		recipe.Description = *p.Description
	}
	if p.Ingredients != nil {
		recipe.Ingredients = *p.Ingredients
	}
	if p.Instructions != nil {
		recipe.Instructions = *p.Instructions
	}
	if p.CookingTime != nil {
		recipe.CookingTime = *p.CookingTime
	}
	if p.Servings != nil {
		recipe.Servings = *p.Servings
	}
	if p.Image != nil {
		recipe.Image = *p.Image
	}
	if p.Tags != nil {
		recipe.Tags = validation.NormalizeTags(*p.Tags)
	}
	if p.Modifications != nil {
		recipe.Modifications = *p.Modifications
	}
}

// DeleteRecipe removes the recipe, then every comment attached to it.
// Folder memberships are left in place.
func (s *RecipeService) DeleteRecipe(ctx context.Context, in DeleteRecipeInput) (*DeleteRecipeResult, error) {
	span, ctx := observability.NewSpan(ctx, "RecipeService.DeleteRecipe", attribute.String("recipe.id", in.RecipeID))
	defer span.End()

	recipe, err := s.getRecipe(ctx, in.RecipeID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeRecipe(recipe, in.UserID); err != nil {
		return nil, err
	}

	if _, err := s.recipeRepo.Delete(ctx, recipe.ID); err != nil {
		span.SetError(err)
		return nil, storeError(err)
	}

	deleted, err := s.commentRepo.DeleteByRecipe(ctx, recipe.ID)
	if err != nil {
		// The recipe is already gone; its comments are orphaned until retried.
		span.SetError(err)
		middleware.Logger.ErrorContext(ctx, "comment cascade failed after recipe delete",
			slog.String("recipe_id", recipe.ID),
			slog.String("error", err.Error()),
		)
		return nil, storeError(err)
	}
	span.AddAttributes(attribute.Int64("comments.deleted", deleted))

	s.releaseImage(ctx, recipe.Image)

	return &DeleteRecipeResult{Recipe: recipe, CommentsDeleted: deleted}, nil
}

// ForkRecipe copies the source recipe's content into a new recipe owned by
// the caller. Likes are not copied; the source is not modified.
func (s *RecipeService) ForkRecipe(ctx context.Context, in ForkRecipeInput) (*models.Recipe, error) {
	span, ctx := observability.NewSpan(ctx, "RecipeService.ForkRecipe", attribute.String("recipe.id", in.RecipeID))
	defer span.End()

	if err := validation.ValidateModifications(in.Modifications); err != nil {
		return nil, err
	}

	source, err := s.getRecipe(ctx, in.RecipeID)
	if err != nil {
		return nil, err
	}

	modifications := in.Modifications
	if modifications == "" {
		modifications = models.DefaultForkModifications
	}
	parentID := source.ID

	fork := &models.Recipe{
		UserID:         in.UserID,
		Title:          source.Title,
		Description:    source.Description,
		Ingredients:    append([]models.Ingredient(nil), source.Ingredients...),
		Instructions:   append([]models.Instruction(nil), source.Instructions...),
		CookingTime:    source.CookingTime,
		Servings:       source.Servings,
		Image:          source.Image,
		Tags:           append([]string(nil), source.Tags...),
		ParentRecipeID: &parentID,
		IsForked:       true,
		Modifications:  modifications,
		Likes:          models.Likes{},
	}

	if err := s.recipeRepo.Create(ctx, fork); err != nil {
		span.SetError(err)
		return nil, storeError(err)
	}
	span.AddAttributes(attribute.String("fork.id", fork.ID))
	return s.reload(ctx, fork.ID)
}

// LikeRecipe records userID's like, most recent first.
func (s *RecipeService) LikeRecipe(ctx context.Context, userID, recipeID string) (*models.Recipe, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	likes, err := addLike(recipe.Likes, userID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.recipeRepo.UpdateLikes(ctx, recipe.ID, likes); err != nil {
		return nil, lookupError(err, "Recipe", recipeID)
	}
	recipe.Likes = likes
	return recipe, nil
}

// UnlikeRecipe removes every like from userID.
func (s *RecipeService) UnlikeRecipe(ctx context.Context, userID, recipeID string) (*models.Recipe, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	likes, err := removeLike(recipe.Likes, userID)
	if err != nil {
		return nil, err
	}
	if err := s.recipeRepo.UpdateLikes(ctx, recipe.ID, likes); err != nil {
		return nil, lookupError(err, "Recipe", recipeID)
	}
	recipe.Likes = likes
	return recipe, nil
}

// AttachImage stores an uploaded image and points the recipe at it.
func (s *RecipeService) AttachImage(ctx context.Context, in AttachImageInput) (*models.Recipe, error) {
	recipe, err := s.getRecipe(ctx, in.RecipeID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeRecipe(recipe, in.UserID); err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, models.NewInternalError(nil)
	}

	path, err := s.images.Store(ctx, UploadImageInput{
		OwnerID:     in.UserID,
		Filename:    in.Filename,
		ContentType: in.ContentType,
		Content:     in.Content,
	})
	if err != nil {
		return nil, err
	}

	previous := recipe.Image
	recipe.Image = path
	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		s.releaseImage(ctx, path)
		return nil, lookupError(err, "Recipe", recipe.ID)
	}
	if previous != path {
		s.releaseImage(ctx, previous)
	}
	return s.reload(ctx, recipe.ID)
}

// checkImageRef rejects an uploads path that was not stored for userID.
// External URLs pass through.
func (s *RecipeService) checkImageRef(image, userID string) error {
	if !strings.HasPrefix(image, UploadsURLPrefix) {
		return nil
	}
	if s.images == nil || !s.images.OwnedBy(image, userID) {
		return models.NewFieldValidationError(map[string]string{
			"image": "Uploaded images must be attached through the image upload endpoint",
		})
	}
	return nil
}

// releaseImage removes an uploaded file once no recipe references it.
// Forks and repeated uploads share files.
func (s *RecipeService) releaseImage(ctx context.Context, path string) {
	if s.images == nil || !strings.HasPrefix(path, UploadsURLPrefix) {
		return
	}
	refs, err := s.recipeRepo.CountByImage(ctx, path, "")
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to count image references",
			slog.String("image", path),
			slog.String("error", err.Error()),
		)
		return
	}
	if refs > 0 {
		return
	}
	if err := s.images.Remove(path); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to remove recipe image",
			slog.String("image", path),
			slog.String("error", err.Error()),
		)
	}
}
