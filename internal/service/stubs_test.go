package service

import (
	"context"
	"errors"
	"testing"

	"recipebox/internal/models"
	"recipebox/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recipeRepoStub is a stub for repository.RecipeRepository.
type recipeRepoStub struct {
	createFn           func(context.Context, *models.Recipe) error
	getByIDFn          func(context.Context, string) (*models.Recipe, error)
	getWithRelationsFn func(context.Context, string) (*models.Recipe, error)
	listFn             func(context.Context, repository.RecipeFilter) ([]*models.Recipe, error)
	findByIDsFn        func(context.Context, []string) ([]*models.Recipe, error)
	updateFn           func(context.Context, *models.Recipe) error
	updateLikesFn      func(context.Context, string, models.Likes) error
	deleteFn           func(context.Context, string) (int64, error)
	countByImageFn     func(context.Context, string, string) (int64, error)
}

func (s *recipeRepoStub) Create(ctx context.Context, r *models.Recipe) error {
	return s.createFn(ctx, r)
}
func (s *recipeRepoStub) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	return s.getByIDFn(ctx, id)
}
func (s *recipeRepoStub) GetWithRelations(ctx context.Context, id string) (*models.Recipe, error) {
	return s.getWithRelationsFn(ctx, id)
}
func (s *recipeRepoStub) List(ctx context.Context, f repository.RecipeFilter) ([]*models.Recipe, error) {
	return s.listFn(ctx, f)
}
func (s *recipeRepoStub) FindByIDs(ctx context.Context, ids []string) ([]*models.Recipe, error) {
	return s.findByIDsFn(ctx, ids)
}
func (s *recipeRepoStub) Update(ctx context.Context, r *models.Recipe) error {
	return s.updateFn(ctx, r)
}
func (s *recipeRepoStub) UpdateLikes(ctx context.Context, id string, likes models.Likes) error {
	return s.updateLikesFn(ctx, id, likes)
}
func (s *recipeRepoStub) Delete(ctx context.Context, id string) (int64, error) {
	return s.deleteFn(ctx, id)
}
func (s *recipeRepoStub) CountByImage(ctx context.Context, image, userID string) (int64, error) {
	return s.countByImageFn(ctx, image, userID)
}

func noopRecipeRepo() *recipeRepoStub {
	return &recipeRepoStub{
		createFn:           func(_ context.Context, _ *models.Recipe) error { return nil },
		getByIDFn:          func(_ context.Context, id string) (*models.Recipe, error) { return &models.Recipe{ID: id}, nil },
		getWithRelationsFn: func(_ context.Context, id string) (*models.Recipe, error) { return &models.Recipe{ID: id}, nil },
		listFn:             func(_ context.Context, _ repository.RecipeFilter) ([]*models.Recipe, error) { return nil, nil },
		findByIDsFn:        func(_ context.Context, _ []string) ([]*models.Recipe, error) { return nil, nil },
		updateFn:           func(_ context.Context, _ *models.Recipe) error { return nil },
		updateLikesFn:      func(_ context.Context, _ string, _ models.Likes) error { return nil },
		deleteFn:           func(_ context.Context, _ string) (int64, error) { return 1, nil },
		countByImageFn:     func(_ context.Context, _, _ string) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn         func(context.Context, *models.Comment) error
	getByIDFn        func(context.Context, string) (*models.Comment, error)
	listByRecipeFn   func(context.Context, string, int, int) ([]*models.Comment, error)
	updateFn         func(context.Context, *models.Comment) error
	updateLikesFn    func(context.Context, string, models.Likes) error
	deleteFn         func(context.Context, string) error
	deleteByRecipeFn func(context.Context, string) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByRecipe(ctx context.Context, recipeID string, limit, offset int) ([]*models.Comment, error) {
	return s.listByRecipeFn(ctx, recipeID, limit, offset)
}
func (s *commentRepoStub) Update(ctx context.Context, c *models.Comment) error {
	return s.updateFn(ctx, c)
}
func (s *commentRepoStub) UpdateLikes(ctx context.Context, id string, likes models.Likes) error {
	return s.updateLikesFn(ctx, id, likes)
}
func (s *commentRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) DeleteByRecipe(ctx context.Context, recipeID string) (int64, error) {
	return s.deleteByRecipeFn(ctx, recipeID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:         func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:        func(_ context.Context, id string) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByRecipeFn:   func(_ context.Context, _ string, _, _ int) ([]*models.Comment, error) { return nil, nil },
		updateFn:         func(_ context.Context, _ *models.Comment) error { return nil },
		updateLikesFn:    func(_ context.Context, _ string, _ models.Likes) error { return nil },
		deleteFn:         func(_ context.Context, _ string) error { return nil },
		deleteByRecipeFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
	}
}

// folderRepoStub is a stub for repository.FolderRepository.
type folderRepoStub struct {
	createFn        func(context.Context, *models.Folder) error
	getByIDFn       func(context.Context, string) (*models.Folder, error)
	listByUserFn    func(context.Context, string, int, int) ([]*models.Folder, error)
	listPublicFn    func(context.Context, int, int) ([]*models.Folder, error)
	updateFn        func(context.Context, *models.Folder) error
	updateRecipesFn func(context.Context, string, []string) error
	deleteFn        func(context.Context, string) error
}

func (s *folderRepoStub) Create(ctx context.Context, f *models.Folder) error {
	return s.createFn(ctx, f)
}
func (s *folderRepoStub) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	return s.getByIDFn(ctx, id)
}
func (s *folderRepoStub) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Folder, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *folderRepoStub) ListPublic(ctx context.Context, limit, offset int) ([]*models.Folder, error) {
	return s.listPublicFn(ctx, limit, offset)
}
func (s *folderRepoStub) Update(ctx context.Context, f *models.Folder) error {
	return s.updateFn(ctx, f)
}
func (s *folderRepoStub) UpdateRecipes(ctx context.Context, id string, recipes []string) error {
	return s.updateRecipesFn(ctx, id, recipes)
}
func (s *folderRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func noopFolderRepo() *folderRepoStub {
	return &folderRepoStub{
		createFn:        func(_ context.Context, _ *models.Folder) error { return nil },
		getByIDFn:       func(_ context.Context, id string) (*models.Folder, error) { return &models.Folder{ID: id}, nil },
		listByUserFn:    func(_ context.Context, _ string, _, _ int) ([]*models.Folder, error) { return nil, nil },
		listPublicFn:    func(_ context.Context, _, _ int) ([]*models.Folder, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Folder) error { return nil },
		updateRecipesFn: func(_ context.Context, _ string, _ []string) error { return nil },
		deleteFn:        func(_ context.Context, _ string) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn func(context.Context, string) (*models.User, error)
	upsertFn  func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) Upsert(ctx context.Context, u *models.User) error {
	return s.upsertFn(ctx, u)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, _ string) (*models.User, error) { return nil, gorm.ErrRecordNotFound },
		upsertFn:  func(_ context.Context, _ *models.User) error { return nil },
	}
}

func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeForbidden)
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeNotFound)
}

// assertConflict asserts a CONFLICT AppError carrying reason.
func assertConflict(t *testing.T, err error, reason string) {
	t.Helper()
	appErr := assertAppError(t, err, models.CodeConflict)
	assert.Equal(t, reason, appErr.Reason)
}
