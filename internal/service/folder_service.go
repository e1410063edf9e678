package service

import (
	"context"

	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/validation"
)

type FolderService struct {
	folderRepo repository.FolderRepository
	recipeRepo repository.RecipeRepository
}

type CreateFolderInput struct {
	UserID      string
	Name        string
	Description string
	IsPublic    bool
}

// FolderPatch is a merge-patch over the folder's editable fields.
// Membership changes go through AddRecipe and RemoveRecipe.
type FolderPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"isPublic"`
}

type UpdateFolderInput struct {
	UserID   string
	FolderID string
	Patch    FolderPatch
}

// MembershipInput names a folder and a recipe on behalf of a user.
type MembershipInput struct {
	UserID   string
	FolderID string
	RecipeID string
}

func NewFolderService(folderRepo repository.FolderRepository, recipeRepo repository.RecipeRepository) *FolderService {
	return &FolderService{folderRepo: folderRepo, recipeRepo: recipeRepo}
}

func (s *FolderService) getFolder(ctx context.Context, id string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Folder", id)
	}
	return folder, nil
}

func (s *FolderService) ownedFolder(ctx context.Context, folderID, userID string) (*models.Folder, error) {
	folder, err := s.getFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeFolder(folder, userID); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *FolderService) CreateFolder(ctx context.Context, in CreateFolderInput) (*models.Folder, error) {
	folder := &models.Folder{
		UserID:      in.UserID,
		Name:        in.Name,
		Description: in.Description,
		IsPublic:    in.IsPublic,
		Recipes:     []string{},
	}
	if err := validation.ValidateFolder(folder); err != nil {
		return nil, err
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, storeError(err)
	}
	return folder, nil
}

func (s *FolderService) ListMyFolders(ctx context.Context, userID string, limit, offset int) ([]*models.Folder, error) {
	folders, err := s.folderRepo.ListByUser(ctx, userID, limit, offset)
	return folders, storeError(err)
}

func (s *FolderService) ListPublicFolders(ctx context.Context, limit, offset int) ([]*models.Folder, error) {
	folders, err := s.folderRepo.ListPublic(ctx, limit, offset)
	return folders, storeError(err)
}

// GetFolder returns the folder with its recipes resolved in folder order.
// Private folders are visible to their owner only. Member ids that no longer
// resolve are reported in MissingRecipes rather than failing the read.
func (s *FolderService) GetFolder(ctx context.Context, userID, folderID string) (*models.FolderDetail, error) {
	folder, err := s.getFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if !folder.IsPublic && folder.UserID != userID {
		return nil, models.NewForbiddenError("This folder is private")
	}

	found, err := s.recipeRepo.FindByIDs(ctx, folder.Recipes)
	if err != nil {
		return nil, storeError(err)
	}
	byID := make(map[string]*models.Recipe, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}

	detail := &models.FolderDetail{
		ID:          folder.ID,
		UserID:      folder.UserID,
		Name:        folder.Name,
		Description: folder.Description,
		IsPublic:    folder.IsPublic,
		Recipes:     make([]*models.Recipe, 0, len(folder.Recipes)),
		CreatedAt:   folder.CreatedAt,
		UpdatedAt:   folder.UpdatedAt,
	}
	for _, id := range folder.Recipes {
		if r, ok := byID[id]; ok {
			detail.Recipes = append(detail.Recipes, r)
		} else {
			detail.MissingRecipes = append(detail.MissingRecipes, id)
		}
	}
	return detail, nil
}

func (s *FolderService) UpdateFolder(ctx context.Context, in UpdateFolderInput) (*models.Folder, error) {
	folder, err := s.ownedFolder(ctx, in.FolderID, in.UserID)
	if err != nil {
		return nil, err
	}
	if in.Patch.Name != nil {
		folder.Name = *in.Patch.Name
	}
	if in.Patch.Description != nil {
		folder.Description = *in.Patch.Description
	}
	if in.Patch.IsPublic != nil {
		folder.IsPublic = *in.Patch.IsPublic
	}
	if err := validation.ValidateFolder(folder); err != nil {
		return nil, err
	}
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, lookupError(err, "Folder", folder.ID)
	}
	return folder, nil
}

// DeleteFolder removes the folder only; member recipes are untouched.
func (s *FolderService) DeleteFolder(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	folder, err := s.ownedFolder(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.folderRepo.Delete(ctx, folder.ID); err != nil {
		return nil, lookupError(err, "Folder", folder.ID)
	}
	return folder, nil
}

// AddRecipe appends an existing recipe to the caller's folder.
func (s *FolderService) AddRecipe(ctx context.Context, in MembershipInput) (*models.Folder, error) {
	folder, err := s.ownedFolder(ctx, in.FolderID, in.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.recipeRepo.GetByID(ctx, in.RecipeID); err != nil {
		return nil, lookupError(err, "Recipe", in.RecipeID)
	}
	if folder.HasRecipe(in.RecipeID) {
		return nil, models.NewConflictError(models.ReasonAlreadyMember, "Recipe is already in this folder")
	}

	recipes := append(append(make([]string, 0, len(folder.Recipes)+1), folder.Recipes...), in.RecipeID)
	if err := s.folderRepo.UpdateRecipes(ctx, folder.ID, recipes); err != nil {
		return nil, lookupError(err, "Folder", folder.ID)
	}
	folder.Recipes = recipes
	return folder, nil
}

// RemoveRecipe drops every occurrence of the recipe from the caller's folder.
func (s *FolderService) RemoveRecipe(ctx context.Context, in MembershipInput) (*models.Folder, error) {
	folder, err := s.ownedFolder(ctx, in.FolderID, in.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.recipeRepo.GetByID(ctx, in.RecipeID); err != nil {
		return nil, lookupError(err, "Recipe", in.RecipeID)
	}
	if !folder.HasRecipe(in.RecipeID) {
		return nil, models.NewConflictError(models.ReasonNotMember, "Recipe is not in this folder")
	}

	recipes := make([]string, 0, len(folder.Recipes))
	for _, id := range folder.Recipes {
		if id != in.RecipeID {
			recipes = append(recipes, id)
		}
	}
	if err := s.folderRepo.UpdateRecipes(ctx, folder.ID, recipes); err != nil {
		return nil, lookupError(err, "Folder", folder.ID)
	}
	folder.Recipes = recipes
	return folder, nil
}
