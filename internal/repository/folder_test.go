package repository

import (
	"context"
	"testing"

	"recipebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFolderRepository_Lifecycle(t *testing.T) {
	db := setupSQLite(t)
	repo := NewFolderRepository(db)
	ctx := context.Background()

	private := &models.Folder{UserID: "u1", Name: "Weeknight"}
	public := &models.Folder{UserID: "u2", Name: "Party", IsPublic: true}
	require.NoError(t, repo.Create(ctx, private))
	require.NoError(t, repo.Create(ctx, public))
	assert.NotEmpty(t, private.ID)
	assert.Equal(t, []string{}, private.Recipes)

	require.NoError(t, repo.UpdateRecipes(ctx, private.ID, []string{"r1", "r2"}))
	loaded, err := repo.GetByID(ctx, private.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, loaded.Recipes)
	assert.Equal(t, "Weeknight", loaded.Name)

	mine, err := repo.ListByUser(ctx, "u1", 20, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	pub, err := repo.ListPublic(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, pub, 1)
	assert.Equal(t, public.ID, pub[0].ID)

	loaded.Name = "Weeknights"
	require.NoError(t, repo.Update(ctx, loaded))
	require.NoError(t, repo.Delete(ctx, public.ID))

	_, err = repo.GetByID(ctx, public.ID)
	assert.Error(t, err)
}

func TestFolderRepository_UpdateDeletedFolder(t *testing.T) {
	db := setupSQLite(t)
	repo := NewFolderRepository(db)
	ctx := context.Background()

	folder := &models.Folder{UserID: "u1", Name: "Weeknight"}
	require.NoError(t, repo.Create(ctx, folder))
	require.NoError(t, repo.UpdateRecipes(ctx, folder.ID, []string{"r1"}))

	folder.Name = "Weekend"
	folder.Recipes = nil
	require.NoError(t, repo.Update(ctx, folder))
	loaded, err := repo.GetByID(ctx, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekend", loaded.Name)
	assert.Equal(t, []string{"r1"}, loaded.Recipes, "membership is only written by UpdateRecipes")

	require.NoError(t, repo.Delete(ctx, folder.ID))
	assert.ErrorIs(t, repo.Update(ctx, folder), gorm.ErrRecordNotFound)
	_, err = repo.GetByID(ctx, folder.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
