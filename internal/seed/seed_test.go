package seed

import (
	"testing"
	"time"

	"recipebox/internal/models"
	"recipebox/internal/testutil"
	"recipebox/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_BuildRecipeIsValid(t *testing.T) {
	f := NewFactory(nil, FactoryOptions{DryRun: true, MaxDays: 30, Seed: 42})
	user := &models.User{ID: "u1"}

	for i := 0; i < 20; i++ {
		r := f.BuildRecipe(user)
		require.NoError(t, validation.ValidateRecipe(r), "recipe %d", i)
		assert.Equal(t, "u1", r.UserID)
		assert.WithinDuration(t, time.Now(), r.CreatedAt, 31*24*time.Hour)
		assert.Equal(t, validation.NormalizeTags(r.Tags), r.Tags)
	}
}

func TestFactory_DryRunSkipsWrites(t *testing.T) {
	f := NewFactory(nil, FactoryOptions{DryRun: true, Seed: 1})

	user, err := f.CreateUser()
	require.NoError(t, err)
	source, err := f.CreateRecipe(user)
	require.NoError(t, err)
	fork, err := f.ForkRecipe(&models.User{ID: "u2"}, source)
	require.NoError(t, err)

	require.NotNil(t, fork.ParentRecipeID)
	assert.Equal(t, source.ID, *fork.ParentRecipeID)
	assert.True(t, fork.IsForked)
	assert.False(t, fork.CreatedAt.Before(source.CreatedAt))
}

func TestLikeAll_SkipsOwnerAndDuplicates(t *testing.T) {
	users := []*models.User{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	now := time.Now()

	likes := LikeAll(models.Likes{{User: "b", CreatedAt: now}}, "a", users, now)

	require.Len(t, likes, 2)
	assert.Equal(t, "c", likes[0].User)
	assert.Equal(t, "b", likes[1].User)
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.OpenSQLite(t)
	s := NewSeeder(db)

	opts := Options{Users: 3, RecipesPerUser: 2, CommentsPerRecipe: 1, ForkRatio: 0.5, FoldersPerUser: 1, RecipesInFolder: 2, Seed: 7}
	sum, err := s.Run(opts)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Users)
	assert.Equal(t, 3, sum.Forks)
	assert.Equal(t, 9, sum.Recipes)
	assert.Equal(t, 9, sum.Comments)
	assert.Equal(t, 3, sum.Folders)

	var forks []models.Recipe
	require.NoError(t, db.Where("is_forked = ?", true).Find(&forks).Error)
	require.Len(t, forks, 3)
	for _, fork := range forks {
		var parent models.Recipe
		require.NoError(t, db.First(&parent, "id = ?", *fork.ParentRecipeID).Error)
		assert.NotEqual(t, parent.UserID, fork.UserID)
	}

	var recipes []models.Recipe
	require.NoError(t, db.Find(&recipes).Error)
	for _, r := range recipes {
		assert.False(t, r.Likes.Has(r.UserID), "owners do not like their own seeded recipes")
	}

	require.NoError(t, s.ClearAll())
	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSeeder_RunRequiresUsers(t *testing.T) {
	_, err := NewSeeder(nil).Run(Options{})
	assert.Error(t, err)
}
