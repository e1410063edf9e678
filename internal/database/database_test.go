package database

import (
	"context"
	"testing"

	"recipebox/internal/config"
	"recipebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig() *config.Config {
	return &config.Config{DBDriver: "sqlite", DBPath: ":memory:"}
}

func TestOpen_SQLiteMigratesAndRoundTripsEmbeddedLists(t *testing.T) {
	db, err := Open(sqliteConfig())
	require.NoError(t, err)
	require.NoError(t, Ping(context.Background(), db))

	parent := "missing-parent"
	recipe := &models.Recipe{
		UserID:         "u1",
		Title:          "Soup",
		Ingredients:    []models.Ingredient{{Name: "water", Quantity: "1", Unit: "l"}},
		Instructions:   []models.Instruction{{Step: 1, Text: "boil"}},
		CookingTime:    20,
		Servings:       2,
		Tags:           []string{"easy"},
		ParentRecipeID: &parent,
	}
	// Succeeds without a parent row: no foreign key constraints.
	require.NoError(t, db.Create(recipe).Error)
	assert.NotEmpty(t, recipe.ID)

	var loaded models.Recipe
	require.NoError(t, db.First(&loaded, "id = ?", recipe.ID).Error)
	assert.Equal(t, recipe.Ingredients, loaded.Ingredients)
	assert.Equal(t, recipe.Instructions, loaded.Instructions)
	assert.Equal(t, []string{"easy"}, loaded.Tags)
	assert.NotNil(t, loaded.Likes)
	assert.Empty(t, loaded.Likes)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "mongo"})
	assert.Error(t, err)
}

func TestConfigurePool(t *testing.T) {
	db, err := Open(sqliteConfig())
	require.NoError(t, err)

	cfg := &config.Config{
		DBDriver:                 "postgres",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}
