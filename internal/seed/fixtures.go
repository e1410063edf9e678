package seed

import (
	"fmt"
	"log"
	"os"

	"recipebox/internal/models"
	"recipebox/internal/validation"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// FixtureFile is the YAML layout accepted by LoadFixtures.
type FixtureFile struct {
	Users   []FixtureUser   `yaml:"users"`
	Recipes []FixtureRecipe `yaml:"recipes"`
}

// FixtureUser is a hand-written user projection.
type FixtureUser struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Avatar string `yaml:"avatar"`
}

// FixtureRecipe is a hand-written recipe. ForkOf names the key of another
// recipe in the same file.
type FixtureRecipe struct {
	Key           string               `yaml:"key"`
	Author        string               `yaml:"author"`
	Title         string               `yaml:"title"`
	Description   string               `yaml:"description"`
	Ingredients   []models.Ingredient  `yaml:"ingredients"`
	Instructions  []models.Instruction `yaml:"instructions"`
	CookingTime   int                  `yaml:"cookingTime"`
	Servings      int                  `yaml:"servings"`
	Tags          []string             `yaml:"tags"`
	ForkOf        string               `yaml:"forkOf"`
	Modifications string               `yaml:"modifications"`
}

// LoadFixtures reads and parses a fixture file.
func LoadFixtures(path string) (*FixtureFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var file FixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return &file, nil
}

// toRecipes validates every fixture and resolves forkOf keys. Forks must
// appear after their source.
func (file *FixtureFile) toRecipes() ([]*models.Recipe, error) {
	authors := make(map[string]bool, len(file.Users))
	for _, u := range file.Users {
		authors[u.ID] = true
	}

	byKey := make(map[string]*models.Recipe, len(file.Recipes))
	recipes := make([]*models.Recipe, 0, len(file.Recipes))
	for i, fx := range file.Recipes {
		if !authors[fx.Author] {
			return nil, fmt.Errorf("recipe %d (%q): unknown author %q", i, fx.Title, fx.Author)
		}
		recipe := &models.Recipe{
			ID:            uuid.NewString(),
			UserID:        fx.Author,
			Title:         fx.Title,
			Description:   fx.Description,
			Ingredients:   fx.Ingredients,
			Instructions:  fx.Instructions,
			CookingTime:   fx.CookingTime,
			Servings:      fx.Servings,
			Tags:          validation.NormalizeTags(fx.Tags),
			Modifications: fx.Modifications,
			Likes:         models.Likes{},
		}
		if fx.ForkOf != "" {
			parent, ok := byKey[fx.ForkOf]
			if !ok {
				return nil, fmt.Errorf("recipe %d (%q): forkOf %q is not defined earlier in the file", i, fx.Title, fx.ForkOf)
			}
			parentID := parent.ID
			recipe.ParentRecipeID = &parentID
			recipe.IsForked = true
			if recipe.Modifications == "" {
				recipe.Modifications = models.DefaultForkModifications
			}
		}
		if err := validation.ValidateRecipe(recipe); err != nil {
			return nil, fmt.Errorf("recipe %d (%q): %w", i, fx.Title, err)
		}
		if fx.Key != "" {
			byKey[fx.Key] = recipe
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// ImportFixtures saves the users and recipes of file in one transaction.
func (s *Seeder) ImportFixtures(file *FixtureFile) (Summary, error) {
	var sum Summary
	recipes, err := file.toRecipes()
	if err != nil {
		return sum, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, fu := range file.Users {
			user := &models.User{ID: fu.ID, Name: fu.Name, Avatar: fu.Avatar}
			if err := tx.Save(user).Error; err != nil {
				return fmt.Errorf("save user %s: %w", fu.ID, err)
			}
			sum.Users++
		}
		for _, r := range recipes {
			if err := tx.Create(r).Error; err != nil {
				return fmt.Errorf("save recipe %q: %w", r.Title, err)
			}
			sum.Recipes++
			if r.IsForked {
				sum.Forks++
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	log.Printf("📦 Imported fixtures: %s", sum)
	return sum, nil
}
