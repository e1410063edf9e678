// Package seed creates demo data for development databases. It is not used
// by the API at runtime.
package seed

import (
	"fmt"
	"log"
	"strings"
	"time"

	"recipebox/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	seedTags  = []string{"vegan", "vegetarian", "quick", "dessert", "breakfast", "soup", "spicy", "baking", "gluten-free", "comfort"}
	seedUnits = []string{"g", "ml", "tbsp", "tsp", "cup", ""}
	seedVerbs = []string{"Chop", "Whisk", "Simmer", "Bake", "Fold in", "Season", "Stir", "Roast"}
)

// FactoryOptions control how generated entities are built.
type FactoryOptions struct {
	// DryRun builds entities with synthetic ids and skips every write.
	DryRun bool
	// MaxDays spreads created_at over this many days back.
	MaxDays int
	// Seed makes generation deterministic when non-zero.
	Seed int64
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  FactoryOptions
	faker *gofakeit.Faker
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, opts FactoryOptions) *Factory {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{db: db, opts: opts, faker: gofakeit.New(seed)}
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, f.opts.MaxDays*24*60)) * time.Minute
	return time.Now().UTC().Add(-back)
}

func (f *Factory) persist(value any, label string) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] %s (no DB write)", label)
		return nil
	}
	return f.db.Create(value).Error
}

// CreateUser builds and saves a user projection with a fake name and avatar.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	id := "seed-" + uuid.NewString()[:8]
	user := &models.User{
		ID:     id,
		Name:   f.faker.Name(),
		Avatar: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", id),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.persist(user, "CreateUser "+user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildRecipe returns a valid recipe owned by user without saving it.
func (f *Factory) BuildRecipe(user *models.User, overrides ...func(*models.Recipe)) *models.Recipe {
	dish := f.faker.Dinner()
	ingredients := make([]models.Ingredient, f.faker.Number(3, 8))
	for i := range ingredients {
		name := f.faker.Vegetable()
		if i%2 == 1 {
			name = f.faker.Fruit()
		}
		ingredients[i] = models.Ingredient{
			Name:     strings.ToLower(name),
			Quantity: fmt.Sprintf("%d", f.faker.Number(1, 500)),
			Unit:     f.faker.RandomString(seedUnits),
		}
	}
	instructions := make([]models.Instruction, f.faker.Number(2, 6))
	for i := range instructions {
		instructions[i] = models.Instruction{
			Step: i + 1,
			Text: fmt.Sprintf("%s the %s.", f.faker.RandomString(seedVerbs), ingredients[i%len(ingredients)].Name),
		}
	}

	created := f.pastTime()
	recipe := &models.Recipe{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Title:        dish,
		Description:  f.faker.Sentence(12),
		Ingredients:  ingredients,
		Instructions: instructions,
		CookingTime:  f.faker.Number(5, 180),
		Servings:     f.faker.Number(1, 8),
		Tags:         f.pickTags(),
		Image:        fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.faker.UUID()),
		Likes:        models.Likes{},
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, override := range overrides {
		override(recipe)
	}
	return recipe
}

func (f *Factory) pickTags() []string {
	n := f.faker.Number(0, 3)
	tags := make([]string, 0, n)
	seen := map[string]bool{}
	for len(tags) < n {
		tag := f.faker.RandomString(seedTags)
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// CreateRecipe builds and saves a recipe owned by user.
func (f *Factory) CreateRecipe(user *models.User, overrides ...func(*models.Recipe)) (*models.Recipe, error) {
	recipe := f.BuildRecipe(user, overrides...)
	if err := f.persist(recipe, "CreateRecipe "+recipe.Title); err != nil {
		return nil, err
	}
	return recipe, nil
}

// ForkRecipe saves a copy of source owned by user.
func (f *Factory) ForkRecipe(user *models.User, source *models.Recipe) (*models.Recipe, error) {
	parentID := source.ID
	created := f.pastTime()
	if created.Before(source.CreatedAt) {
		created = source.CreatedAt.Add(time.Hour)
	}
	fork := &models.Recipe{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		Title:          source.Title,
		Description:    source.Description,
		Ingredients:    append([]models.Ingredient(nil), source.Ingredients...),
		Instructions:   append([]models.Instruction(nil), source.Instructions...),
		CookingTime:    source.CookingTime,
		Servings:       source.Servings,
		Tags:           append([]string(nil), source.Tags...),
		Image:          source.Image,
		ParentRecipeID: &parentID,
		IsForked:       true,
		Modifications:  "Swapped in " + strings.ToLower(f.faker.Vegetable()),
		Likes:          models.Likes{},
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	if err := f.persist(fork, "ForkRecipe "+fork.Title); err != nil {
		return nil, err
	}
	return fork, nil
}

// CreateComment saves a comment by user on recipe, snapshotting the user's profile.
func (f *Factory) CreateComment(user *models.User, recipe *models.Recipe) (*models.Comment, error) {
	comment := &models.Comment{
		ID:       uuid.NewString(),
		RecipeID: recipe.ID,
		UserID:   user.ID,
		Text:     f.faker.Sentence(f.faker.Number(4, 16)),
		Name:     user.Name,
		Avatar:   user.Avatar,
		Likes:    models.Likes{},
	}
	if err := f.persist(comment, "CreateComment on "+recipe.ID); err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateFolder saves a folder owned by user holding recipes in the given order.
func (f *Factory) CreateFolder(user *models.User, recipes []*models.Recipe) (*models.Folder, error) {
	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	folder := &models.Folder{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Name:        capitalize(f.faker.Adjective()) + " " + f.faker.RandomString([]string{"dinners", "favourites", "bakes", "weeknights"}),
		Description: f.faker.Sentence(8),
		IsPublic:    f.faker.Bool(),
		Recipes:     ids,
	}
	if err := f.persist(folder, "CreateFolder "+folder.Name); err != nil {
		return nil, err
	}
	return folder, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// LikeAll prepends a like from each user, skipping the owner and duplicates.
func LikeAll(likes models.Likes, ownerID string, users []*models.User, at time.Time) models.Likes {
	for _, u := range users {
		if u.ID == ownerID || likes.Has(u.ID) {
			continue
		}
		likes = likes.Prepend(models.Like{User: u.ID, CreatedAt: at})
	}
	return likes
}
