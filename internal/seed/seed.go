package seed

import (
	"fmt"
	"log"
	"time"

	"recipebox/internal/database"
	"recipebox/internal/models"

	"gorm.io/gorm"
)

// Options sizes a generated data set.
type Options struct {
	Users             int
	RecipesPerUser    int
	CommentsPerRecipe int
	// ForkRatio is the share of recipes that receive one fork.
	ForkRatio       float64
	FoldersPerUser  int
	RecipesInFolder int
	Seed            int64
	DryRun          bool
}

// DefaultOptions is a small but connected data set.
var DefaultOptions = Options{
	Users:             8,
	RecipesPerUser:    4,
	CommentsPerRecipe: 3,
	ForkRatio:         0.25,
	FoldersPerUser:    1,
	RecipesInFolder:   5,
}

// Summary counts what a run created.
type Summary struct {
	Users    int
	Recipes  int
	Forks    int
	Comments int
	Folders  int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d users, %d recipes (%d forks), %d comments, %d folders",
		s.Users, s.Recipes, s.Forks, s.Comments, s.Folders)
}

// Seeder populates a database with generated or fixture data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll deletes every row of every persisted model.
func (s *Seeder) ClearAll() error {
	log.Println("🧹 Clearing existing data...")
	for _, model := range database.PersistentModels() {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run generates users, recipes, forks, comments, likes and folders.
func (s *Seeder) Run(opts Options) (Summary, error) {
	var sum Summary
	if opts.Users <= 0 {
		return sum, fmt.Errorf("at least one user is required")
	}
	f := NewFactory(s.db, FactoryOptions{DryRun: opts.DryRun, Seed: opts.Seed})

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return sum, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)
	log.Printf("👤 Created %d users", sum.Users)

	var recipes []*models.Recipe
	for _, u := range users {
		for j := 0; j < opts.RecipesPerUser; j++ {
			// Likes come from the users seeded before the owner.
			recipe, err := f.CreateRecipe(u, func(r *models.Recipe) {
				r.Likes = LikeAll(models.Likes{}, u.ID, users[:f.faker.Number(0, len(users)-1)], r.CreatedAt.Add(time.Hour))
			})
			if err != nil {
				return sum, fmt.Errorf("create recipe: %w", err)
			}
			recipes = append(recipes, recipe)
		}
	}
	sum.Recipes = len(recipes)

	forkCount := int(float64(len(recipes)) * opts.ForkRatio)
	for i := 0; i < forkCount; i++ {
		source := recipes[i]
		forker := users[(i+1)%len(users)]
		if forker.ID == source.UserID {
			forker = users[(i+2)%len(users)]
		}
		fork, err := f.ForkRecipe(forker, source)
		if err != nil {
			return sum, fmt.Errorf("fork recipe: %w", err)
		}
		recipes = append(recipes, fork)
		sum.Forks++
	}
	sum.Recipes = len(recipes)
	log.Printf("🍲 Created %d recipes including %d forks", sum.Recipes, sum.Forks)

	for i, r := range recipes {
		for j := 0; j < opts.CommentsPerRecipe; j++ {
			author := users[(i+j)%len(users)]
			if _, err := f.CreateComment(author, r); err != nil {
				return sum, fmt.Errorf("create comment: %w", err)
			}
			sum.Comments++
		}
	}
	log.Printf("💬 Created %d comments", sum.Comments)

	for i, u := range users {
		for j := 0; j < opts.FoldersPerUser; j++ {
			picked := pickRecipes(recipes, i+j, opts.RecipesInFolder)
			if _, err := f.CreateFolder(u, picked); err != nil {
				return sum, fmt.Errorf("create folder: %w", err)
			}
			sum.Folders++
		}
	}
	log.Printf("📁 Created %d folders", sum.Folders)

	return sum, nil
}

// pickRecipes returns up to n distinct recipes starting at offset, wrapping around.
func pickRecipes(recipes []*models.Recipe, offset, n int) []*models.Recipe {
	if n > len(recipes) {
		n = len(recipes)
	}
	out := make([]*models.Recipe, 0, n)
	for k := 0; k < n; k++ {
		out = append(out, recipes[(offset+k)%len(recipes)])
	}
	return out
}
