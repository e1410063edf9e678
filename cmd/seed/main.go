// Command main runs the database seeder for RecipeBox.
package main

import (
	"flag"
	"log"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/seed"
)

func main() {
	opts := seed.DefaultOptions
	flag.IntVar(&opts.Users, "users", opts.Users, "Number of users to create")
	flag.IntVar(&opts.RecipesPerUser, "recipes", opts.RecipesPerUser, "Recipes per user")
	flag.IntVar(&opts.CommentsPerRecipe, "comments", opts.CommentsPerRecipe, "Comments per recipe")
	flag.Float64Var(&opts.ForkRatio, "fork-ratio", opts.ForkRatio, "Share of recipes that get forked")
	flag.IntVar(&opts.FoldersPerUser, "folders", opts.FoldersPerUser, "Folders per user")
	flag.Int64Var(&opts.Seed, "seed", 0, "Random seed (0 = time based)")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Build data without writing it")
	fixtures := flag.String("fixtures", "", "Load recipes from a YAML fixture file instead of generating them")
	shouldClean := flag.Bool("clean", false, "Delete existing data before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if *shouldClean && !opts.DryRun {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	var sum seed.Summary
	if *fixtures != "" {
		file, err := seed.LoadFixtures(*fixtures)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		sum, err = s.ImportFixtures(file)
		if err != nil {
			log.Fatalf("❌ Fixture import failed: %v", err)
		}
	} else {
		sum, err = s.Run(opts)
		if err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	log.Printf("✨ All done! Created %s", sum)
}
