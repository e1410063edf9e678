// Command main mints or revokes signed bearer tokens for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"recipebox/internal/cache"
	"recipebox/internal/config"
	"recipebox/internal/middleware"
)

func main() {
	userID := flag.String("user", "", "User id (token subject)")
	name := flag.String("name", "", "Display name claim")
	avatar := flag.String("avatar", "", "Avatar URL claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	revoke := flag.String("revoke", "", "Blacklist this token in Redis instead of minting one")
	flag.Parse()

	if *userID == "" && *revoke == "" {
		log.Fatal("usage: token -user <id> [-name <name>] [-avatar <url>] [-ttl 24h] | token -revoke <token>")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *revoke != "" {
		revokeToken(cfg, *revoke)
		return
	}

	if cfg.IsProduction() {
		log.Fatal("Refusing to mint tokens with production configuration")
	}

	token, err := middleware.IssueToken(cfg, middleware.Identity{
		UserID: *userID,
		Name:   *name,
		Avatar: *avatar,
	}, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}

func revokeToken(cfg *config.Config, raw string) {
	rdb, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	defer func() { _ = rdb.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	identity, err := middleware.RevokeToken(ctx, cfg, rdb, raw)
	if err != nil {
		log.Fatalf("Failed to revoke token: %v", err)
	}
	log.Printf("Revoked token %s for user %s (expires %s)", identity.JTI, identity.UserID, identity.ExpiresAt.Format(time.RFC3339))
}
