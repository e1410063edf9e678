package service

import (
	"context"
	"errors"
	"log/slog"

	"recipebox/internal/cache"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// UserService keeps the local user projection in step with token claims.
type UserService struct {
	userRepo repository.UserRepository
	redis    *redis.Client
}

type EnsureUserInput struct {
	ID     string
	Name   string
	Avatar string
}

func NewUserService(userRepo repository.UserRepository, rdb *redis.Client) *UserService {
	return &UserService{userRepo: userRepo, redis: rdb}
}

// EnsureUser upserts the caller's row. Claims without a profile only create
// a missing row and never blank out a stored name or avatar.
func (s *UserService) EnsureUser(ctx context.Context, in EnsureUserInput) error {
	fingerprint := in.Name + "|" + in.Avatar
	if cache.ProfileSynced(ctx, s.redis, in.ID, fingerprint) {
		return nil
	}

	if in.Name == "" && in.Avatar == "" {
		_, err := s.userRepo.GetByID(ctx, in.ID)
		switch {
		case err == nil:
			s.markSynced(ctx, in.ID, fingerprint)
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return storeError(err)
		}
	}

	if err := s.userRepo.Upsert(ctx, &models.User{ID: in.ID, Name: in.Name, Avatar: in.Avatar}); err != nil {
		return storeError(err)
	}
	s.markSynced(ctx, in.ID, fingerprint)
	return nil
}

func (s *UserService) markSynced(ctx context.Context, userID, fingerprint string) {
	if err := cache.MarkProfileSynced(ctx, s.redis, userID, fingerprint); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to cache user sync marker", slog.String("error", err.Error()))
	}
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "User", id)
	}
	return user, nil
}
