package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// UserSeenTTL bounds how long a synced profile is trusted before re-upserting.
const UserSeenTTL = 10 * time.Minute

// UserSeenKey is the key remembering the last profile synced for userID.
func UserSeenKey(userID string) string {
	return "user:seen:" + userID
}

// ProfileSynced reports whether fingerprint was already synced for userID.
// Any Redis failure reports false so the caller falls back to the database.
func ProfileSynced(ctx context.Context, rdb *redis.Client, userID, fingerprint string) bool {
	if rdb == nil {
		return false
	}
	val, err := rdb.Get(ctx, UserSeenKey(userID)).Result()
	if err != nil {
		return false
	}
	return val == fingerprint
}

// MarkProfileSynced records fingerprint as the last synced profile for userID.
func MarkProfileSynced(ctx context.Context, rdb *redis.Client, userID, fingerprint string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Set(ctx, UserSeenKey(userID), fingerprint, UserSeenTTL).Err()
}

// ForgetProfile drops the sync marker for userID.
func ForgetProfile(ctx context.Context, rdb *redis.Client, userID string) error {
	if rdb == nil {
		return nil
	}
	err := rdb.Del(ctx, UserSeenKey(userID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
