// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestJWTSecret satisfies the production length check.
const TestJWTSecret = "test-secret-that-is-at-least-32-chars"

// TinyPNG returns an in-memory PNG with the requested dimensions.
func TinyPNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// NewRedis starts a miniredis instance and returns a client for it.
func NewRedis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// OpenSQLite opens a migrated in-memory database closed at cleanup.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Config returns a test configuration backed by sqlite and a temp upload dir.
func Config(t testing.TB) *config.Config {
	t.Helper()
	return &config.Config{
		Port:                 "0",
		Env:                  "test",
		AllowedOrigins:       "http://localhost:5173",
		JWTSecret:            TestJWTSecret,
		JWTIssuer:            "recipebox-auth",
		JWTAudience:          "recipebox-api",
		DBDriver:             "sqlite",
		DBPath:               ":memory:",
		UploadDir:            t.TempDir(),
		ImageMaxUploadSizeMB: 1,
	}
}

// Token issues a bearer token for the given user.
func Token(t testing.TB, cfg *config.Config, userID, name string) string {
	t.Helper()
	token, err := middleware.IssueToken(cfg, middleware.Identity{UserID: userID, Name: name}, time.Hour)
	require.NoError(t, err)
	return token
}
