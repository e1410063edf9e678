// Package middleware provides authentication, logging, tracing, metrics and
// rate limiting middleware for the application.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"recipebox/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Claims is the token payload issued by the external auth provider.
type Claims struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID string
	Name   string
	Avatar string
	JTI    string

	ExpiresAt time.Time
}

var (
	ErrMissingToken = errors.New("token required")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// BlacklistKey is the Redis key marking a revoked token id.
func BlacklistKey(jti string) string {
	return "blacklist:" + jti
}

// ParseToken verifies signature, expiry, issuer and audience and returns the caller identity.
func ParseToken(cfg *config.Config, raw string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}
	if cfg.JWTAudience != "" {
		opts = append(opts, jwt.WithAudience(cfg.JWTAudience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID: claims.Subject,
		Name:   claims.Name,
		Avatar: claims.Avatar,
		JTI:    claims.ID,

		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IssueToken signs a token for identity. Used by development tooling and tests;
// production tokens come from the auth provider.
func IssueToken(cfg *config.Config, identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	jti := identity.JTI
	if jti == "" {
		jti = uuid.NewString()
	}
	claims := Claims{
		Name:   identity.Name,
		Avatar: identity.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    cfg.JWTIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}
	if cfg.JWTAudience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.JWTAudience}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// RevokeToken verifies raw and blacklists its jti until the token would have
// expired anyway. It returns the identity the token carried.
func RevokeToken(ctx context.Context, cfg *config.Config, rdb *redis.Client, raw string) (*Identity, error) {
	if rdb == nil {
		return nil, errors.New("redis client is nil")
	}
	identity, err := ParseToken(cfg, raw)
	if err != nil {
		return nil, err
	}
	if identity.JTI == "" {
		return nil, errors.New("token has no jti and cannot be revoked")
	}
	ttl := time.Until(identity.ExpiresAt)
	if ttl <= 0 {
		return identity, nil
	}
	if err := rdb.Set(ctx, BlacklistKey(identity.JTI), "1", ttl).Err(); err != nil {
		return nil, fmt.Errorf("blacklist token: %w", err)
	}
	return identity, nil
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}

func authenticate(c *fiber.Ctx, cfg *config.Config, rdb *redis.Client, raw string) error {
	identity, err := ParseToken(cfg, raw)
	if err != nil {
		return unauthorized(c, err.Error())
	}

	if rdb != nil && identity.JTI != "" {
		n, err := rdb.Exists(c.UserContext(), BlacklistKey(identity.JTI)).Result()
		switch {
		case err != nil:
			// Revocation store unavailable: the signature was still verified.
			Logger.WarnContext(c.UserContext(), "token blacklist check failed", slog.String("error", err.Error()))
		case n > 0:
			return unauthorized(c, ErrRevokedToken.Error())
		}
	}

	c.Locals("userID", identity.UserID)
	c.Locals("identity", identity)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, identity.UserID))
	return c.Next()
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msg,
		"code":  "UNAUTHORIZED",
	})
}

// AuthRequired enforces a valid bearer token on protected routes.
func AuthRequired(cfg *config.Config, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c)
		if err != nil {
			return unauthorized(c, err.Error())
		}
		return authenticate(c, cfg, rdb, raw)
	}
}

// WebSocketAuthRequired accepts the token from the "token" query parameter,
// falling back to the Authorization header.
func WebSocketAuthRequired(cfg *config.Config, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("token")
		if raw == "" {
			var err error
			if raw, err = bearerToken(c); err != nil {
				return unauthorized(c, err.Error())
			}
		}
		return authenticate(c, cfg, rdb, raw)
	}
}

// CurrentIdentity returns the identity stored by the auth middleware.
func CurrentIdentity(c *fiber.Ctx) (*Identity, bool) {
	identity, ok := c.Locals("identity").(*Identity)
	return identity, ok && identity != nil
}
