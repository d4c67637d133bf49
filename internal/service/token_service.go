package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusdesk/student-records-api/internal/models"
	appErrors "github.com/campusdesk/student-records-api/pkg/errors"
)

type tokenStore interface {
	Append(ctx context.Context, token *models.IssuedToken) error
	FindActive(ctx context.Context, jti string) (*models.IssuedToken, error)
	Revoke(ctx context.Context, jti, studentID string, revokedAt time.Time) error
}

type tokenCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// TokenConfig defines the signing secret and token lifetime, injected at
// process start.
type TokenConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// TokenService issues and validates signed access tokens. Every issued token
// is appended to the student's stored token list; validation consults that
// list so revocation takes effect.
type TokenService struct {
	store  tokenStore
	cache  tokenCache
	logger *zap.Logger
	config TokenConfig
}

// NewTokenService constructs a TokenService.
func NewTokenService(store tokenStore, cache tokenCache, logger *zap.Logger, config TokenConfig) *TokenService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiration <= 0 {
		config.Expiration = 24 * time.Hour
	}
	return &TokenService{store: store, cache: cache, logger: logger, config: config}
}

// Issue signs a token bound to the student identity and appends it to the
// student's token list.
func (s *TokenService) Issue(ctx context.Context, studentID string) (string, *models.IssuedToken, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiration)
	jti := uuid.NewString()

	claims := &models.StudentClaims{
		StudentID: studentID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.config.Issuer,
			Subject:   studentID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	issued := &models.IssuedToken{
		ID:        jti,
		StudentID: studentID,
		ExpiresAt: expiresAt,
		CreatedAt: issuedAt,
	}
	if err := s.store.Append(ctx, issued); err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist issued token")
	}

	return signed, issued, nil
}

// Validate parses and verifies an access token, then checks the token list
// for revocation. The active-token lookup is cached so request-path
// validation does not hit the database on every call.
func (s *TokenService) Validate(ctx context.Context, tokenString string) (*models.StudentClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.StudentClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.StudentClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	if err := s.checkActive(ctx, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// Revoke marks the token revoked and drops its cache entry.
func (s *TokenService) Revoke(ctx context.Context, jti, studentID string) error {
	if err := s.store.Revoke(ctx, jti, studentID, time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke token")
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, activeTokenKey(jti)); err != nil {
			s.logger.Warn("failed to invalidate token cache entry", zap.String("jti", jti), zap.Error(err))
		}
	}
	return nil
}

func (s *TokenService) checkActive(ctx context.Context, claims *models.StudentClaims) error {
	key := activeTokenKey(claims.ID)

	if s.cache != nil {
		var active bool
		if err := s.cache.Get(ctx, key, &active); err == nil && active {
			return nil
		}
	}

	if _, err := s.store.FindActive(ctx, claims.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrUnauthorized, "token is revoked or expired")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check token")
	}

	if s.cache != nil {
		ttl := cacheTTLUntil(claims.ExpiresAt.Time)
		if err := s.cache.Set(ctx, key, true, ttl); err != nil {
			s.logger.Warn("failed to cache active token", zap.String("jti", claims.ID), zap.Error(err))
		}
	}

	return nil
}

func activeTokenKey(jti string) string {
	return "token:active:" + jti
}

// cacheTTLUntil caps the cache entry lifetime so a revocation is observed
// within at most five minutes even if the delete is missed.
func cacheTTLUntil(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt)
	if ttl > 5*time.Minute {
		ttl = 5 * time.Minute
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	return ttl
}
