package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusdesk/student-records-api/internal/models"
	appErrors "github.com/campusdesk/student-records-api/pkg/errors"
)

type mockTokenStore struct {
	appended  []*models.IssuedToken
	revoked   []string
	active    map[string]*models.IssuedToken
	appendErr error
	findErr   error
}

func (m *mockTokenStore) Append(ctx context.Context, token *models.IssuedToken) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	if m.active == nil {
		m.active = make(map[string]*models.IssuedToken)
	}
	m.appended = append(m.appended, token)
	m.active[token.ID] = token
	return nil
}

func (m *mockTokenStore) FindActive(ctx context.Context, jti string) (*models.IssuedToken, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if token, ok := m.active[jti]; ok {
		return token, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTokenStore) Revoke(ctx context.Context, jti, studentID string, revokedAt time.Time) error {
	m.revoked = append(m.revoked, jti)
	delete(m.active, jti)
	return nil
}

type mockTokenCache struct {
	entries map[string]interface{}
	deleted []string
	getErr  error
}

func (m *mockTokenCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	v, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if b, ok := dest.(*bool); ok {
		*b = v.(bool)
	}
	return nil
}

func (m *mockTokenCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string]interface{})
	}
	m.entries[key] = value
	return nil
}

func (m *mockTokenCache) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.entries, key)
	return nil
}

func testTokenConfig() TokenConfig {
	return TokenConfig{Secret: "test_secret", Expiration: time.Hour, Issuer: "student-records-api"}
}

func TestTokenIssueAndValidate(t *testing.T) {
	store := &mockTokenStore{}
	cache := &mockTokenCache{}
	svc := NewTokenService(store, cache, zap.NewNop(), testTokenConfig())

	signed, issued, err := svc.Issue(context.Background(), "id-1")
	require.NoError(t, err)
	require.Len(t, store.appended, 1)
	assert.Equal(t, "id-1", issued.StudentID)

	claims, err := svc.Validate(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "id-1", claims.StudentID)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenValidateWrongSecret(t *testing.T) {
	store := &mockTokenStore{}
	issuer := NewTokenService(store, nil, zap.NewNop(), testTokenConfig())
	verifier := NewTokenService(store, nil, zap.NewNop(), TokenConfig{Secret: "other_secret", Expiration: time.Hour})

	signed, _, err := issuer.Issue(context.Background(), "id-1")
	require.NoError(t, err)

	_, err = verifier.Validate(context.Background(), signed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestTokenValidateTampered(t *testing.T) {
	svc := NewTokenService(&mockTokenStore{}, nil, zap.NewNop(), testTokenConfig())

	signed, _, err := svc.Issue(context.Background(), "id-1")
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), signed+"x")
	require.Error(t, err)

	_, err = svc.Validate(context.Background(), "not-a-jwt")
	require.Error(t, err)
}

func TestTokenValidateExpired(t *testing.T) {
	store := &mockTokenStore{}
	svc := NewTokenService(store, nil, zap.NewNop(), TokenConfig{Secret: "test_secret", Expiration: -time.Minute})

	signed, _, err := svc.Issue(context.Background(), "id-1")
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), signed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestTokenValidateRevoked(t *testing.T) {
	store := &mockTokenStore{}
	svc := NewTokenService(store, nil, zap.NewNop(), testTokenConfig())

	signed, issued, err := svc.Issue(context.Background(), "id-1")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), issued.ID, "id-1"))
	assert.Contains(t, store.revoked, issued.ID)

	_, err = svc.Validate(context.Background(), signed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestTokenRevokeInvalidatesCache(t *testing.T) {
	store := &mockTokenStore{}
	cache := &mockTokenCache{}
	svc := NewTokenService(store, cache, zap.NewNop(), testTokenConfig())

	signed, issued, err := svc.Issue(context.Background(), "id-1")
	require.NoError(t, err)

	// first validation populates the cache
	_, err = svc.Validate(context.Background(), signed)
	require.NoError(t, err)
	assert.Contains(t, cache.entries, "token:active:"+issued.ID)

	require.NoError(t, svc.Revoke(context.Background(), issued.ID, "id-1"))
	assert.Contains(t, cache.deleted, "token:active:"+issued.ID)
}

func TestTokenValidateCacheHitSkipsStore(t *testing.T) {
	store := &mockTokenStore{}
	cache := &mockTokenCache{}
	svc := NewTokenService(store, cache, zap.NewNop(), testTokenConfig())

	signed, issued, err := svc.Issue(context.Background(), "id-1")
	require.NoError(t, err)

	cache.entries = map[string]interface{}{"token:active:" + issued.ID: true}
	store.findErr = sql.ErrConnDone

	_, err = svc.Validate(context.Background(), signed)
	assert.NoError(t, err, "cache hit must not consult the store")
}
