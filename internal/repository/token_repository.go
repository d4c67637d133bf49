package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusdesk/student-records-api/internal/models"
)

// TokenRepository manages the per-student issued token list.
type TokenRepository struct {
	db *sqlx.DB
}

// NewTokenRepository constructs a TokenRepository.
func NewTokenRepository(db *sqlx.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Append records a newly issued token for a student.
func (r *TokenRepository) Append(ctx context.Context, token *models.IssuedToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO student_tokens (id, student_id, expires_at, revoked, revoked_at, created_at)
        VALUES (:id, :student_id, :expires_at, :revoked, :revoked_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("append token: %w", err)
	}
	return nil
}

// FindActive fetches a token by jti when it is neither revoked nor expired.
// Returns sql.ErrNoRows otherwise.
func (r *TokenRepository) FindActive(ctx context.Context, jti string) (*models.IssuedToken, error) {
	const query = `SELECT id, student_id, expires_at, revoked, revoked_at, created_at
        FROM student_tokens WHERE id = $1 AND revoked = false AND expires_at > $2`
	var token models.IssuedToken
	if err := r.db.GetContext(ctx, &token, query, jti, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &token, nil
}

// Revoke marks the token revoked for the given student.
func (r *TokenRepository) Revoke(ctx context.Context, jti, studentID string, revokedAt time.Time) error {
	const query = `UPDATE student_tokens SET revoked = true, revoked_at = $3 WHERE id = $1 AND student_id = $2`
	if _, err := r.db.ExecContext(ctx, query, jti, studentID, revokedAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
