package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/student-records-api/internal/models"
)

func TestTokenRepositoryAppend(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTokenRepository(db)

	mock.ExpectExec("INSERT INTO student_tokens").
		WillReturnResult(sqlmock.NewResult(0, 1))

	token := &models.IssuedToken{ID: "jti-1", StudentID: "id-1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Append(context.Background(), token))
	assert.False(t, token.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryFindActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTokenRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "expires_at", "revoked", "revoked_at", "created_at"}).
		AddRow("jti-1", "id-1", time.Now().Add(time.Hour), false, nil, time.Now())
	mock.ExpectQuery("SELECT .* FROM student_tokens WHERE id").
		WithArgs("jti-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	token, err := repo.FindActive(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", token.StudentID)
}

func TestTokenRepositoryFindActiveRevoked(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTokenRepository(db)

	mock.ExpectQuery("SELECT .* FROM student_tokens WHERE id").
		WithArgs("jti-gone", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActive(context.Background(), "jti-gone")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestTokenRepositoryRevoke(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTokenRepository(db)

	mock.ExpectExec("UPDATE student_tokens SET revoked = true").
		WithArgs("jti-1", "id-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Revoke(context.Background(), "jti-1", "id-1", time.Now().UTC()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
