package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/student-records-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "phone_number", "gender", "enrollment_number", "branch", "semester", "address", "profile_image", "created_at", "updated_at"}).
		AddRow("id-1", "Alice", "alice@example.com", "$2a$10$hash", "9876543210", "female", "ENR2025AB12", "cse", 3, "12 College Road", "", time.Now(), time.Now())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{Name: "Alice", Email: "alice@example.com", PasswordHash: "h", PhoneNumber: "9876543210", Gender: "female", EnrollmentNumber: "ENR2025AB12", Branch: "cse", Semester: 3}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateDuplicateEnrollment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "students_enrollment_number_key"})

	err := repo.Create(context.Background(), &models.Student{Name: "Bob", EnrollmentNumber: "ENR2025AB12"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateEnrollment))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "students_email_key"})

	err := repo.Create(context.Background(), &models.Student{Name: "Bob", Email: "alice@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateEmail))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+studentColumns+" FROM students WHERE id = $1")).
		WithArgs("id-1").
		WillReturnRows(studentRows())

	student, err := repo.FindByID(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", student.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT .* FROM students WHERE id").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestStudentRepositoryListWithSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+studentColumns+" FROM students WHERE 1=1 AND (LOWER(name) LIKE $1 OR LOWER(email) LIKE $1) ORDER BY created_at DESC LIMIT 5 OFFSET 5")).
		WithArgs("%ali%").
		WillReturnRows(studentRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE 1=1 AND (LOWER(name) LIKE $1 OR LOWER(email) LIKE $1)")).
		WithArgs("%ali%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Search: "Ali", Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 12, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+studentColumns+" FROM students WHERE 1=1 ORDER BY created_at DESC LIMIT 10 OFFSET 0")).
		WillReturnRows(studentRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, total, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestStudentRepositoryUpdateDuplicateEnrollment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Update(context.Background(), &models.Student{ID: "id-1"})
	assert.True(t, errors.Is(err, ErrDuplicateEnrollment))
}

func TestStudentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "id-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
