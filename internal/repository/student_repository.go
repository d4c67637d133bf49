package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campusdesk/student-records-api/internal/models"
)

// Unique-constraint violations surfaced as typed errors so the service layer
// can answer with a conflict instead of a generic failure.
var (
	ErrDuplicateEnrollment = errors.New("enrollment number already exists")
	ErrDuplicateEmail      = errors.New("email already exists")
)

const pqUniqueViolation = "23505"

const studentColumns = "id, name, email, password_hash, phone_number, gender, enrollment_number, branch, semester, address, profile_image, created_at, updated_at"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, name, email, password_hash, phone_number, gender, enrollment_number, branch, semester, address, profile_image, created_at, updated_at)
        VALUES (:id, :name, :email, :password_hash, :phone_number, :gender, :enrollment_number, :branch, :semester, :address, :profile_image, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return duplicateError(pqErr)
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func duplicateError(pqErr *pq.Error) error {
	if strings.Contains(pqErr.Constraint, "email") {
		return ErrDuplicateEmail
	}
	return ErrDuplicateEnrollment
}

// FindByID fetches a student by ID. Returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEmail fetches a student by email. Returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE email = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// List returns students matching the filter ordered by creation time
// descending, along with the total count of matches.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT %s FROM students %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		studentColumns, where, limit, offset)

	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM students %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// Update persists the full student row.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, email = :email, password_hash = :password_hash, phone_number = :phone_number,
        gender = :gender, enrollment_number = :enrollment_number, branch = :branch, semester = :semester,
        address = :address, profile_image = :profile_image, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return duplicateError(pqErr)
		}
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes the student row. Issued tokens cascade with it.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM students WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
