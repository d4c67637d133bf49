package service

import (
	"context"
	"database/sql"
	"errors"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/campusdesk/student-records-api/internal/models"
	"github.com/campusdesk/student-records-api/internal/repository"
	"github.com/campusdesk/student-records-api/internal/validation"
	"github.com/campusdesk/student-records-api/pkg/crypto"
	appErrors "github.com/campusdesk/student-records-api/pkg/errors"
	"github.com/campusdesk/student-records-api/pkg/storage"
)

type studentStore interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type tokenIssuer interface {
	Issue(ctx context.Context, studentID string) (string, *models.IssuedToken, error)
	Revoke(ctx context.Context, jti, studentID string) error
}

// A syntactically valid digest compared against when the email does not
// resolve, so a failed lookup costs the same as a failed password.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// StudentService orchestrates the record lifecycle: register, login, get,
// list, update and delete.
type StudentService struct {
	repo      studentStore
	images    *storage.ImageStore
	tokens    tokenIssuer
	validator *validation.Validator
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentStore, images *storage.ImageStore, tokens tokenIssuer, v *validation.Validator, logger *zap.Logger) *StudentService {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, images: images, tokens: tokens, validator: v, logger: logger}
}

// Register validates the payload, hashes the credential and persists a new
// student record. A stored image is cleaned up when the insert fails.
func (s *StudentService) Register(ctx context.Context, req *models.RegisterStudentRequest, image *multipart.FileHeader) (*models.Student, error) {
	violations := s.validator.Register(req)
	violations = append(violations, s.validator.Image(image)...)
	if len(violations) > 0 {
		return nil, appErrors.Validation(violations)
	}

	digest, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	student := &models.Student{
		Name:             req.Name,
		Email:            req.Email,
		PasswordHash:     digest,
		PhoneNumber:      req.PhoneNumber,
		Gender:           req.Gender,
		EnrollmentNumber: req.EnrollmentNumber,
		Branch:           req.Branch,
		Semester:         req.Semester,
		Address:          req.Address,
	}

	if image != nil {
		stored, err := s.storeImage(image)
		if err != nil {
			return nil, err
		}
		student.ProfileImage = stored
	}

	if err := s.repo.Create(ctx, student); err != nil {
		s.discardImage(student.ProfileImage)
		if conflict := conflictFor(err); conflict != nil {
			return nil, conflict
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	return student, nil
}

// Login authenticates by email and password. A missing record and a failed
// password verification yield the identical outcome.
func (s *StudentService) Login(ctx context.Context, req *models.LoginRequest) (*models.Student, string, error) {
	if violations := s.validator.Login(req); len(violations) > 0 {
		return nil, "", appErrors.Validation(violations)
	}

	student, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			crypto.VerifyPassword(req.Password, dummyDigest)
			return nil, "", appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	if !crypto.VerifyPassword(req.Password, student.PasswordHash) {
		return nil, "", appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	token, _, err := s.tokens.Issue(ctx, student.ID)
	if err != nil {
		return nil, "", err
	}

	return student, token, nil
}

// Get returns the record by ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// List returns a page of students matching the filter, newest first. An empty
// result set reports NotFound.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 10
	}

	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if len(students) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "No students found")
	}

	pages := (total + filter.Limit - 1) / filter.Limit
	pagination := &models.Pagination{Page: filter.Page, Limit: filter.Limit, Total: total, Pages: pages}
	return students, pagination, nil
}

// Update applies the present fields to an existing record. When a new image
// replaces an old one, the old blob is deleted only after the row update
// succeeds.
func (s *StudentService) Update(ctx context.Context, id string, req *models.UpdateStudentRequest, image *multipart.FileHeader) (*models.Student, error) {
	violations := s.validator.Update(req)
	violations = append(violations, s.validator.Image(image)...)
	if len(violations) > 0 {
		return nil, appErrors.Validation(violations)
	}

	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	applyUpdate(student, req)
	if req.Password != nil {
		digest, err := crypto.HashPassword(*req.Password)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		student.PasswordHash = digest
	}

	oldImage := ""
	if image != nil {
		stored, err := s.storeImage(image)
		if err != nil {
			return nil, err
		}
		oldImage = student.ProfileImage
		student.ProfileImage = stored
	}

	if err := s.repo.Update(ctx, student); err != nil {
		if image != nil {
			s.discardImage(student.ProfileImage)
		}
		if conflict := conflictFor(err); conflict != nil {
			return nil, conflict
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	// The replaced blob is released only after the update is durable.
	// A failed delete leaves an orphan, never a broken record.
	if oldImage != "" && oldImage != student.ProfileImage {
		if err := s.images.Delete(oldImage); err != nil {
			s.logger.Warn("failed to delete replaced profile image", zap.String("file", oldImage), zap.Error(err))
		}
	}

	return student, nil
}

// Delete removes the record and releases its blob.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}

	if student.ProfileImage != "" {
		if err := s.images.Delete(student.ProfileImage); err != nil {
			s.logger.Warn("failed to delete profile image", zap.String("file", student.ProfileImage), zap.Error(err))
		}
	}

	return nil
}

// Logout revokes the presented token.
func (s *StudentService) Logout(ctx context.Context, jti, studentID string) error {
	return s.tokens.Revoke(ctx, jti, studentID)
}

func (s *StudentService) storeImage(image *multipart.FileHeader) (string, error) {
	src, err := image.Open()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	defer src.Close() //nolint:errcheck

	stored, err := s.images.Save(storage.NewFilename(image.Filename), src)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload")
	}
	return stored, nil
}

func (s *StudentService) discardImage(filename string) {
	if filename == "" {
		return
	}
	if err := s.images.Delete(filename); err != nil {
		s.logger.Warn("failed to discard stored image", zap.String("file", filename), zap.Error(err))
	}
}

func conflictFor(err error) *appErrors.Error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEnrollment):
		return appErrors.Clone(appErrors.ErrConflict, "enrollment number already exists")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return appErrors.Clone(appErrors.ErrConflict, "email already exists")
	}
	return nil
}

func applyUpdate(student *models.Student, req *models.UpdateStudentRequest) {
	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		student.PhoneNumber = *req.PhoneNumber
	}
	if req.Gender != nil {
		student.Gender = *req.Gender
	}
	if req.EnrollmentNumber != nil {
		student.EnrollmentNumber = *req.EnrollmentNumber
	}
	if req.Branch != nil {
		student.Branch = *req.Branch
	}
	if req.Semester != nil {
		student.Semester = *req.Semester
	}
	if req.Address != nil {
		student.Address = *req.Address
	}
}
