package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/student-records-api/internal/models"
	appErrors "github.com/campusdesk/student-records-api/pkg/errors"
	"github.com/campusdesk/student-records-api/pkg/response"
)

type studentService interface {
	Register(ctx context.Context, req *models.RegisterStudentRequest, image *multipart.FileHeader) (*models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error)
	Update(ctx context.Context, id string, req *models.UpdateStudentRequest, image *multipart.FileHeader) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

// StudentHandler exposes the record management endpoints.
type StudentHandler struct {
	service    studentService
	publicPath string
}

// NewStudentHandler builds a new handler.
func NewStudentHandler(service studentService, publicPath string) *StudentHandler {
	return &StudentHandler{service: service, publicPath: publicPath}
}

// List godoc
// @Summary List students
// @Tags Students
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param search query string false "Case-insensitive match on name or email"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Search: c.Query("search"),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 10),
	}
	students, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	for i := range students {
		resolveImageURL(c, h.publicPath, &students[i])
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get a student by ID
// @Tags Students
// @Security BearerAuth
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	resolveImageURL(c, h.publicPath, student)
	response.JSON(c, http.StatusOK, student, nil)
}

// Create godoc
// @Summary Create a student record
// @Tags Students
// @Security BearerAuth
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param payload body models.RegisterStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req models.RegisterStudentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	image, _ := c.FormFile("profile_image")

	student, err := h.service.Register(c.Request.Context(), &req, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	resolveImageURL(c, h.publicPath, student)
	response.Created(c, student)
}

// Update godoc
// @Summary Update a student record
// @Tags Students
// @Security BearerAuth
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req models.UpdateStudentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	image, _ := c.FormFile("profile_image")

	student, err := h.service.Update(c.Request.Context(), c.Param("id"), &req, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	resolveImageURL(c, h.publicPath, student)
	response.JSON(c, http.StatusOK, student, nil)
}

// Delete godoc
// @Summary Delete a student record
// @Tags Students
// @Security BearerAuth
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Student deleted successfully.", nil)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
