package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/student-records-api/internal/models"
	appErrors "github.com/campusdesk/student-records-api/pkg/errors"
	"github.com/campusdesk/student-records-api/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req *models.RegisterStudentRequest, image *multipart.FileHeader) (*models.Student, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.Student, string, error)
	Logout(ctx context.Context, jti, studentID string) error
}

// AuthHandler exposes registration, login and logout endpoints.
type AuthHandler struct {
	service    authService
	publicPath string
}

// NewAuthHandler builds a new handler. publicPath is the URL prefix under
// which stored profile images are served.
func NewAuthHandler(service authService, publicPath string) *AuthHandler {
	return &AuthHandler{service: service, publicPath: publicPath}
}

// Register godoc
// @Summary Register a new student
// @Tags Auth
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param payload body models.RegisterStudentRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterStudentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
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

// Login godoc
// @Summary Authenticate a student
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	student, token, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	resolveImageURL(c, h.publicPath, student)
	response.JSON(c, http.StatusOK, models.LoginResponse{
		Message: "Login successful.",
		Student: student,
		Token:   token,
	}, nil)
}

// Logout godoc
// @Summary Revoke the presented token
// @Tags Auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Authorization missing. Please authenticate first."))
		return
	}
	if err := h.service.Logout(c.Request.Context(), claims.ID, claims.StudentID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
