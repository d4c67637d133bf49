package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/student-records-api/internal/models"
	appErrors "github.com/campusdesk/student-records-api/pkg/errors"
)

type fakeValidator struct {
	claims *models.StudentClaims
	err    error
	seen   string
}

func (f *fakeValidator) Validate(ctx context.Context, token string) (*models.StudentClaims, error) {
	f.seen = token
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func runJWT(t *testing.T, validator *fakeValidator, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	reached := false

	r := gin.New()
	r.GET("/protected", JWT(validator), func(c *gin.Context) {
		reached = true
		_, ok := c.Get(ContextStudentKey)
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w, reached
}

func TestJWTMissingHeader(t *testing.T) {
	w, reached := runJWT(t, &fakeValidator{}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}

func TestJWTMalformedHeader(t *testing.T) {
	w, reached := runJWT(t, &fakeValidator{}, "Token abc")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}

func TestJWTInvalidToken(t *testing.T) {
	validator := &fakeValidator{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")}
	w, reached := runJWT(t, validator, "Bearer bad-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
	assert.Equal(t, "bad-token", validator.seen)
}

func TestJWTValidToken(t *testing.T) {
	validator := &fakeValidator{claims: &models.StudentClaims{StudentID: "id-1"}}
	w, reached := runJWT(t, validator, "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
}
