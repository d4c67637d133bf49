package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/student-records-api/internal/middleware"
	"github.com/campusdesk/student-records-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.StudentClaims {
	value, ok := c.Get(middleware.ContextStudentKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.StudentClaims)
	if !ok {
		return nil
	}
	return claims
}

// resolveImageURL fills the public URL for the stored blob, derived from the
// scheme and host the client used to reach us.
func resolveImageURL(c *gin.Context, publicPath string, student *models.Student) {
	if student == nil || student.ProfileImage == "" {
		return
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	student.ProfileImageURL = fmt.Sprintf("%s://%s%s/%s", scheme, c.Request.Host, publicPath, student.ProfileImage)
}
