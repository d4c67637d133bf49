package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/student-records-api/internal/models"
	appErrors "github.com/campusdesk/student-records-api/pkg/errors"
	"github.com/campusdesk/student-records-api/pkg/response"
)

// ContextStudentKey is the gin context key storing the validated claims.
const ContextStudentKey = "currentStudent"

// TokenValidator checks an access token and returns its claims.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*models.StudentClaims, error)
}

// JWT protects routes by requiring a valid, unrevoked access token. When a
// student record is deleted its tokens are removed with it, so a stale token
// stops working without an extra lookup here.
func JWT(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Authorization missing. Please authenticate first."))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := tokens.Validate(c.Request.Context(), parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextStudentKey, claims)
		c.Next()
	}
}
