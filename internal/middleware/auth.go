package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mtakagi/discussion-board-api/internal/constants"
	"github.com/mtakagi/discussion-board-api/internal/database"
	apierrors "github.com/mtakagi/discussion-board-api/internal/errors"
	"github.com/mtakagi/discussion-board-api/internal/models"
	"github.com/mtakagi/discussion-board-api/internal/utils"
)

// RequireAuth validates the Bearer token and resolves the acting user into
// the request context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierrors.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apierrors.Unauthorized(c, "Invalid authorization format")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		var actor models.User
		if err := database.GetDB().First(&actor, claims.UserID).Error; err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActor, actor)
		c.Next()
	}
}

// RequireSuperuser aborts unless the acting user holds the superuser level.
// Must run after RequireAuth.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !actor.IsSuperuser() {
			apierrors.Forbidden(c, "Superuser privilege required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetActor retrieves the authenticated user from context
func GetActor(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return models.User{}, false
	}

	actor, ok := value.(models.User)
	if !ok {
		return models.User{}, false
	}
	return actor, true
}
