package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole aborts with 403 unless the authenticated user has requiredRole.
// It must run after OAuth2Auth.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(UserIDKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
			return
		}

		userRole, _ := c.Get(UserRoleKey)
		role, ok := userRole.(string)
		if !ok || role != requiredRole {
			log.WithField("user_id", userID).Warn("Insufficient permissions")
			c.AbortWithStatusJSON(http.StatusForbidden,
				models.NewAPIError(models.ErrForbidden, "Insufficient permissions", map[string]interface{}{
					"required_role": requiredRole,
				}))
			return
		}

		c.Next()
	}
}
