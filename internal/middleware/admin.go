package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chitieu/internal/models"

	"gorm.io/gorm"
)

// AdminRequired gates a route group to administrators. The caller's role is
// re-read from the database on every request rather than trusted from token
// claims, so a demoted admin loses access immediately.
func AdminRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Authentication required"}})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID.(string)).Error; err != nil || user.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				gin.H{"error": gin.H{"code": "ADMIN_REQUIRED", "message": "Admin access required"}})
			return
		}

		c.Next()
	}
}
