package middleware

import (
	"net/http"
	"strconv"

	"linkden/internal/db"
	"linkden/internal/models"

	"github.com/gin-gonic/gin"
)

const CurrentUserKey = "user"

// Identity resolves the caller from the X-User-ID header set by the
// upstream auth layer. That layer has already verified the identity; here
// we only require that it is present and names a real user. The engine
// itself never reads ambient state, every operation takes the id as an
// argument.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
			return
		}

		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid caller identity"})
			return
		}

		var user models.User
		if result := db.DB.First(&user, uint(id)); result.Error != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown caller identity"})
			return
		}

		c.Set(CurrentUserKey, &user)
		c.Next()
	}
}

// CurrentUser returns the resolved caller. Only valid behind Identity.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(CurrentUserKey).(*models.User)
}
