package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-processing-api/internal/models"
)

// AuditOrigin carries the client address and user agent on the request
// context so audit entries written further down can record them.
func AuditOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := models.RequestOrigin{
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		}
		c.Request = c.Request.WithContext(models.WithRequestOrigin(c.Request.Context(), origin))
		c.Next()
	}
}
