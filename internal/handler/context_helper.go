package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-processing-api/internal/middleware"
	"github.com/noah-isme/result-processing-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func actorFromContext(c *gin.Context) models.Actor {
	return models.ActorFromClaims(claimsFromContext(c))
}

// semesterParam accepts "first" and "FIRST" as well as "First".
func semesterParam(raw string) models.Semester {
	raw = strings.TrimSpace(raw)
	for _, semester := range models.Semesters {
		if strings.EqualFold(raw, string(semester)) {
			return semester
		}
	}
	return models.Semester(raw)
}
