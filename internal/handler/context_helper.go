package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sreyaslbs/todayinclass/internal/middleware"
	"github.com/sreyaslbs/todayinclass/internal/models"
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

func principalFromContext(c *gin.Context) (models.Principal, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		return models.Principal{}, false
	}
	return claims.Principal(), true
}
