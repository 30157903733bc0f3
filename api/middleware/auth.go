package middleware

import (
	"net/http"

	"socialbook/logger"
	"socialbook/models"
	"socialbook/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	userKey      = "user"
	sessionIDKey = "session_id"
)

// SessionAuth - аутентификация по cookie sessionid. Без сессии отвечает 401 в формате DRF.
func SessionAuth(store services.SessionStore, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(services.SessionCookieName)
		if err != nil || sid == "" {
			unauthorized(c)
			return
		}
		userID, err := store.Lookup(c.Request.Context(), sid)
		if err != nil {
			if !services.IsSessionMissing(err) {
				logger.Error("session lookup failed", zap.Error(err))
			}
			unauthorized(c)
			return
		}
		user, err := users.Get(c.Request.Context(), userID)
		if err != nil {
			logger.Warn("session points to missing user", zap.Int64("user_id", userID), zap.Error(err))
			unauthorized(c)
			return
		}
		c.Set(userKey, user)
		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
}

// CurrentUser returns the user set by SessionAuth.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
