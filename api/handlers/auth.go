package handlers

import (
	"net/http"

	"socialbook/api/middleware"
	"socialbook/logger"
	"socialbook/models"
	"socialbook/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) startSession(c *gin.Context, user *models.User) error {
	sid, err := h.Sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.SessionCookieName, sid, int(services.SessionTTL.Seconds()), "/", "", h.SecureCookies, true)
	return nil
}

func (h *Handler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrAllFieldsRequired.Error()})
		return
	}
	user, _, err := h.Users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if err = h.startSession(c, user); err != nil {
		respondError(c, err)
		return
	}
	profile, err := h.Profiles.ByUserID(c.Request.Context(), h.viewer(c), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.AuthResponse{Message: "User created successfully", User: user, Profile: profile})
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrCredentialsRequired.Error()})
		return
	}
	user, err := h.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if err = h.startSession(c, user); err != nil {
		respondError(c, err)
		return
	}
	profile, err := h.Profiles.ByUserID(c.Request.Context(), h.viewer(c), user.ID)
	if err != nil {
		logger.Warn("user without profile logged in", zap.String("username", user.Username), zap.Error(err))
		profile = nil
	}
	c.JSON(http.StatusOK, models.AuthResponse{Message: "Login successful", User: user, Profile: profile})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Sessions.Delete(c.Request.Context(), middleware.SessionID(c)); err != nil {
		logger.Warn("failed to delete session", zap.Error(err))
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.SessionCookieName, "", -1, "/", "", h.SecureCookies, true)
	c.JSON(http.StatusOK, models.StatusResponse{Message: "Logout successful"})
}

// UserInfo - "кто я": пользователь текущей сессии и его профиль
func (h *Handler) UserInfo(c *gin.Context) {
	user := middleware.CurrentUser(c)
	profile, err := h.Profiles.ByUserID(c.Request.Context(), h.viewer(c), user.ID)
	if err != nil {
		profile = nil
	}
	c.JSON(http.StatusOK, models.AuthResponse{User: user, Profile: profile})
}
