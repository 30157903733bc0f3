package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"socialbook/api/middleware"
	"socialbook/logger"
	"socialbook/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler держит зависимости всех REST-обработчиков
type Handler struct {
	Users         *services.UserService
	Sessions      services.SessionStore
	Profiles      *services.ProfileService
	Posts         *services.PostService
	Comments      *services.CommentService
	Follows       *services.FollowService
	Blocks        *services.BlockService
	Notifications *services.NotificationService
	WS            *services.WSConnManager
	// SecureCookies marks the session cookie Secure; enable behind TLS.
	SecureCookies bool
}

// viewer describes the authenticated caller; media URLs are built from the request host.
func (h *Handler) viewer(c *gin.Context) services.Viewer {
	v := services.Viewer{MediaBase: mediaBase(c.Request)}
	if user := middleware.CurrentUser(c); user != nil {
		v.UserID = user.ID
		v.Username = user.Username
		v.IsSuperuser = user.IsSuperuser
	}
	return v
}

func mediaBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/media/"
}

var badRequestErrors = []error{
	services.ErrAllFieldsRequired,
	services.ErrCredentialsRequired,
	services.ErrPasswordMismatch,
	services.ErrEmailTaken,
	services.ErrUsernameTaken,
	services.ErrFollowUserRequired,
	services.ErrFollowSelf,
	services.ErrBlockedRequired,
	services.ErrBlockSelf,
	services.ErrImageRequired,
	services.ErrCommentBodyEmpty,
	services.ErrInvalidInput,
}

// respondError переводит ошибки сервисов в ответы в формате DRF
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": services.ErrNotFound.Error()})
		return
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"detail": services.ErrPermissionDenied.Error()})
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	logger.Error("request failed",
		zap.String("method", c.Request.Method), zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": services.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formUpload opens an uploaded file; nil when the field is absent.
func formUpload(c *gin.Context, field string) (*services.Upload, io.Closer, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	var f multipart.File
	if f, err = header.Open(); err != nil {
		return nil, nil, err
	}
	return &services.Upload{Filename: header.Filename, Content: f}, f, nil
}

// formString returns a pointer to a multipart field value, or nil when absent.
func formString(c *gin.Context, field string) *string {
	if v, ok := c.GetPostForm(field); ok {
		return &v
	}
	return nil
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
