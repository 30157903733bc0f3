package handlers

import (
	"net/http"

	"socialbook/api/middleware"
	"socialbook/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotificationsWS - websocket, в который пушатся новые уведомления пользователя
func (h *Handler) NotificationsWS(c *gin.Context) {
	user := middleware.CurrentUser(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// приветствие до регистрации: после Add писать может только менеджер
	if err = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"connected"}`)); err != nil {
		return
	}
	h.WS.Add(user.Username, conn)
	middleware.WSConnected()
	defer func() {
		h.WS.Remove(user.Username, conn)
		middleware.WSDisconnected()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			logger.Debug("websocket closed", zap.String("username", user.Username), zap.Error(err))
			break
		}
	}
}
