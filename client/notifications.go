package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"socialbook/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type NotificationsAPI struct {
	c *Client
}

// List returns the current user's notifications, newest first.
func (a *NotificationsAPI) List(ctx context.Context) ([]models.Notification, error) {
	var res []models.Notification
	if err := a.c.do(ctx, http.MethodGet, "/notifications/", nil, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *NotificationsAPI) Get(ctx context.Context, id int64) (*models.Notification, error) {
	var res models.Notification
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/notifications/%d/", id), nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *NotificationsAPI) MarkRead(ctx context.Context, id int64) error {
	return a.c.do(ctx, http.MethodPost, fmt.Sprintf("/notifications/%d/mark_read/", id), nil, nil, nil)
}

func (a *NotificationsAPI) MarkAllRead(ctx context.Context) error {
	return a.c.do(ctx, http.MethodPost, "/notifications/mark_all_read/", nil, nil, nil)
}

// Stream подписывается на websocket-пуш новых уведомлений. Канал закрывается,
// когда ctx отменен или соединение оборвалось.
func (a *NotificationsAPI) Stream(ctx context.Context) (<-chan models.NotificationEvent, error) {
	wsURL := "ws" + strings.TrimPrefix(a.c.baseURL, "http") + "/ws/notifications/"
	header := http.Header{}
	for _, cookie := range a.c.Cookies() {
		header.Add("Cookie", cookie.Name+"="+cookie.Value)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized && a.c.nav != nil {
			a.c.nav.Navigate(a.c.loginPath)
		}
		return nil, fmt.Errorf("failed to open notification stream: %w", err)
	}

	events := make(chan models.NotificationEvent)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()
	go func() {
		defer close(done)
		defer close(events)
		for {
			var event models.NotificationEvent
			if err := conn.ReadJSON(&event); err != nil {
				a.c.logger().Debug("notification stream closed", zap.Error(err))
				return
			}
			if event.Event != models.EventNotificationCreated {
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}
