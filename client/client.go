// Package client is the HTTP wrapper and typed API of the Social Book backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"socialbook/logger"
	"socialbook/nav"

	"go.uber.org/zap"
)

const DefaultLoginPath = nav.Login

// RequestInterceptor may modify or reject an outgoing request.
type RequestInterceptor func(req *http.Request) error

type Option func(*Client)

// WithHTTPClient replaces the underlying client. A client without a jar gets one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithNavigator(n nav.Navigator) Option {
	return func(c *Client) { c.nav = n }
}

func WithLoginPath(path string) Option {
	return func(c *Client) { c.loginPath = path }
}

func WithRequestInterceptor(i RequestInterceptor) Option {
	return func(c *Client) { c.interceptors = append(c.interceptors, i) }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// Client - единственный настроенный HTTP-клиент: base URL, cookie-сессия, JSON по умолчанию.
// На 401 отправляет пользователя на страницу логина и все равно возвращает ошибку.
type Client struct {
	baseURL      string
	http         *http.Client
	nav          nav.Navigator
	loginPath    string
	interceptors []RequestInterceptor
	log          *zap.Logger

	Auth          *AuthAPI
	Profiles      *ProfilesAPI
	Posts         *PostsAPI
	Comments      *CommentsAPI
	Followers     *FollowersAPI
	Notifications *NotificationsAPI
	Blocks        *BlocksAPI
}

func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		loginPath: DefaultLoginPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}

	c.Auth = &AuthAPI{c: c}
	c.Profiles = &ProfilesAPI{c: c}
	c.Posts = &PostsAPI{c: c}
	c.Comments = &CommentsAPI{c: c}
	c.Followers = &FollowersAPI{c: c}
	c.Notifications = &NotificationsAPI{c: c}
	c.Blocks = &BlocksAPI{c: c}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// Cookies returns the cookies the jar would send to the API.
func (c *Client) Cookies() []*http.Cookie {
	u, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return nil
	}
	return c.http.Jar.Cookies(u)
}

func (c *Client) logger() *zap.Logger {
	if c.log != nil {
		return c.log
	}
	return logger.L()
}

// APIError is any non-2xx response.
type APIError struct {
	StatusCode int
	Body       []byte
	// Message is the "error" field of a JSON body, else its "detail" field.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: body}
	var fields map[string]interface{}
	if json.Unmarshal(body, &fields) == nil {
		if msg, ok := fields["error"].(string); ok && msg != "" {
			e.Message = msg
		} else if msg, ok := fields["detail"].(string); ok {
			e.Message = msg
		}
	}
	return e
}

// ErrorMessage returns the server's message carried by err, or fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do отправляет запрос; out == nil значит, что тело ответа не нужно
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload Payload, out interface{}) error {
	var (
		body        io.Reader
		contentType = "application/json"
	)
	if payload != nil {
		encoded, ct, err := payload.encode()
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body, contentType = encoded, ct
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	for _, intercept := range c.interceptors {
		if err = intercept(req); err != nil {
			return err
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unavailable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger().Debug("unauthorized, redirecting to login", zap.String("method", method), zap.String("path", path))
		if c.nav != nil {
			c.nav.Navigate(c.loginPath)
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}
