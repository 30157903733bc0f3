package client

import (
	"context"
	"net/http"

	"socialbook/models"
)

type AuthAPI struct {
	c *Client
}

func (a *AuthAPI) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	var res models.AuthResponse
	if err := a.c.do(ctx, http.MethodPost, "/auth/signup/", nil, JSON(req), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *AuthAPI) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var res models.AuthResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := a.c.do(ctx, http.MethodPost, "/auth/login/", nil, JSON(req), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.c.do(ctx, http.MethodPost, "/auth/logout/", nil, nil, nil)
}

// UserInfo - "кто я" для текущей cookie-сессии
func (a *AuthAPI) UserInfo(ctx context.Context) (*models.AuthResponse, error) {
	var res models.AuthResponse
	if err := a.c.do(ctx, http.MethodGet, "/auth/user/", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
