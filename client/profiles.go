package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"socialbook/models"
)

type ProfilesAPI struct {
	c *Client
}

// List returns all profiles, or those whose username contains username.
func (p *ProfilesAPI) List(ctx context.Context, username string) ([]models.Profile, error) {
	query := url.Values{}
	if username != "" {
		query.Set("username", username)
	}
	var res []models.Profile
	if err := p.c.do(ctx, http.MethodGet, "/profiles/", query, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *ProfilesAPI) Get(ctx context.Context, id int64) (*models.Profile, error) {
	return p.send(ctx, http.MethodGet, fmt.Sprintf("/profiles/%d/", id), nil)
}

func (p *ProfilesAPI) Update(ctx context.Context, id int64, payload Payload) (*models.Profile, error) {
	return p.send(ctx, http.MethodPut, fmt.Sprintf("/profiles/%d/", id), payload)
}

func (p *ProfilesAPI) PartialUpdate(ctx context.Context, id int64, payload Payload) (*models.Profile, error) {
	return p.send(ctx, http.MethodPatch, fmt.Sprintf("/profiles/%d/", id), payload)
}

func (p *ProfilesAPI) Me(ctx context.Context) (*models.Profile, error) {
	return p.send(ctx, http.MethodGet, "/profiles/me/", nil)
}

func (p *ProfilesAPI) UpdateMe(ctx context.Context, payload Payload) (*models.Profile, error) {
	return p.send(ctx, http.MethodPut, "/profiles/update_me/", payload)
}

func (p *ProfilesAPI) PartialUpdateMe(ctx context.Context, payload Payload) (*models.Profile, error) {
	return p.send(ctx, http.MethodPatch, "/profiles/update_me/", payload)
}

func (p *ProfilesAPI) send(ctx context.Context, method, path string, payload Payload) (*models.Profile, error) {
	var res models.Profile
	if err := p.c.do(ctx, method, path, nil, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
