package client

import (
	"context"
	"net/http"
	"net/url"

	"socialbook/models"
)

type PostsAPI struct {
	c *Client
}

// List returns all posts, or only user's when user is not empty; newest first.
func (p *PostsAPI) List(ctx context.Context, user string) ([]models.Post, error) {
	query := url.Values{}
	if user != "" {
		query.Set("user", user)
	}
	return p.list(ctx, "/posts/", query)
}

func (p *PostsAPI) Get(ctx context.Context, id string) (*models.Post, error) {
	return p.send(ctx, http.MethodGet, "/posts/"+url.PathEscape(id)+"/", nil)
}

// Create uploads image with caption as multipart.
func (p *PostsAPI) Create(ctx context.Context, caption string, image Upload) (*models.Post, error) {
	form := NewForm().File("image", image).Set("caption", caption)
	return p.send(ctx, http.MethodPost, "/posts/", form)
}

func (p *PostsAPI) Update(ctx context.Context, id string, payload Payload) (*models.Post, error) {
	return p.send(ctx, http.MethodPut, "/posts/"+url.PathEscape(id)+"/", payload)
}

func (p *PostsAPI) PartialUpdate(ctx context.Context, id string, payload Payload) (*models.Post, error) {
	return p.send(ctx, http.MethodPatch, "/posts/"+url.PathEscape(id)+"/", payload)
}

func (p *PostsAPI) Delete(ctx context.Context, id string) error {
	return p.c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id)+"/", nil, nil, nil)
}

func (p *PostsAPI) Like(ctx context.Context, id string) (*models.LikeResult, error) {
	var res models.LikeResult
	if err := p.c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(id)+"/like/", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (p *PostsAPI) Unlike(ctx context.Context, id string) (*models.LikeResult, error) {
	var res models.LikeResult
	if err := p.c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id)+"/like/", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (p *PostsAPI) Feed(ctx context.Context) ([]models.Post, error) {
	return p.list(ctx, "/posts/feed/", nil)
}

func (p *PostsAPI) Suggestions(ctx context.Context) ([]models.Profile, error) {
	var res []models.Profile
	if err := p.c.do(ctx, http.MethodGet, "/posts/suggestions/", nil, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *PostsAPI) list(ctx context.Context, path string, query url.Values) ([]models.Post, error) {
	var res []models.Post
	if err := p.c.do(ctx, http.MethodGet, path, query, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *PostsAPI) send(ctx context.Context, method, path string, payload Payload) (*models.Post, error) {
	var res models.Post
	if err := p.c.do(ctx, method, path, nil, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
