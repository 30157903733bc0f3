package client

import (
	"context"
	"net/http"
	"net/url"

	"socialbook/models"
)

type CommentsAPI struct {
	c *Client
}

// List returns comments oldest first, only those of postID when it is not empty.
func (a *CommentsAPI) List(ctx context.Context, postID string) ([]models.Comment, error) {
	query := url.Values{}
	if postID != "" {
		query.Set("post", postID)
	}
	var res []models.Comment
	if err := a.c.do(ctx, http.MethodGet, "/comments/", query, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *CommentsAPI) Get(ctx context.Context, id string) (*models.Comment, error) {
	var res models.Comment
	if err := a.c.do(ctx, http.MethodGet, "/comments/"+url.PathEscape(id)+"/", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *CommentsAPI) Create(ctx context.Context, postID, body string) (*models.Comment, error) {
	var res models.Comment
	req := map[string]string{"post": postID, "body": body}
	if err := a.c.do(ctx, http.MethodPost, "/comments/", nil, JSON(req), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *CommentsAPI) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/comments/"+url.PathEscape(id)+"/", nil, nil, nil)
}
