package client

import (
	"context"
	"net/http"
	"net/url"

	"socialbook/models"
)

type FollowersAPI struct {
	c *Client
}

// FollowToggleResult is the new follow edge, or only Status "unfollowed".
type FollowToggleResult struct {
	models.Follow
	Status string `json:"status"`
}

func (r FollowToggleResult) IsFollowing() bool {
	return r.Status != models.FollowStatusUnfollowed
}

// List filters edges by followee (user) and follower; empty values match all.
func (a *FollowersAPI) List(ctx context.Context, user, follower string) ([]models.Follow, error) {
	query := url.Values{}
	if user != "" {
		query.Set("user", user)
	}
	if follower != "" {
		query.Set("follower", follower)
	}
	return a.list(ctx, "/followers/", query)
}

func (a *FollowersAPI) Toggle(ctx context.Context, user string) (*FollowToggleResult, error) {
	var res FollowToggleResult
	req := models.ToggleFollowRequest{User: user}
	if err := a.c.do(ctx, http.MethodPost, "/followers/toggle/", nil, JSON(req), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Followers lists who follows user; empty user means the current one.
func (a *FollowersAPI) Followers(ctx context.Context, user string) ([]models.Follow, error) {
	return a.list(ctx, "/followers/followers/", userQuery(user))
}

// Following lists whom user follows; empty user means the current one.
func (a *FollowersAPI) Following(ctx context.Context, user string) ([]models.Follow, error) {
	return a.list(ctx, "/followers/following/", userQuery(user))
}

func userQuery(user string) url.Values {
	if user == "" {
		return nil
	}
	return url.Values{"user": {user}}
}

func (a *FollowersAPI) list(ctx context.Context, path string, query url.Values) ([]models.Follow, error) {
	var res []models.Follow
	if err := a.c.do(ctx, http.MethodGet, path, query, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}
