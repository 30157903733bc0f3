package client

import (
	"context"
	"fmt"
	"net/http"

	"socialbook/models"
)

type BlocksAPI struct {
	c *Client
}

// BlockToggleResult is the new block, or only Status "unblocked".
type BlockToggleResult struct {
	models.Block
	Status string `json:"status"`
}

func (r BlockToggleResult) IsBlocked() bool {
	return r.Status != models.BlockStatusUnblocked
}

// List returns the users the current user blocked.
func (a *BlocksAPI) List(ctx context.Context) ([]models.Block, error) {
	var res []models.Block
	if err := a.c.do(ctx, http.MethodGet, "/blocks/", nil, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *BlocksAPI) Toggle(ctx context.Context, blocked string) (*BlockToggleResult, error) {
	var res BlockToggleResult
	req := models.ToggleBlockRequest{Blocked: blocked}
	if err := a.c.do(ctx, http.MethodPost, "/blocks/toggle/", nil, JSON(req), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *BlocksAPI) Delete(ctx context.Context, id int64) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/blocks/%d/", id), nil, nil, nil)
}
