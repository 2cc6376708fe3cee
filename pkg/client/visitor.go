package client

import (
	"context"
	"net/http"

	"github.com/maxviazov/campaign-site/internal/model"
)

// VisitorAPI reaches the shared visitor counter. Neither call is cached.
type VisitorAPI struct{ c *Client }

// Increment counts one visit and returns the new total.
func (v *VisitorAPI) Increment(ctx context.Context) (int64, error) {
	var out model.VisitorCount
	if err := v.c.do(ctx, http.MethodPost, "/visitor/increment", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Count reads the total without changing it.
func (v *VisitorAPI) Count(ctx context.Context) (int64, error) {
	var out model.VisitorCount
	if err := v.c.do(ctx, http.MethodGet, "/visitor/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Reset zeroes the counter. Requires an admin token.
func (v *VisitorAPI) Reset(ctx context.Context) (int64, error) {
	var out model.VisitorCount
	if err := v.c.do(ctx, http.MethodPost, "/admin/visitor/reset", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
