package client

import (
	"context"

	"github.com/maxviazov/campaign-site/internal/model"
	"golang.org/x/sync/errgroup"
)

// Landing is everything the landing page shows above the fold.
type Landing struct {
	Photos model.ListResponse[model.Photo]
	Videos model.ListResponse[model.Video]
	Press  model.ListResponse[model.PressArticle]
}

// Landing loads the first page of every content kind concurrently.
// The first failure cancels the remaining requests.
func (c *Client) Landing(ctx context.Context) (Landing, error) {
	var out Landing
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Photos, err = c.photos.List(ctx, model.ListQuery{})
		return err
	})
	g.Go(func() (err error) {
		out.Videos, err = c.videos.List(ctx, model.ListQuery{})
		return err
	})
	g.Go(func() (err error) {
		out.Press, err = c.press.List(ctx, model.ListQuery{})
		return err
	})
	if err := g.Wait(); err != nil {
		return Landing{}, err
	}
	return out, nil
}
