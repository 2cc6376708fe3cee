package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/maxviazov/campaign-site/internal/model"
)

// TagList is the tag every list query of a resource carries.
const TagList = "LIST"

// Resource is the client of one content kind. Photos, videos and press articles
// share it; only the item type differs.
type Resource[T any] struct {
	c    *Client
	kind model.Kind
	idOf func(T) string
}

func newResource[T any](c *Client, kind model.Kind, idOf func(T) string) *Resource[T] {
	return &Resource[T]{c: c, kind: kind, idOf: idOf}
}

func (r *Resource[T]) Kind() model.Kind { return r.kind }

func (r *Resource[T]) tag(name string) string { return string(r.kind) + ":" + name }

// ListPath is the request path of q: "/photos" for an empty query,
// "/photos?page=2&limit=6" otherwise, parameters in canonical order.
func (r *Resource[T]) ListPath(q model.ListQuery) string {
	p := "/" + string(r.kind)
	if enc := q.Encode(); enc != "" {
		p += "?" + enc
	}
	return p
}

func (r *Resource[T]) itemPath(id string) string {
	return "/" + string(r.kind) + "/" + url.PathEscape(id)
}

// Query returns the cached page for q, fetching it when absent, expired or
// invalidated. When a refetch fails but an earlier page is cached, that page
// is returned with Err set and Stale true.
func (r *Resource[T]) Query(ctx context.Context, q model.ListQuery) Result[model.ListResponse[T]] {
	path := r.ListPath(q)
	v, stale, err := r.c.cache.load(ctx, path, []string{r.tag(TagList)}, func(ctx context.Context) (any, []string, error) {
		var page model.ListResponse[T]
		if err := r.c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, nil, err
		}
		tags := make([]string, 0, len(page.Items))
		for _, it := range page.Items {
			tags = append(tags, r.tag(r.idOf(it)))
		}
		return page, tags, nil
	})
	res := Result[model.ListResponse[T]]{Err: err, Stale: stale}
	if page, ok := v.(model.ListResponse[T]); ok {
		res.Data = page
		res.HasData = true
	}
	return res
}

// List is Query without the stale view: any failure is returned as the error.
func (r *Resource[T]) List(ctx context.Context, q model.ListQuery) (model.ListResponse[T], error) {
	res := r.Query(ctx, q)
	if res.Err != nil {
		return model.ListResponse[T]{}, res.Err
	}
	return res.Data, nil
}

// Status reports the cached state of q without issuing a request.
func (r *Resource[T]) Status(q model.ListQuery) Result[model.ListResponse[T]] {
	data, has, err, loading := r.c.cache.peek(r.ListPath(q))
	res := Result[model.ListResponse[T]]{Err: err, Loading: loading, HasData: has, Stale: has && err != nil}
	if page, ok := data.(model.ListResponse[T]); ok {
		res.Data = page
	}
	return res
}

// Get returns one published item, cached under the item's own tag.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	path := r.itemPath(id)
	v, _, err := r.c.cache.load(ctx, path, []string{r.tag(id)}, func(ctx context.Context) (any, []string, error) {
		var item T
		if err := r.c.do(ctx, http.MethodGet, path, nil, &item); err != nil {
			return nil, nil, err
		}
		return item, nil, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// AdminList lists every item including drafts. It is never cached.
func (r *Resource[T]) AdminList(ctx context.Context, q model.ListQuery) (model.ListResponse[T], error) {
	var page model.ListResponse[T]
	p := "/admin/" + string(r.kind)
	if enc := q.Encode(); enc != "" {
		p += "?" + enc
	}
	err := r.c.do(ctx, http.MethodGet, p, nil, &page)
	return page, err
}

// Create adds an item and invalidates every cached list of the kind.
func (r *Resource[T]) Create(ctx context.Context, item T) (T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodPost, "/admin/"+string(r.kind), item, &out); err != nil {
		return out, err
	}
	r.invalidate(r.tag(TagList))
	return out, nil
}

// Update replaces an item and invalidates the kind's lists and the item itself.
func (r *Resource[T]) Update(ctx context.Context, id string, item T) (T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodPut, "/admin"+r.itemPath(id), item, &out); err != nil {
		return out, err
	}
	r.invalidate(r.tag(TagList), r.tag(id))
	return out, nil
}

// Delete removes an item and invalidates the kind's lists and the item itself.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if err := r.c.do(ctx, http.MethodDelete, "/admin"+r.itemPath(id), nil, nil); err != nil {
		return err
	}
	r.invalidate(r.tag(TagList), r.tag(id))
	return nil
}

func (r *Resource[T]) invalidate(tags ...string) {
	n := r.c.cache.invalidate(tags...)
	r.c.log.Debug().Strs("tags", tags).Int("entries", n).Msg("cache invalidated")
}
