// Package memory implements the repository contracts in process.
// It backs the "memory" storage driver and the service/handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
)

// ContentRepository stores one content kind in a map guarded by a RWMutex.
type ContentRepository[T any, PT model.Item[T]] struct {
	mu    sync.RWMutex
	items map[string]T
	now   func() time.Time
}

func NewContentRepository[T any, PT model.Item[T]]() *ContentRepository[T, PT] {
	return &ContentRepository[T, PT]{items: make(map[string]T), now: func() time.Time { return time.Now().UTC() }}
}

func (r *ContentRepository[T, PT]) Create(_ context.Context, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := PT(&item).Core()
	if _, ok := r.items[c.ID]; ok {
		var zero T
		return zero, repository.ErrAlreadyExists
	}
	now := r.now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.items[c.ID] = item
	return item, nil
}

func (r *ContentRepository[T, PT]) GetByID(_ context.Context, id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return item, nil
}

func (r *ContentRepository[T, PT]) List(_ context.Context, f model.ListFilter) (repository.PageResult[T], error) {
	q := f.Query.Normalized()
	category := strings.TrimSpace(q.Category)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	r.mu.RLock()
	matched := make([]T, 0, len(r.items))
	for _, item := range r.items {
		c := PT(&item).Core()
		if !f.IncludeUnpublished && !c.Published {
			continue
		}
		if category != "" && c.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Title), search) &&
			!strings.Contains(strings.ToLower(c.Description), search) {
			continue
		}
		matched = append(matched, item)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := PT(&matched[i]).Core(), PT(&matched[j]).Core()
		if q.SortOrder == model.SortDesc {
			a, b = b, a
		}
		less, equal := compareContent(a, b, q.SortBy)
		if equal {
			return a.ID < b.ID
		}
		return less
	})

	res := repository.PageResult[T]{Items: []T{}, Total: len(matched)}
	start := q.Offset()
	if start >= len(matched) {
		return res, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	res.Items = append(res.Items, matched[start:end]...)
	return res, nil
}

// compareContent reports a < b under the sort field, and whether they tie.
func compareContent(a, b *model.Content, by model.SortField) (less, equal bool) {
	switch by {
	case model.SortByTitle:
		at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
		return at < bt, at == bt
	case model.SortByUpdatedAt:
		return a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
	default:
		return a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
	}
}

func (r *ContentRepository[T, PT]) Update(_ context.Context, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := PT(&item).Core()
	prev, ok := r.items[c.ID]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	c.CreatedAt = PT(&prev).Core().CreatedAt
	c.UpdatedAt = r.now()
	r.items[c.ID] = item
	return item, nil
}

func (r *ContentRepository[T, PT]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
