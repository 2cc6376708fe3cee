package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
)

// ContactRepository keeps contact messages in insertion order.
type ContactRepository struct {
	mu       sync.RWMutex
	messages map[string]model.ContactMessage
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{messages: make(map[string]model.ContactMessage)}
}

func (r *ContactRepository) Create(_ context.Context, m model.ContactMessage) (model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[m.ID]; ok {
		return model.ContactMessage{}, repository.ErrAlreadyExists
	}
	m.CreatedAt = time.Now().UTC()
	m.Read = false
	r.messages[m.ID] = m
	return m, nil
}

func (r *ContactRepository) List(_ context.Context, p repository.Page, unreadOnly bool) (repository.PageResult[model.ContactMessage], error) {
	p = p.Sanitize()
	r.mu.RLock()
	all := make([]model.ContactMessage, 0, len(r.messages))
	for _, m := range r.messages {
		if unreadOnly && m.Read {
			continue
		}
		all = append(all, m)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	res := repository.PageResult[model.ContactMessage]{Items: []model.ContactMessage{}, Total: len(all)}
	if p.Offset >= len(all) {
		return res, nil
	}
	end := p.Offset + p.Limit
	if end > len(all) {
		end = len(all)
	}
	res.Items = append(res.Items, all[p.Offset:end]...)
	return res, nil
}

func (r *ContactRepository) SetRead(_ context.Context, id string, read bool) (model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return model.ContactMessage{}, repository.ErrNotFound
	}
	m.Read = read
	r.messages[id] = m
	return m, nil
}

func (r *ContactRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.messages, id)
	return nil
}

// VisitorRepository is a mutex-guarded counter.
type VisitorRepository struct {
	mu    sync.Mutex
	count int64
}

func NewVisitorRepository() *VisitorRepository { return &VisitorRepository{} }

func (r *VisitorRepository) Increment(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	return r.count, nil
}

func (r *VisitorRepository) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count, nil
}

func (r *VisitorRepository) Reset(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count = 0
	return nil
}

// txManager runs fn directly; in-memory writes are individually atomic.
type txManager struct{}

func (txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error { return fn(ctx) }

type pinger struct{}

func (pinger) Ping(context.Context) error { return nil }

// NewStore builds an empty in-memory store.
func NewStore() repository.Store {
	return repository.Store{
		Photos:   NewContentRepository[model.Photo](),
		Videos:   NewContentRepository[model.Video](),
		Press:    NewContentRepository[model.PressArticle](),
		Contact:  NewContactRepository(),
		Visitors: NewVisitorRepository(),
		Tx:       txManager{},
		Pinger:   pinger{},
	}
}
