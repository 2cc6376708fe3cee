package repository

import (
	"context"

	"github.com/maxviazov/campaign-site/internal/model"
)

// Pinger backs the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc runs with the transaction bound to ctx.
type TxFunc func(ctx context.Context) error

// TxManager runs fn in one transaction; nested calls join the outer one.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// ContentRepository declares persistence operations for one content kind.
// Photos, videos and press articles share this contract; T is the item type.
// Implementations report ErrNotFound and ErrAlreadyExists, never driver errors.
type ContentRepository[T any] interface {
	Create(ctx context.Context, item T) (T, error)
	GetByID(ctx context.Context, id string) (T, error)
	List(ctx context.Context, f model.ListFilter) (PageResult[T], error)
	// Update replaces the stored item with the same ID and returns the stored version.
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

// ContactRepository declares persistence operations for contact messages.
type ContactRepository interface {
	Create(ctx context.Context, m model.ContactMessage) (model.ContactMessage, error)
	List(ctx context.Context, p Page, unreadOnly bool) (PageResult[model.ContactMessage], error)
	SetRead(ctx context.Context, id string, read bool) (model.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

// VisitorRepository owns the single shared visitor counter.
type VisitorRepository interface {
	Increment(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	Reset(ctx context.Context) error
}

// Store bundles every repository a running backend needs.
type Store struct {
	Photos   ContentRepository[model.Photo]
	Videos   ContentRepository[model.Video]
	Press    ContentRepository[model.PressArticle]
	Contact  ContactRepository
	Visitors VisitorRepository
	Tx       TxManager
	Pinger   Pinger
}
