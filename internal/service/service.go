// Package service holds business logic orchestration across repositories and handlers.
// Validation, defaults and use-case rules for content, contact and the visitor counter.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

var (
	// ErrUnauthorized is returned when an admin credential is missing or wrong (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited is returned when a client exceeds its request budget (HTTP 429).
	ErrRateLimited = errors.New("rate limited")
)

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// ContentService defines the use cases shared by photos, videos and press articles.
// Public callers pass includeUnpublished=false; admin callers see drafts too.
type ContentService[T any] interface {
	List(ctx context.Context, q model.ListQuery, includeUnpublished bool) (model.ListResponse[T], error)
	Get(ctx context.Context, id string, includeUnpublished bool) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

// ContactService defines contact form and moderation use cases.
type ContactService interface {
	Submit(ctx context.Context, m model.ContactMessage) (model.ContactMessage, error)
	List(ctx context.Context, page repository.Page, unreadOnly bool) (repository.PageResult[model.ContactMessage], error)
	MarkRead(ctx context.Context, id string, read bool) (model.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

// VisitorService defines the shared visitor counter use cases.
type VisitorService interface {
	Increment(ctx context.Context) (model.VisitorCount, error)
	Count(ctx context.Context) (model.VisitorCount, error)
	Reset(ctx context.Context) (model.VisitorCount, error)
}
