package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
	"github.com/maxviazov/campaign-site/pkg/youtube"
	"github.com/rs/zerolog"
)

// contentService implements the use cases shared by every content kind.
// prepare normalizes kind-specific fields and reports the ones it cannot fix.
type contentService[T any, PT model.Item[T]] struct {
	kind    model.Kind
	repo    repository.ContentRepository[T]
	prepare func(PT) []FieldError
	newID   func() string
	log     zerolog.Logger
}

func newContentService[T any, PT model.Item[T]](kind model.Kind, repo repository.ContentRepository[T], prepare func(PT) []FieldError, logger zerolog.Logger) *contentService[T, PT] {
	l := logger.With().Str("module", "service").Str("component", string(kind)).Logger()
	return &contentService[T, PT]{kind: kind, repo: repo, prepare: prepare, newID: uuid.NewString, log: l}
}

func NewPhotoService(repo repository.ContentRepository[model.Photo], logger zerolog.Logger) ContentService[model.Photo] {
	return newContentService(model.KindPhotos, repo, preparePhoto, logger)
}

func NewVideoService(repo repository.ContentRepository[model.Video], logger zerolog.Logger) ContentService[model.Video] {
	return newContentService(model.KindVideos, repo, prepareVideo, logger)
}

func NewPressService(repo repository.ContentRepository[model.PressArticle], logger zerolog.Logger) ContentService[model.PressArticle] {
	return newContentService(model.KindPress, repo, preparePress, logger)
}

func (s *contentService[T, PT]) List(ctx context.Context, q model.ListQuery, includeUnpublished bool) (model.ListResponse[T], error) {
	q.Category = strings.TrimSpace(q.Category)
	q.Search = strings.TrimSpace(q.Search)
	if err := validateStruct(q); err != nil {
		return model.ListResponse[T]{}, err
	}
	qn := q.Normalized()
	res, err := s.repo.List(ctx, model.ListFilter{Query: qn, IncludeUnpublished: includeUnpublished})
	if err != nil {
		s.log.Error().Err(err).Str("query", qn.Encode()).Msg("list failed")
		return model.ListResponse[T]{}, err
	}
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return model.ListResponse[T]{
		Items:      items,
		Pagination: model.NewPagination(qn.Page, qn.Limit, res.Total),
	}, nil
}

// Get hides drafts from public callers by reporting them as missing.
func (s *contentService[T, PT]) Get(ctx context.Context, id string, includeUnpublished bool) (T, error) {
	var zero T
	if err := validateID(id); err != nil {
		return zero, err
	}
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return zero, err
	}
	if !includeUnpublished && !PT(&item).Core().Published {
		return zero, repository.ErrNotFound
	}
	return item, nil
}

func (s *contentService[T, PT]) Create(ctx context.Context, item T) (T, error) {
	start := time.Now()
	var zero T
	c := PT(&item).Core()
	c.ID = s.newID()
	if err := s.check(PT(&item)); err != nil {
		return zero, err
	}
	out, err := s.repo.Create(ctx, item)
	if err != nil {
		s.log.Error().Err(err).Str("title", c.Title).Msg("create failed")
		return zero, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("id", PT(&out).Core().ID).Msg("content created")
	return out, nil
}

func (s *contentService[T, PT]) Update(ctx context.Context, id string, item T) (T, error) {
	var zero T
	if err := validateID(id); err != nil {
		return zero, err
	}
	PT(&item).Core().ID = strings.TrimSpace(id)
	if err := s.check(PT(&item)); err != nil {
		return zero, err
	}
	out, err := s.repo.Update(ctx, item)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("id", id).Msg("update failed")
		}
		return zero, err
	}
	s.log.Info().Str("id", id).Msg("content updated")
	return out, nil
}

func (s *contentService[T, PT]) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("id", id).Msg("delete failed")
		}
		return err
	}
	s.log.Info().Str("id", id).Msg("content deleted")
	return nil
}

// check trims the shared fields, runs the kind hook, then tag validation,
// and reports every problem at once.
func (s *contentService[T, PT]) check(item PT) error {
	c := item.Core()
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Category = strings.TrimSpace(c.Category)

	var ferrs []FieldError
	if s.prepare != nil {
		ferrs = s.prepare(item)
	}
	if err := validateStruct(item); err != nil {
		fe := FieldErrors(err)
		if fe == nil {
			return err
		}
		ferrs = append(fe, ferrs...)
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("content validation failed")
		return err
	}
	return nil
}

func preparePhoto(p *model.Photo) []FieldError {
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.AltText = strings.TrimSpace(p.AltText)
	if p.AltText == "" {
		p.AltText = p.Title
	}
	return nil
}

// prepareVideo rewrites any accepted YouTube link into its canonical form
// and derives the embed and thumbnail links from it.
func prepareVideo(v *model.Video) []FieldError {
	raw := strings.TrimSpace(v.YouTubeURL)
	v.YouTubeURL = raw
	if raw == "" {
		// reported by the required tag
		return nil
	}
	yt, err := youtube.Parse(raw)
	if err != nil {
		return []FieldError{{Field: "youtubeUrl", Message: "must be a valid YouTube link"}}
	}
	v.YouTubeURL = yt.WatchURL
	v.VideoID = yt.ID
	v.EmbedURL = yt.EmbedURL
	v.ThumbnailURL = yt.ThumbnailURL
	return nil
}

func preparePress(a *model.PressArticle) []FieldError {
	a.Outlet = strings.TrimSpace(a.Outlet)
	a.ArticleURL = strings.TrimSpace(a.ArticleURL)
	a.ImageURL = strings.TrimSpace(a.ImageURL)
	if a.PublishedAt != nil && a.PublishedAt.After(time.Now().Add(24*time.Hour)) {
		return []FieldError{{Field: "publishedAt", Message: "must not be in the future"}}
	}
	return nil
}
