// Package contract holds behaviour suites every repository implementation must pass.
// The memory and postgres packages run the same suites against their own factories.
package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
)

type PhotoFactory func(t *testing.T) (repository.ContentRepository[model.Photo], func())

type ContactFactory func(t *testing.T) (repository.ContactRepository, func())

type VisitorFactory func(t *testing.T) (repository.VisitorRepository, func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func newPhoto(title, category string, published bool) model.Photo {
	return model.Photo{
		Content: model.Content{
			ID:        uuid.NewString(),
			Title:     title,
			Category:  category,
			Published: published,
		},
		ImageURL: "https://cdn.example.org/" + title + ".jpg",
	}
}

// RunContentRepositoryContract exercises the shared content contract through photos;
// videos and press articles reuse the same list/get/update/delete SQL.
func RunContentRepositoryContract(t *testing.T, makeRepo PhotoFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, newPhoto("Rally", "events", true))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
			t.Fatalf("timestamps not set: %+v", created.Content)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Title != "Rally" || got.ImageURL != created.ImageURL {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), uuid.NewString())
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			if _, err := repo.Create(ctx, newPhoto(fmt.Sprintf("P-%c", 'A'+i), "gallery", true)); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		q := model.ListQuery{Limit: 3, SortBy: model.SortByTitle, SortOrder: model.SortAsc}
		res, err := repo.List(ctx, model.ListFilter{Query: q})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 3 || res.Total != 7 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		if res.Items[0].Title != "P-A" {
			t.Fatalf("expected title order, first=%q", res.Items[0].Title)
		}
		q.Page = 3
		res3, err := repo.List(ctx, model.ListFilter{Query: q})
		if err != nil {
			t.Fatalf("list3: %v", err)
		}
		if len(res3.Items) != 1 || res3.Total != 7 || res3.Items[0].Title != "P-G" {
			t.Fatalf("unexpected last page: %+v total=%d", res3.Items, res3.Total)
		}
		q.Page = 9
		past, err := repo.List(ctx, model.ListFilter{Query: q})
		if err != nil {
			t.Fatalf("list past end: %v", err)
		}
		if len(past.Items) != 0 || past.Total != 7 {
			t.Fatalf("expected empty page with total, got len=%d total=%d", len(past.Items), past.Total)
		}
	})

	t.Run("list_filters", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seed := []model.Photo{
			newPhoto("Healthcare town hall", "healthcare", true),
			newPhoto("Clinic visit", "healthcare", true),
			newPhoto("Draft clinic", "healthcare", false),
			newPhoto("School opening", "education", true),
		}
		for _, p := range seed {
			if _, err := repo.Create(ctx, p); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}

		res, err := repo.List(ctx, model.ListFilter{Query: model.ListQuery{Category: "healthcare"}})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 2 {
			t.Fatalf("expected 2 published healthcare photos, got %d", res.Total)
		}

		res, err = repo.List(ctx, model.ListFilter{Query: model.ListQuery{Category: "healthcare"}, IncludeUnpublished: true})
		if err != nil {
			t.Fatalf("list admin: %v", err)
		}
		if res.Total != 3 {
			t.Fatalf("expected 3 healthcare photos incl. drafts, got %d", res.Total)
		}

		res, err = repo.List(ctx, model.ListFilter{Query: model.ListQuery{Search: "CLINIC"}})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if res.Total != 1 || res.Items[0].Title != "Clinic visit" {
			t.Fatalf("unexpected search result: %+v", res.Items)
		}
	})

	t.Run("update_and_delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, newPhoto("Before", "", true))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		created.Title = "After"
		updated, err := repo.Update(ctx, created)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Title != "After" || updated.UpdatedAt.Before(created.UpdatedAt) {
			t.Fatalf("unexpected update result: %+v", updated.Content)
		}
		if err := repo.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := repo.Delete(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
		missing := newPhoto("Ghost", "", true)
		if _, err := repo.Update(ctx, missing); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on update of missing, got %v", err)
		}
	})
}

func RunContactRepositoryContract(t *testing.T, makeRepo ContactFactory) {
	t.Helper()

	t.Run("create_list_read_delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var ids []string
		for i := 0; i < 3; i++ {
			m, err := repo.Create(ctx, model.ContactMessage{
				ID:      uuid.NewString(),
				Name:    "Visitor",
				Email:   "visitor@example.org",
				Message: "Thank you for your work on the clinic.",
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if m.Read || m.CreatedAt.IsZero() {
				t.Fatalf("unexpected stored message: %+v", m)
			}
			ids = append(ids, m.ID)
		}

		if _, err := repo.SetRead(ctx, ids[0], true); err != nil {
			t.Fatalf("set read: %v", err)
		}
		unread, err := repo.List(ctx, repository.Page{Limit: 10}, true)
		if err != nil {
			t.Fatalf("list unread: %v", err)
		}
		if unread.Total != 2 {
			t.Fatalf("expected 2 unread, got %d", unread.Total)
		}
		all, err := repo.List(ctx, repository.Page{Limit: 2}, false)
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if all.Total != 3 || len(all.Items) != 2 {
			t.Fatalf("unexpected page: len=%d total=%d", len(all.Items), all.Total)
		}

		if err := repo.Delete(ctx, ids[1]); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.SetRead(ctx, ids[1], true); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunVisitorRepositoryContract(t *testing.T, makeRepo VisitorFactory) {
	t.Helper()

	t.Run("increment_count_reset", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		n, err := repo.Count(ctx)
		if err != nil || n != 0 {
			t.Fatalf("expected fresh count 0, got %d err=%v", n, err)
		}
		for want := int64(1); want <= 3; want++ {
			got, err := repo.Increment(ctx)
			if err != nil {
				t.Fatalf("increment: %v", err)
			}
			if got != want {
				t.Fatalf("increment returned %d, want %d", got, want)
			}
		}
		// reads never move the counter
		for i := 0; i < 2; i++ {
			if n, _ := repo.Count(ctx); n != 3 {
				t.Fatalf("count changed by read: %d", n)
			}
		}
		if err := repo.Reset(ctx); err != nil {
			t.Fatalf("reset: %v", err)
		}
		if n, _ := repo.Count(ctx); n != 0 {
			t.Fatalf("expected 0 after reset, got %d", n)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	p, cleanup := makePinger(t)
	t.Cleanup(cleanup)
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
