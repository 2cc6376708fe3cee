package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
)

type pressRepository struct {
	contentTable[model.PressArticle]
}

func NewPressRepository(pool *pgxpool.Pool) repository.ContentRepository[model.PressArticle] {
	return &pressRepository{contentTable[model.PressArticle]{
		pool:    pool,
		table:   "press_articles",
		columns: contentColumns + `, outlet, article_url, image_url, published_at`,
		scan: func(s scanner) (model.PressArticle, error) {
			var a model.PressArticle
			dest := append(contentDest(&a.Content), &a.Outlet, &a.ArticleURL, &a.ImageURL, &a.PublishedAt)
			err := s.Scan(dest...)
			return a, err
		},
	}}
}

func (r *pressRepository) Create(ctx context.Context, a model.PressArticle) (model.PressArticle, error) {
	return r.returning(ctx,
		`INSERT INTO press_articles (id, title, description, category, published, outlet, article_url, image_url, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.Title, a.Description, a.Category, a.Published, a.Outlet, a.ArticleURL, a.ImageURL, a.PublishedAt,
	)
}

func (r *pressRepository) GetByID(ctx context.Context, id string) (model.PressArticle, error) {
	return r.get(ctx, id)
}

func (r *pressRepository) List(ctx context.Context, f model.ListFilter) (repository.PageResult[model.PressArticle], error) {
	return r.list(ctx, f)
}

func (r *pressRepository) Update(ctx context.Context, a model.PressArticle) (model.PressArticle, error) {
	return r.returning(ctx,
		`UPDATE press_articles SET title = $2, description = $3, category = $4, published = $5,
		        outlet = $6, article_url = $7, image_url = $8, published_at = $9, updated_at = NOW()
		 WHERE id = $1`,
		a.ID, a.Title, a.Description, a.Category, a.Published, a.Outlet, a.ArticleURL, a.ImageURL, a.PublishedAt,
	)
}

func (r *pressRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

var _ repository.ContentRepository[model.PressArticle] = (*pressRepository)(nil)
