package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
)

type photoRepository struct {
	contentTable[model.Photo]
}

func NewPhotoRepository(pool *pgxpool.Pool) repository.ContentRepository[model.Photo] {
	return &photoRepository{contentTable[model.Photo]{
		pool:    pool,
		table:   "photos",
		columns: contentColumns + `, image_url, alt_text`,
		scan: func(s scanner) (model.Photo, error) {
			var p model.Photo
			dest := append(contentDest(&p.Content), &p.ImageURL, &p.AltText)
			err := s.Scan(dest...)
			return p, err
		},
	}}
}

func (r *photoRepository) Create(ctx context.Context, p model.Photo) (model.Photo, error) {
	return r.returning(ctx,
		`INSERT INTO photos (id, title, description, category, published, image_url, alt_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Title, p.Description, p.Category, p.Published, p.ImageURL, p.AltText,
	)
}

func (r *photoRepository) GetByID(ctx context.Context, id string) (model.Photo, error) {
	return r.get(ctx, id)
}

func (r *photoRepository) List(ctx context.Context, f model.ListFilter) (repository.PageResult[model.Photo], error) {
	return r.list(ctx, f)
}

func (r *photoRepository) Update(ctx context.Context, p model.Photo) (model.Photo, error) {
	return r.returning(ctx,
		`UPDATE photos SET title = $2, description = $3, category = $4, published = $5,
		        image_url = $6, alt_text = $7, updated_at = NOW()
		 WHERE id = $1`,
		p.ID, p.Title, p.Description, p.Category, p.Published, p.ImageURL, p.AltText,
	)
}

func (r *photoRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

var _ repository.ContentRepository[model.Photo] = (*photoRepository)(nil)
