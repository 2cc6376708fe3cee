package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
)

type videoRepository struct {
	contentTable[model.Video]
}

func NewVideoRepository(pool *pgxpool.Pool) repository.ContentRepository[model.Video] {
	return &videoRepository{contentTable[model.Video]{
		pool:    pool,
		table:   "videos",
		columns: contentColumns + `, youtube_url, video_id, embed_url, thumbnail_url`,
		scan: func(s scanner) (model.Video, error) {
			var v model.Video
			dest := append(contentDest(&v.Content), &v.YouTubeURL, &v.VideoID, &v.EmbedURL, &v.ThumbnailURL)
			err := s.Scan(dest...)
			return v, err
		},
	}}
}

func (r *videoRepository) Create(ctx context.Context, v model.Video) (model.Video, error) {
	return r.returning(ctx,
		`INSERT INTO videos (id, title, description, category, published, youtube_url, video_id, embed_url, thumbnail_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		v.ID, v.Title, v.Description, v.Category, v.Published, v.YouTubeURL, v.VideoID, v.EmbedURL, v.ThumbnailURL,
	)
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (model.Video, error) {
	return r.get(ctx, id)
}

func (r *videoRepository) List(ctx context.Context, f model.ListFilter) (repository.PageResult[model.Video], error) {
	return r.list(ctx, f)
}

func (r *videoRepository) Update(ctx context.Context, v model.Video) (model.Video, error) {
	return r.returning(ctx,
		`UPDATE videos SET title = $2, description = $3, category = $4, published = $5,
		        youtube_url = $6, video_id = $7, embed_url = $8, thumbnail_url = $9, updated_at = NOW()
		 WHERE id = $1`,
		v.ID, v.Title, v.Description, v.Category, v.Published, v.YouTubeURL, v.VideoID, v.EmbedURL, v.ThumbnailURL,
	)
}

func (r *videoRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

var _ repository.ContentRepository[model.Video] = (*videoRepository)(nil)
