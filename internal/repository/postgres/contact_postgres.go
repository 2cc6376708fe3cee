package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
)

type contactRepository struct{ pool *pgxpool.Pool }

func NewContactRepository(pool *pgxpool.Pool) repository.ContactRepository {
	return &contactRepository{pool: pool}
}

const contactColumns = `id::text, name, email, subject, message, read, created_at`

func scanContact(s scanner) (model.ContactMessage, error) {
	var m model.ContactMessage
	err := s.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Read, &m.CreatedAt)
	return m, err
}

func (r *contactRepository) Create(ctx context.Context, m model.ContactMessage) (model.ContactMessage, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.ContactMessage{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO contact_messages (id, name, email, subject, message)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+contactColumns,
		m.ID, m.Name, m.Email, m.Subject, m.Message,
	)
	out, err := scanContact(row)
	if err != nil {
		return model.ContactMessage{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *contactRepository) List(ctx context.Context, p repository.Page, unreadOnly bool) (repository.PageResult[model.ContactMessage], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.ContactMessage]{}, err
	}
	p = p.Sanitize()
	exec := getQ(ctx, r.pool)

	var total int
	if err := exec.QueryRow(ctx,
		`SELECT COUNT(*) FROM contact_messages WHERE NOT read OR NOT $1`, unreadOnly,
	).Scan(&total); err != nil {
		return repository.PageResult[model.ContactMessage]{}, repository.MapPgError(err)
	}

	rows, err := exec.Query(ctx,
		`SELECT `+contactColumns+`
		 FROM contact_messages
		 WHERE NOT read OR NOT $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		unreadOnly, p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.ContactMessage]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.ContactMessage]{Items: make([]model.ContactMessage, 0, p.Limit), Total: total}
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return repository.PageResult[model.ContactMessage]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, m)
	}
	return res, rows.Err()
}

func (r *contactRepository) SetRead(ctx context.Context, id string, read bool) (model.ContactMessage, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.ContactMessage{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`UPDATE contact_messages SET read = $2 WHERE id = $1 RETURNING `+contactColumns, id, read)
	out, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ContactMessage{}, repository.ErrNotFound
		}
		return model.ContactMessage{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *contactRepository) Delete(ctx context.Context, id string) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ContactRepository = (*contactRepository)(nil)
