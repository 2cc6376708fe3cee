package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
)

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// sortColumns whitelists ORDER BY targets; values are interpolated into SQL.
var sortColumns = map[model.SortField]string{
	model.SortByCreatedAt: "created_at",
	model.SortByUpdatedAt: "updated_at",
	model.SortByTitle:     "lower(title)",
}

// contentTable holds the SQL shared by the three content kinds; each kind
// supplies its table, column list and row scanner.
type contentTable[T any] struct {
	pool    *pgxpool.Pool
	table   string
	columns string
	scan    func(s scanner) (T, error)
}

func (t contentTable[T]) get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ensurePool(t.pool); err != nil {
		return zero, err
	}
	row := getQ(ctx, t.pool).QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, t.columns, t.table), id)
	out, err := t.scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, repository.ErrNotFound
		}
		return zero, repository.MapPgError(err)
	}
	return out, nil
}

// buildWhere translates a filter into a WHERE clause and its positional args.
func buildWhere(f model.ListFilter) (string, []any) {
	var conds []string
	var args []any
	if !f.IncludeUnpublished {
		conds = append(conds, "published")
	}
	if c := strings.TrimSpace(f.Query.Category); c != "" {
		args = append(args, c)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Query.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func orderBy(q model.ListQuery) string {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = sortColumns[model.DefaultSortBy]
	}
	dir := "DESC"
	if q.SortOrder == model.SortAsc {
		dir = "ASC"
	}
	// id breaks ties so pages never overlap
	return fmt.Sprintf(" ORDER BY %s %s, id %s", col, dir, dir)
}

func (t contentTable[T]) list(ctx context.Context, f model.ListFilter) (repository.PageResult[T], error) {
	if err := ensurePool(t.pool); err != nil {
		return repository.PageResult[T]{}, err
	}
	qn := f.Query.Normalized()
	where, args := buildWhere(f)
	exec := getQ(ctx, t.pool)

	var total int
	if err := exec.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, t.table, where), args...).Scan(&total); err != nil {
		return repository.PageResult[T]{}, repository.MapPgError(err)
	}

	pageArgs := append(append([]any{}, args...), qn.Limit, qn.Offset())
	sql := fmt.Sprintf(`SELECT %s FROM %s%s%s LIMIT $%d OFFSET $%d`,
		t.columns, t.table, where, orderBy(qn), len(args)+1, len(args)+2)
	rows, err := exec.Query(ctx, sql, pageArgs...)
	if err != nil {
		return repository.PageResult[T]{}, repository.MapPgError(err)
	}
	defer rows.Close()

	res := repository.PageResult[T]{Items: make([]T, 0, qn.Limit), Total: total}
	for rows.Next() {
		item, err := t.scan(rows)
		if err != nil {
			return repository.PageResult[T]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, item)
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[T]{}, repository.MapPgError(err)
	}
	return res, nil
}

func (t contentTable[T]) delete(ctx context.Context, id string) error {
	if err := ensurePool(t.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, t.pool).Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.table), id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// returning runs an INSERT/UPDATE and scans the stored row back.
func (t contentTable[T]) returning(ctx context.Context, sql string, args ...any) (T, error) {
	var zero T
	if err := ensurePool(t.pool); err != nil {
		return zero, err
	}
	row := getQ(ctx, t.pool).QueryRow(ctx, sql+" RETURNING "+t.columns, args...)
	out, err := t.scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, repository.ErrNotFound
		}
		return zero, repository.MapPgError(err)
	}
	return out, nil
}

const contentColumns = `id::text, title, description, category, published, created_at, updated_at`

func contentDest(c *model.Content) []any {
	return []any{&c.ID, &c.Title, &c.Description, &c.Category, &c.Published, &c.CreatedAt, &c.UpdatedAt}
}
