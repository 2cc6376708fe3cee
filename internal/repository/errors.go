package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Storage outcomes every driver reports the same way; pkg/response turns them into 404/409.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
)

// MapPgError folds the Postgres codes content storage can hit into the errors above.
// Anything unexpected passes through untouched and ends up as a 500.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		// duplicate id on insert
		return ErrAlreadyExists
	case pgerrcode.CheckViolation, pgerrcode.ForeignKeyViolation, pgerrcode.NotNullViolation:
		return ErrConflict
	case pgerrcode.InvalidTextRepresentation:
		// malformed uuid in a lookup: nothing can match it
		return ErrNotFound
	default:
		return err
	}
}
