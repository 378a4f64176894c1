package chatsql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avencore/devops-agent/internal/serviceerr"
)

func handlePgError(err error) (error, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err, false
	}

	switch pgErr.Code {
	case "23505":
		return serviceerr.ErrConflict, true
	case "23503":
		return serviceerr.ErrNotFound, true
	default:
		return err, false
	}
}
