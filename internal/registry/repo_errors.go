package registry

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func isCodeUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != "23505" {
		return false
	}
	return pgErr.ConstraintName == "links_code_unique" ||
		pgErr.ConstraintName == "media_code_unique"
}
