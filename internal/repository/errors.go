package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var errDuplicateEmail = errors.New("duplicate key value violates unique constraint \"profiles_email_key\"")

// IsUniqueViolation reports whether err is a unique-constraint failure.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, errDuplicateEmail) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
