package controllers

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code for duplicate-key inserts.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
// The gorm postgres driver is built on pgx/v5, so the error must be matched
// against that module's PgError type.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
