package lib

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// SQLState returns the SQLSTATE code of a PostgreSQL error from either driver, or "".
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var drvErr pgdriver.Error
	if errors.As(err, &drvErr) {
		return drvErr.Field('C')
	}
	return ""
}

func MapPgError(err error) error {
	switch SQLState(err) {
	case "23505": // unique_violation
		return ErrConflict
	case "P0002": // no_data_found
		return ErrNotFound
	}
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
