package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors raised by the repositories. Uniqueness sentinels are
// produced both ways: translated from the database constraint when a
// pre-check race loses, and never silently swallowed.
var (
	ErrNotFound                 = errors.New("record not found")
	ErrDuplicateInstitutionName = errors.New("institution with this name already exists")
	ErrDuplicateSessionName     = errors.New("session with this name already exists in this institution")
	ErrActiveSessionExists      = errors.New("another session is already active in this institution")
	ErrDuplicateClassName       = errors.New("class with this name already exists in this session")
	ErrDuplicateNIS             = errors.New("student with this NIS already exists in this session")
	ErrClassTaken               = errors.New("class already has an assigned teacher")
	ErrDuplicateEmail           = errors.New("admin with this email already exists")
	ErrHasDependents            = errors.New("record is still referenced by other records")
)

// uniqueViolation reports the violated constraint name if err is a
// PostgreSQL unique violation (23505).
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// foreignKeyViolation reports whether err is a PostgreSQL foreign key
// violation (23503).
func foreignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// notFound maps pgx.ErrNoRows to ErrNotFound, passing other errors through.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
