// Package repository contains the SQL data access layer, separated from the
// HTTP handlers.  Sentinel errors defined here let handlers map failure
// scenarios onto envelope kinds and HTTP status codes without string
// matching.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row.  Handlers translate
// it into a 404 (or, on credential paths, a deliberately generic 401).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating a user with an email that is
// already registered.  Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrTokenConsumed is returned when a refresh token cannot be rotated because
// it is unknown, expired, or already revoked.  The three causes are
// intentionally indistinguishable to the caller.
var ErrTokenConsumed = errors.New("refresh token invalid or already used")

// ErrConflict is returned when an update cannot proceed because of
// conflicting state, such as attaching a second report to a lab request.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (error 1062), which the unique constraints surface on insert.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isForeignKeyViolation reports whether err is a MySQL restricted-delete or
// bad-reference violation (errors 1451/1452).
func isForeignKeyViolation(err error) bool {
	return err != nil &&
		(strings.Contains(err.Error(), "1451") || strings.Contains(err.Error(), "1452"))
}
