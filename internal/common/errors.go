// Package common defines shared constants and sentinel errors used across
// the donnamis server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrorNothingToUpdate = errors.New("nothing to update")

	// Fatal data-layer errors: constraint violations that should not happen,
	// connectivity loss, a dependent write that affected no row.
	ErrorFatal = errors.New("fatal data error")

	// Service-level errors.
	ErrorForbidden     = errors.New("forbidden")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorConflict      = errors.New("conflict")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorBadInput      = errors.New("bad input")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
