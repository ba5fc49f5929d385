package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")

	// ErrViewQuotaExceeded and ErrViewExpired refine ErrForbidden and
	// ErrUnauthorized for the view endpoints.
	ErrViewQuotaExceeded = errors.New("view limit reached")
	ErrViewExpired       = errors.New("view session expired")

	// ErrEmailNotVerified refines ErrUnauthorized on login.
	ErrEmailNotVerified = errors.New("email is not verified")
)
