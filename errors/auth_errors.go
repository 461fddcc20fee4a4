// api/errors/auth_errors.go

package errors

import "errors"

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrRoleLookupFailed = errors.New("role lookup failed")
	ErrInvalidRole      = errors.New("invalid role")

	ErrMissingSessionSecret = errors.New("session signing secret is not configured")
)
