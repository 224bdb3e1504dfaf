package domain

import (
	"errors"
	"fmt"
)

var (
	ErrBadCredentials  = errors.New("bad credentials")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("username or email already registered")
	ErrRoleNotFound    = errors.New("role not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrTooManyAttempts = errors.New("too many failed login attempts")
	ErrValidation      = errors.New("validation failed")
)

// ErrPasswordTooLong matches ErrValidation.
var ErrPasswordTooLong = fmt.Errorf("%w: password longer than %d bytes", ErrValidation, MaxPasswordBytes)

// ErrInvalidToken is the common parent of every token verification failure.
var ErrInvalidToken = errors.New("invalid token")

var (
	ErrTokenMalformed        = tokenError{"token malformed"}
	ErrTokenExpired          = tokenError{"token expired"}
	ErrTokenInvalidSignature = tokenError{"token signature invalid"}
)

type tokenError struct{ msg string }

func (e tokenError) Error() string { return e.msg }

// Is lets errors.Is(err, ErrInvalidToken) match every specific token error.
func (e tokenError) Is(target error) bool { return target == ErrInvalidToken }
