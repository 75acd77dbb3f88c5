package user

import "sewa-be/internal/apperror"

var (
	ErrInvalidEmail       = apperror.Validation("a valid email is required")
	ErrUsernameRequired   = apperror.Validation("username is required")
	ErrPasswordTooShort   = apperror.Validation("password must be at least 8 characters")
	ErrEmailExists        = apperror.Conflict("email or username already registered")
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthenticated, "invalid email or password")
	ErrFailedRegister     = apperror.Internal("failed to register user")
	ErrFailedLogin        = apperror.Internal("failed to login")
)

const (
	minPasswordLen    = 8
	pgUniqueViolation = "23505"
)
