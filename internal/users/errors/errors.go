package errors

import "errors"

var (
	ErrNotFound  = errors.New("user not found")
	ErrInvalidID = errors.New("invalid user ID")
	ErrDuplicate = errors.New("email or phone already registered")
)
