package errors

import "errors"

var (
	ErrNotFound  = errors.New("admin not found")
	ErrDuplicate = errors.New("email already registered")
)
