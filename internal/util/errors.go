package util

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailRegistered   = errors.New("account already exists")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrInvalidQuest      = errors.New("invalid quest")
	ErrInvalidProgress   = errors.New("progress values must not be negative")
	ErrPermissionDenied  = errors.New("permission denied")
)
