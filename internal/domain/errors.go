package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrInvalid              = errors.New("invalid argument")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
)
