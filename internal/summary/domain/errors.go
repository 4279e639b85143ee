package domain

import "errors"

var (
	// ErrValidation marks a rejected payload; nothing is persisted for it.
	ErrValidation = errors.New("invalid payload")

	// ErrNotFound marks a lookup for an id that has no stored record.
	ErrNotFound = errors.New("summary not found")
)
