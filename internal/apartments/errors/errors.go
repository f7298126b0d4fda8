package errors

import "errors"

var (
	ErrNotFound = errors.New("apartment not found")

	ErrInvalidID = errors.New("invalid apartment ID format")
)
