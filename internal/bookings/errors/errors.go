package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrNotEligible = errors.New("booking not eligible for rating")
)
