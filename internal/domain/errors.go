package domain

import "github.com/pkg/errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrEmptyCart is a validation failure: checkout needs at least one line.
	ErrEmptyCart = errors.WithMessage(ErrValidation, "cart is empty")
)

// Invalid wraps ErrValidation with the offending field.
func Invalid(field, reason string) error {
	return errors.WithMessagef(ErrValidation, "%s: %s", field, reason)
}
