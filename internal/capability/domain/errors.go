package domain

import (
	"github.com/allisson/actionguard/internal/errors"
)

// Capability domain errors.
var (
	// ErrCapabilityNotFound indicates the named capability is not registered.
	ErrCapabilityNotFound = errors.Wrap(errors.ErrNotFound, "capability not found")

	// ErrPredicateNotRegistered indicates a constraint names a custom predicate
	// that was never registered with the validator.
	ErrPredicateNotRegistered = errors.Wrap(errors.ErrInvalidInput, "predicate not registered")
)
