package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrConflict     = errors.New("domain: conflict")
	ErrUnauthorized = errors.New("domain: unauthorized")
	ErrForbidden    = errors.New("domain: forbidden")

	// ErrTenantNotEligible is returned when a federation operation targets a
	// tenant that does not classify as a service provider.
	ErrTenantNotEligible = errors.New("domain: tenant not eligible")

	// ErrInvalidThreadType is returned when a roster mutation targets a
	// thread type that forbids it (direct threads have a fixed roster).
	ErrInvalidThreadType = errors.New("domain: invalid thread type")

	// ErrInvariantViolation is returned when a mutation would leave an entity
	// in a state violating a standing invariant, e.g. a thread with zero
	// active owner/admin participants.
	ErrInvariantViolation = errors.New("domain: invariant violation")
)
