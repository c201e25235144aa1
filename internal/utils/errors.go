package utils

import "errors"

/*
Sentinel errors for the housing engine's domain logic.
Controllers do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrNotFound            = errors.New("not_found")
	ErrGranularityMismatch = errors.New("granularity_mismatch")

	// Allocation / occupancy invariants
	ErrResourceUnavailable  = errors.New("resource_unavailable")
	ErrLeaseFull            = errors.New("lease_full")
	ErrHolderHasActiveLease = errors.New("holder_has_active_lease")

	// Uniqueness
	ErrDuplicateApplication = errors.New("duplicate_application")
	ErrDuplicateOccupant    = errors.New("duplicate_occupant")

	// Role authorization
	ErrNotLeaseHolder = errors.New("not_lease_holder")
	ErrNotInvitee     = errors.New("not_invitee")
	ErrInvalidRole    = errors.New("invalid_role")

	// State machines
	ErrInvalidTransition           = errors.New("invalid_transition")
	ErrCannotRemoveLastLeaseHolder = errors.New("cannot_remove_last_lease_holder")

	ErrInvalidPayload = errors.New("invalid_payload")
)
