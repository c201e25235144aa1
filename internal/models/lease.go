package models

import (
	"time"

	"github.com/google/uuid"
)

type LeaseStatusType string

const (
	LeaseStatusDraft            LeaseStatusType = "DRAFT"
	LeaseStatusPendingSignature LeaseStatusType = "PENDING_SIGNATURE"
	LeaseStatusSigned           LeaseStatusType = "SIGNED"
	LeaseStatusActive           LeaseStatusType = "ACTIVE"
	LeaseStatusCompleted        LeaseStatusType = "COMPLETED"
	LeaseStatusTerminated       LeaseStatusType = "TERMINATED"
)

// Lease binds a student to exactly one resource at the owning
// property's granularity. Resource is immutable once set.
type Lease struct {
	Versioned

	ID                uuid.UUID       `json:"id"`
	ApplicationID     uuid.UUID       `json:"application_id"`
	LeaseHolderUserID uuid.UUID       `json:"lease_holder_user_id"`
	PropertyID        uuid.UUID       `json:"property_id"`
	Term              string          `json:"term"`
	Resource          ResourceRef     `json:"resource"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	Status            LeaseStatusType `json:"status"`

	// Plain read fields for the payment module; no arithmetic here.
	TotalDue     float64 `json:"total_due"`
	DueThisMonth float64 `json:"due_this_month"`

	SignedAt  *time.Time `json:"signed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (l *Lease) GetID() string {
	return l.ID.String()
}

// Encumbering reports whether a lease in this status keeps its
// resource off the availability list.
func (s LeaseStatusType) Encumbering() bool {
	switch s {
	case LeaseStatusPendingSignature, LeaseStatusSigned, LeaseStatusActive:
		return true
	default:
		return false
	}
}

// Terminal reports whether the lease can take no further transitions.
// COMPLETED is terminal: COMPLETED -> TERMINATED is rejected.
func (s LeaseStatusType) Terminal() bool {
	return s == LeaseStatusCompleted || s == LeaseStatusTerminated
}

// EncumberingLeaseStatuses mirrors Encumbering for SQL IN clauses.
var EncumberingLeaseStatuses = []LeaseStatusType{
	LeaseStatusPendingSignature,
	LeaseStatusSigned,
	LeaseStatusActive,
}

// CanTransitionLease implements the lease state machine:
// DRAFT -> PENDING_SIGNATURE -> SIGNED -> ACTIVE -> COMPLETED, with
// TERMINATED reachable from any non-terminal state.
func CanTransitionLease(from, to LeaseStatusType) bool {
	if from.Terminal() {
		return false
	}
	switch to {
	case LeaseStatusTerminated:
		return true
	case LeaseStatusPendingSignature:
		return from == LeaseStatusDraft
	case LeaseStatusSigned:
		return from == LeaseStatusPendingSignature
	case LeaseStatusActive:
		return from == LeaseStatusSigned
	case LeaseStatusCompleted:
		return from == LeaseStatusActive
	default:
		return false
	}
}
