package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatusType string

const (
	ApplicationStatusDraft       ApplicationStatusType = "DRAFT"
	ApplicationStatusSubmitted   ApplicationStatusType = "SUBMITTED"
	ApplicationStatusUnderReview ApplicationStatusType = "UNDER_REVIEW"
	ApplicationStatusApproved    ApplicationStatusType = "APPROVED"
	ApplicationStatusRejected    ApplicationStatusType = "REJECTED"
)

// Application is a student's request for housing for a term.
// InviteLeaseID set means this row is a pending roommate invitation
// onto an existing lease rather than a fresh housing request.
type Application struct {
	Versioned

	ID                  uuid.UUID             `json:"id"`
	UserID              uuid.UUID             `json:"user_id"`
	Term                string                `json:"term"`
	Status              ApplicationStatusType `json:"status"`
	PreferredPropertyID *uuid.UUID            `json:"preferred_property_id,omitempty"`
	InviteLeaseID       *uuid.UUID            `json:"invite_lease_id,omitempty"`
	ContactEmail        string                `json:"contact_email"`
	ContactPhone        *string               `json:"contact_phone,omitempty"`
	DecidedAt           *time.Time            `json:"decided_at,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

func (a *Application) GetID() string {
	return a.ID.String()
}

// IsInvite reports whether this application is a roommate invitation.
func (a *Application) IsInvite() bool {
	return a.InviteLeaseID != nil
}

// Terminal reports whether the application can take no further
// transitions. APPROVED and REJECTED are both terminal.
func (s ApplicationStatusType) Terminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// PendingApplicationStatuses are the statuses counted against the
// one-open-application-per-user-per-term rule.
var PendingApplicationStatuses = []ApplicationStatusType{
	ApplicationStatusDraft,
	ApplicationStatusSubmitted,
	ApplicationStatusUnderReview,
}

// CanTransitionApplication reports whether a staff transition from
// `from` to `to` is allowed. Any non-terminal state may jump straight
// to APPROVED or REJECTED; UNDER_REVIEW need not be visited.
func CanTransitionApplication(from, to ApplicationStatusType) bool {
	if from.Terminal() {
		return false
	}
	switch to {
	case ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	case ApplicationStatusSubmitted:
		return from == ApplicationStatusDraft
	case ApplicationStatusUnderReview:
		return from == ApplicationStatusSubmitted
	default:
		return false
	}
}
