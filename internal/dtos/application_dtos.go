package dtos

import "github.com/google/uuid"

// SubmitApplicationRequest is the body of POST /api/v1/housing/applications.
// Contact details are collected on the form so the notification module
// can reach the applicant; the engine itself never sends credentials.
type SubmitApplicationRequest struct {
	Term                string     `json:"term" validate:"required"`
	PreferredPropertyID *uuid.UUID `json:"preferred_property_id,omitempty"`
	ContactEmail        string     `json:"contact_email" validate:"required,email"`
	ContactPhone        *string    `json:"contact_phone,omitempty" validate:"omitempty,e164"`
}

type SetApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=SUBMITTED UNDER_REVIEW APPROVED REJECTED"`
}

// InviteOccupantRequest is the body of POST /api/v1/housing/leases/{id}/invite.
type InviteOccupantRequest struct {
	InviteeUserID uuid.UUID `json:"invitee_user_id" validate:"required"`
	InviteeEmail  string    `json:"invitee_email" validate:"required,email"`
	InviteePhone  *string   `json:"invitee_phone,omitempty" validate:"omitempty,e164"`
}
