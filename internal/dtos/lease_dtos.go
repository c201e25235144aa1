package dtos

import "github.com/google/uuid"

// AllocateLeaseRequest is the staff body of POST /api/v1/housing/leases.
// Granularity + ResourceID form the resource reference; dates are
// calendar days.
type AllocateLeaseRequest struct {
	ApplicationID uuid.UUID `json:"application_id" validate:"required"`
	Granularity   string    `json:"granularity" validate:"required,oneof=BY_UNIT BY_ROOM BY_BED"`
	ResourceID    uuid.UUID `json:"resource_id" validate:"required"`
	StartDate     string    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string    `json:"end_date" validate:"required,datetime=2006-01-02"`
	TotalDue      float64   `json:"total_due" validate:"gte=0"`
	DueThisMonth  float64   `json:"due_this_month" validate:"gte=0"`
}

type SetLeaseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING_SIGNATURE SIGNED ACTIVE COMPLETED TERMINATED"`
}

type AddOccupantRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"required,oneof=LEASE_HOLDER ROOMMATE OCCUPANT"`
}
