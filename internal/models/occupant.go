package models

import (
	"time"

	"github.com/google/uuid"
)

type OccupantRoleType string

const (
	OccupantRoleLeaseHolder OccupantRoleType = "LEASE_HOLDER"
	OccupantRoleRoommate    OccupantRoleType = "ROOMMATE"
	OccupantRoleOccupant    OccupantRoleType = "OCCUPANT"
)

// ParseOccupantRole converts the wire value to the enum.
func ParseOccupantRole(s string) (OccupantRoleType, bool) {
	switch OccupantRoleType(s) {
	case OccupantRoleLeaseHolder, OccupantRoleRoommate, OccupantRoleOccupant:
		return OccupantRoleType(s), true
	default:
		return "", false
	}
}

// Occupant is a user assigned to a lease. Removal is soft: the row is
// stamped with MoveOutDate and kept for history.
type Occupant struct {
	ID          uuid.UUID        `json:"id"`
	LeaseID     uuid.UUID        `json:"lease_id"`
	UserID      uuid.UUID        `json:"user_id"`
	Role        OccupantRoleType `json:"role"`
	MoveInDate  time.Time        `json:"move_in_date"`
	MoveOutDate *time.Time       `json:"move_out_date,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (o *Occupant) GetID() string {
	return o.ID.String()
}

// Active reports whether the occupant still counts against capacity.
func (o *Occupant) Active() bool {
	return o.MoveOutDate == nil
}
