package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit is a leasable space for BY_UNIT properties and the occupancy
// container (MaxOccupancy) at every granularity.
type Unit struct {
	ID                uuid.UUID `json:"id"`
	PropertyID        uuid.UUID `json:"property_id"`
	UnitNumber        string    `json:"unit_number"`
	MaxOccupancy      int       `json:"max_occupancy"`
	RequiresAdaAccess bool      `json:"requires_ada_access"`
	CreatedAt         time.Time `json:"created_at"`
}
