package models

import (
	"fmt"

	"github.com/google/uuid"
)

type Granularity string

const (
	GranularityByUnit Granularity = "BY_UNIT"
	GranularityByRoom Granularity = "BY_ROOM"
	GranularityByBed  Granularity = "BY_BED"
)

// ParseGranularity converts "BY_UNIT" / "BY_ROOM" / "BY_BED" to the enum.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityByUnit, GranularityByRoom, GranularityByBed:
		return Granularity(s), nil
	default:
		return "", fmt.Errorf("invalid granularity: %q", s)
	}
}

// ResourceRef addresses exactly one leasable resource: a unit, a room
// or a bed, depending on Granularity. It replaces the legacy
// three-nullable-FK encoding, so "which field is set" can never be
// ambiguous.
type ResourceRef struct {
	Granularity Granularity `json:"granularity"`
	ID          uuid.UUID   `json:"id"`
}
