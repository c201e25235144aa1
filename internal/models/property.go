package models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyTypeResidenceHall PropertyType = "RESIDENCE_HALL"
	PropertyTypeApartment     PropertyType = "APARTMENT"
)

// Property is the root of the housing inventory hierarchy. Its
// LeaseGranularity is set at provisioning time and never mutated; it
// decides which child level (unit, room or bed) is leasable.
type Property struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	PropertyType     PropertyType `json:"property_type"`
	LeaseGranularity Granularity  `json:"lease_granularity"`
	Address          string       `json:"address"`
	City             string       `json:"city"`
	State            string       `json:"state"`
	ZipCode          string       `json:"zip_code"`
	CreatedAt        time.Time    `json:"created_at"`
}
