package models

import (
	"time"

	"github.com/google/uuid"
)

// Bed exists only under BY_BED properties.
type Bed struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	BedLabel  string    `json:"bed_label"`
	CreatedAt time.Time `json:"created_at"`
}
