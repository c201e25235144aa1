package models

import (
	"time"

	"github.com/google/uuid"
)

// Room exists only under BY_ROOM / BY_BED properties.
type Room struct {
	ID        uuid.UUID `json:"id"`
	UnitID    uuid.UUID `json:"unit_id"`
	RoomLabel string    `json:"room_label"`
	CreatedAt time.Time `json:"created_at"`
}
