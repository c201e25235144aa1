package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/repositories"
	"github.com/campuskey/housing-service/internal/utils"
)

// AvailableResource is one leasable resource with no overlapping
// non-terminal lease, flattened with its labels for listing.
type AvailableResource struct {
	Ref               models.ResourceRef `json:"ref"`
	UnitID            uuid.UUID          `json:"unit_id"`
	UnitNumber        string             `json:"unit_number"`
	RoomLabel         string             `json:"room_label,omitempty"`
	BedLabel          string             `json:"bed_label,omitempty"`
	MaxOccupancy      int                `json:"max_occupancy"`
	RequiresAdaAccess bool               `json:"requires_ada_access"`
}

// AvailabilityService answers "which resources at this property are
// currently unencumbered". It is read-only: the allocation path never
// trusts its answer, it re-checks inside the allocation transaction.
type AvailabilityService struct {
	inventory *InventoryService
	unitRepo  repositories.UnitRepository
	roomRepo  repositories.RoomRepository
	bedRepo   repositories.BedRepository
	leaseRepo repositories.LeaseRepository
}

func NewAvailabilityService(
	inventory *InventoryService,
	unitRepo repositories.UnitRepository,
	roomRepo repositories.RoomRepository,
	bedRepo repositories.BedRepository,
	leaseRepo repositories.LeaseRepository,
) *AvailabilityService {
	return &AvailabilityService{
		inventory: inventory,
		unitRepo:  unitRepo,
		roomRepo:  roomRepo,
		bedRepo:   bedRepo,
		leaseRepo: leaseRepo,
	}
}

// ListAvailable enumerates resources at the property's granularity and
// drops every one bound to a PENDING_SIGNATURE/SIGNED/ACTIVE lease.
// Ordering is unit number, then room label, then bed label, so
// repeated calls page stably. unitFilter narrows BY_ROOM/BY_BED
// listings to a single unit.
func (s *AvailabilityService) ListAvailable(ctx context.Context, propertyID uuid.UUID, unitFilter *uuid.UUID) ([]AvailableResource, error) {
	prop, err := s.inventory.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	encumbered, err := s.leaseRepo.EncumberedResourceIDs(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	switch prop.LeaseGranularity {
	case models.GranularityByUnit:
		return s.availableUnits(ctx, propertyID, encumbered)
	case models.GranularityByRoom:
		return s.availableRooms(ctx, propertyID, unitFilter, encumbered)
	case models.GranularityByBed:
		return s.availableBeds(ctx, propertyID, unitFilter, encumbered)
	default:
		return nil, utils.ErrGranularityMismatch
	}
}

func (s *AvailabilityService) availableUnits(ctx context.Context, propertyID uuid.UUID, encumbered map[uuid.UUID]struct{}) ([]AvailableResource, error) {
	units, err := s.unitRepo.ListByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	out := make([]AvailableResource, 0, len(units))
	for _, u := range units {
		if _, taken := encumbered[u.ID]; taken {
			continue
		}
		out = append(out, AvailableResource{
			Ref:               models.ResourceRef{Granularity: models.GranularityByUnit, ID: u.ID},
			UnitID:            u.ID,
			UnitNumber:        u.UnitNumber,
			MaxOccupancy:      u.MaxOccupancy,
			RequiresAdaAccess: u.RequiresAdaAccess,
		})
	}
	return out, nil
}

func (s *AvailabilityService) availableRooms(ctx context.Context, propertyID uuid.UUID, unitFilter *uuid.UUID, encumbered map[uuid.UUID]struct{}) ([]AvailableResource, error) {
	rooms, err := s.roomRepo.ListByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	unitsByID, err := s.unitIndex(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	out := make([]AvailableResource, 0, len(rooms))
	for _, rm := range rooms {
		if unitFilter != nil && rm.UnitID != *unitFilter {
			continue
		}
		if _, taken := encumbered[rm.ID]; taken {
			continue
		}
		u := unitsByID[rm.UnitID]
		if u == nil {
			continue
		}
		out = append(out, AvailableResource{
			Ref:               models.ResourceRef{Granularity: models.GranularityByRoom, ID: rm.ID},
			UnitID:            u.ID,
			UnitNumber:        u.UnitNumber,
			RoomLabel:         rm.RoomLabel,
			MaxOccupancy:      u.MaxOccupancy,
			RequiresAdaAccess: u.RequiresAdaAccess,
		})
	}
	return out, nil
}

func (s *AvailabilityService) availableBeds(ctx context.Context, propertyID uuid.UUID, unitFilter *uuid.UUID, encumbered map[uuid.UUID]struct{}) ([]AvailableResource, error) {
	beds, err := s.bedRepo.ListByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.roomRepo.ListByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	unitsByID, err := s.unitIndex(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	roomsByID := make(map[uuid.UUID]*models.Room, len(rooms))
	for _, rm := range rooms {
		roomsByID[rm.ID] = rm
	}

	out := make([]AvailableResource, 0, len(beds))
	for _, b := range beds {
		rm := roomsByID[b.RoomID]
		if rm == nil {
			continue
		}
		if unitFilter != nil && rm.UnitID != *unitFilter {
			continue
		}
		if _, taken := encumbered[b.ID]; taken {
			continue
		}
		u := unitsByID[rm.UnitID]
		if u == nil {
			continue
		}
		out = append(out, AvailableResource{
			Ref:               models.ResourceRef{Granularity: models.GranularityByBed, ID: b.ID},
			UnitID:            u.ID,
			UnitNumber:        u.UnitNumber,
			RoomLabel:         rm.RoomLabel,
			BedLabel:          b.BedLabel,
			MaxOccupancy:      u.MaxOccupancy,
			RequiresAdaAccess: u.RequiresAdaAccess,
		})
	}
	return out, nil
}

func (s *AvailabilityService) unitIndex(ctx context.Context, propertyID uuid.UUID) (map[uuid.UUID]*models.Unit, error) {
	units, err := s.unitRepo.ListByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Unit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	return byID, nil
}
