package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/repositories"
	"github.com/campuskey/housing-service/internal/utils"
)

// InventoryService exposes the Property → Unit → (Room → Bed)
// hierarchy and enforces the granularity contract whenever a resource
// reference enters the engine. Structural edits are an administrative
// concern; this engine only reads the hierarchy.
type InventoryService struct {
	propRepo repositories.PropertyRepository
	unitRepo repositories.UnitRepository
	roomRepo repositories.RoomRepository
	bedRepo  repositories.BedRepository
}

func NewInventoryService(
	propRepo repositories.PropertyRepository,
	unitRepo repositories.UnitRepository,
	roomRepo repositories.RoomRepository,
	bedRepo repositories.BedRepository,
) *InventoryService {
	return &InventoryService{
		propRepo: propRepo,
		unitRepo: unitRepo,
		roomRepo: roomRepo,
		bedRepo:  bedRepo,
	}
}

func (s *InventoryService) ResolveGranularity(ctx context.Context, propertyID uuid.UUID) (models.Granularity, error) {
	prop, err := s.propRepo.GetByID(ctx, propertyID)
	if err != nil {
		return "", err
	}
	if prop == nil {
		return "", utils.ErrNotFound
	}
	return prop.LeaseGranularity, nil
}

// ValidateResourceRef fails with granularity_mismatch when ref
// addresses a level other than the one the property leases at, and
// not_found when the resource does not exist under that property.
func (s *InventoryService) ValidateResourceRef(ctx context.Context, propertyID uuid.UUID, ref models.ResourceRef) error {
	g, err := s.ResolveGranularity(ctx, propertyID)
	if err != nil {
		return err
	}
	if g != ref.Granularity {
		return utils.ErrGranularityMismatch
	}

	prop, unit, err := s.ResolveOwningProperty(ctx, ref)
	if err != nil {
		return err
	}
	if prop.ID != propertyID || unit == nil {
		return utils.ErrNotFound
	}
	return nil
}

// ResolveOwningProperty walks a resource ref up to its containing unit
// and owning property, and checks the property leases at the ref's
// level.
func (s *InventoryService) ResolveOwningProperty(ctx context.Context, ref models.ResourceRef) (*models.Property, *models.Unit, error) {
	unit, err := s.resolveUnit(ctx, ref)
	if err != nil {
		return nil, nil, err
	}

	prop, err := s.propRepo.GetByID(ctx, unit.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	if prop == nil {
		return nil, nil, utils.ErrNotFound
	}
	if prop.LeaseGranularity != ref.Granularity {
		return nil, nil, utils.ErrGranularityMismatch
	}
	return prop, unit, nil
}

func (s *InventoryService) resolveUnit(ctx context.Context, ref models.ResourceRef) (*models.Unit, error) {
	switch ref.Granularity {
	case models.GranularityByUnit:
		unit, err := s.unitRepo.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, utils.ErrNotFound
		}
		return unit, nil

	case models.GranularityByRoom:
		room, err := s.roomRepo.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, utils.ErrNotFound
		}
		unit, err := s.unitRepo.GetByID(ctx, room.UnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, utils.ErrNotFound
		}
		return unit, nil

	case models.GranularityByBed:
		bed, err := s.bedRepo.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if bed == nil {
			return nil, utils.ErrNotFound
		}
		room, err := s.roomRepo.GetByID(ctx, bed.RoomID)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, utils.ErrNotFound
		}
		unit, err := s.unitRepo.GetByID(ctx, room.UnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, utils.ErrNotFound
		}
		return unit, nil

	default:
		return nil, utils.ErrGranularityMismatch
	}
}

/* ---------- read-only hierarchy lookups ---------- */

func (s *InventoryService) GetProperty(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	prop, err := s.propRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, utils.ErrNotFound
	}
	return prop, nil
}

func (s *InventoryService) ListProperties(ctx context.Context) ([]*models.Property, error) {
	return s.propRepo.List(ctx)
}

func (s *InventoryService) ListUnits(ctx context.Context, propertyID uuid.UUID) ([]*models.Unit, error) {
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.unitRepo.ListByPropertyID(ctx, propertyID)
}

func (s *InventoryService) ListRooms(ctx context.Context, unitID uuid.UUID) ([]*models.Room, error) {
	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, utils.ErrNotFound
	}
	return s.roomRepo.ListByUnitID(ctx, unitID)
}

func (s *InventoryService) ListBeds(ctx context.Context, roomID uuid.UUID) ([]*models.Bed, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, utils.ErrNotFound
	}
	return s.bedRepo.ListByRoomID(ctx, roomID)
}
