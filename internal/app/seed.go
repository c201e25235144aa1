package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/repositories"
	"github.com/campuskey/housing-service/internal/utils"
)

// SentinelPropertyID is used to check if seeding has already occurred.
const SentinelPropertyID = "aaaaaaaa-aaaa-4aaa-aaaa-aaaaaaaaaaa1"

// SeedDemoData provisions one property per granularity so every
// allocation path can be exercised out of the box. Idempotent: if the
// sentinel property exists, nothing is written.
func SeedDemoData(
	ctx context.Context,
	propRepo repositories.PropertyRepository,
	unitRepo repositories.UnitRepository,
	roomRepo repositories.RoomRepository,
	bedRepo repositories.BedRepository,
) error {
	sentinelID := uuid.MustParse(SentinelPropertyID)

	if existing, err := propRepo.GetByID(ctx, sentinelID); err != nil {
		return fmt.Errorf("failed to check for sentinel property: %w", err)
	} else if existing != nil {
		utils.Logger.Info("housing-service: Seed data already present; skipping seeding.")
		return nil
	}

	// BY_UNIT apartments: whole-unit leases, roommate invitations.
	aptID := sentinelID
	if err := propRepo.Create(ctx, &models.Property{
		ID:               aptID,
		Name:             "Maple Court Apartments",
		PropertyType:     models.PropertyTypeApartment,
		LeaseGranularity: models.GranularityByUnit,
		Address:          "100 Maple Ct",
		City:             "Arlington",
		State:            "TX",
		ZipCode:          "76010",
	}); err != nil {
		return fmt.Errorf("seed apartment property: %w", err)
	}
	for i, occ := range []int{2, 4} {
		if err := unitRepo.Create(ctx, &models.Unit{
			ID:           uuid.New(),
			PropertyID:   aptID,
			UnitNumber:   fmt.Sprintf("10%d", i+1),
			MaxOccupancy: occ,
		}); err != nil {
			return fmt.Errorf("seed apartment unit: %w", err)
		}
	}

	// BY_ROOM residence hall.
	hallID := uuid.New()
	if err := propRepo.Create(ctx, &models.Property{
		ID:               hallID,
		Name:             "Oak Hall",
		PropertyType:     models.PropertyTypeResidenceHall,
		LeaseGranularity: models.GranularityByRoom,
		Address:          "200 Oak St",
		City:             "Arlington",
		State:            "TX",
		ZipCode:          "76010",
	}); err != nil {
		return fmt.Errorf("seed room-hall property: %w", err)
	}
	hallUnit := &models.Unit{
		ID:           uuid.New(),
		PropertyID:   hallID,
		UnitNumber:   "2A",
		MaxOccupancy: 2,
	}
	if err := unitRepo.Create(ctx, hallUnit); err != nil {
		return fmt.Errorf("seed room-hall unit: %w", err)
	}
	for _, label := range []string{"A", "B"} {
		if err := roomRepo.Create(ctx, &models.Room{
			ID:        uuid.New(),
			UnitID:    hallUnit.ID,
			RoomLabel: label,
		}); err != nil {
			return fmt.Errorf("seed room-hall room: %w", err)
		}
	}

	// BY_BED residence hall: shared rooms, per-bed leases.
	bedHallID := uuid.New()
	if err := propRepo.Create(ctx, &models.Property{
		ID:               bedHallID,
		Name:             "Pine Hall",
		PropertyType:     models.PropertyTypeResidenceHall,
		LeaseGranularity: models.GranularityByBed,
		Address:          "300 Pine Ave",
		City:             "Arlington",
		State:            "TX",
		ZipCode:          "76010",
	}); err != nil {
		return fmt.Errorf("seed bed-hall property: %w", err)
	}
	bedUnit := &models.Unit{
		ID:           uuid.New(),
		PropertyID:   bedHallID,
		UnitNumber:   "3C",
		MaxOccupancy: 4,
	}
	if err := unitRepo.Create(ctx, bedUnit); err != nil {
		return fmt.Errorf("seed bed-hall unit: %w", err)
	}
	sharedRoom := &models.Room{
		ID:        uuid.New(),
		UnitID:    bedUnit.ID,
		RoomLabel: "A",
	}
	if err := roomRepo.Create(ctx, sharedRoom); err != nil {
		return fmt.Errorf("seed bed-hall room: %w", err)
	}
	for _, label := range []string{"1", "2"} {
		if err := bedRepo.Create(ctx, &models.Bed{
			ID:       uuid.New(),
			RoomID:   sharedRoom.ID,
			BedLabel: label,
		}); err != nil {
			return fmt.Errorf("seed bed-hall bed: %w", err)
		}
	}

	utils.Logger.Info("housing-service: Seeding completed successfully.")
	return nil
}
