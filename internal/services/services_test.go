package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/campuskey/housing-service/internal/dtos"
	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/repositories/memory"
)

// testEnv wires the full service stack onto the in-memory store with
// one property per granularity:
//
//	Maple Court (BY_UNIT): unit 101 (cap 2), unit 102 (cap 4)
//	Oak Hall   (BY_ROOM): unit 2A (cap 2) with rooms A, B
//	Pine Hall  (BY_BED):  unit 3C (cap 4) with room A, beds 1, 2
type testEnv struct {
	store *memory.Store

	inventory    *InventoryService
	availability *AvailabilityService
	applications *ApplicationService
	leases       *LeaseService
	occupancy    *OccupancyService
	scheduler    *LeaseSchedulerService

	aptProperty *models.Property
	aptUnit101  *models.Unit
	aptUnit102  *models.Unit

	roomProperty *models.Property
	hallUnit     *models.Unit
	roomA        *models.Room
	roomB        *models.Room

	bedProperty *models.Property
	bedUnit     *models.Unit
	bedRoom     *models.Room
	bed1        *models.Bed
	bed2        *models.Bed
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	env := &testEnv{store: store}

	propRepo := store.Properties()
	unitRepo := store.Units()
	roomRepo := store.Rooms()
	bedRepo := store.Beds()

	env.aptProperty = &models.Property{
		ID:               uuid.New(),
		Name:             "Maple Court Apartments",
		PropertyType:     models.PropertyTypeApartment,
		LeaseGranularity: models.GranularityByUnit,
	}
	require.NoError(t, propRepo.Create(ctx, env.aptProperty))
	env.aptUnit101 = &models.Unit{ID: uuid.New(), PropertyID: env.aptProperty.ID, UnitNumber: "101", MaxOccupancy: 2}
	env.aptUnit102 = &models.Unit{ID: uuid.New(), PropertyID: env.aptProperty.ID, UnitNumber: "102", MaxOccupancy: 4}
	require.NoError(t, unitRepo.Create(ctx, env.aptUnit101))
	require.NoError(t, unitRepo.Create(ctx, env.aptUnit102))

	env.roomProperty = &models.Property{
		ID:               uuid.New(),
		Name:             "Oak Hall",
		PropertyType:     models.PropertyTypeResidenceHall,
		LeaseGranularity: models.GranularityByRoom,
	}
	require.NoError(t, propRepo.Create(ctx, env.roomProperty))
	env.hallUnit = &models.Unit{ID: uuid.New(), PropertyID: env.roomProperty.ID, UnitNumber: "2A", MaxOccupancy: 2}
	require.NoError(t, unitRepo.Create(ctx, env.hallUnit))
	env.roomA = &models.Room{ID: uuid.New(), UnitID: env.hallUnit.ID, RoomLabel: "A"}
	env.roomB = &models.Room{ID: uuid.New(), UnitID: env.hallUnit.ID, RoomLabel: "B"}
	require.NoError(t, roomRepo.Create(ctx, env.roomA))
	require.NoError(t, roomRepo.Create(ctx, env.roomB))

	env.bedProperty = &models.Property{
		ID:               uuid.New(),
		Name:             "Pine Hall",
		PropertyType:     models.PropertyTypeResidenceHall,
		LeaseGranularity: models.GranularityByBed,
	}
	require.NoError(t, propRepo.Create(ctx, env.bedProperty))
	env.bedUnit = &models.Unit{ID: uuid.New(), PropertyID: env.bedProperty.ID, UnitNumber: "3C", MaxOccupancy: 4}
	require.NoError(t, unitRepo.Create(ctx, env.bedUnit))
	env.bedRoom = &models.Room{ID: uuid.New(), UnitID: env.bedUnit.ID, RoomLabel: "A"}
	require.NoError(t, roomRepo.Create(ctx, env.bedRoom))
	env.bed1 = &models.Bed{ID: uuid.New(), RoomID: env.bedRoom.ID, BedLabel: "1"}
	env.bed2 = &models.Bed{ID: uuid.New(), RoomID: env.bedRoom.ID, BedLabel: "2"}
	require.NoError(t, bedRepo.Create(ctx, env.bed1))
	require.NoError(t, bedRepo.Create(ctx, env.bed2))

	appRepo := store.Applications()
	leaseRepo := store.Leases()
	occRepo := store.Occupants()

	notifier := NewNotificationService(nil, nil, "no-reply@test.local", "+15005550006", "Test Housing", true)
	env.inventory = NewInventoryService(propRepo, unitRepo, roomRepo, bedRepo)
	env.availability = NewAvailabilityService(env.inventory, unitRepo, roomRepo, bedRepo, leaseRepo)
	env.applications = NewApplicationService(appRepo, leaseRepo, occRepo, env.inventory, notifier)
	env.leases = NewLeaseService(leaseRepo, appRepo, env.inventory)
	env.occupancy = NewOccupancyService(occRepo, leaseRepo)
	env.scheduler = NewLeaseSchedulerService(leaseRepo)

	return env
}

// approvedApplication submits and approves a fresh application.
func (env *testEnv) approvedApplication(t *testing.T, userID uuid.UUID, term string) *models.Application {
	t.Helper()
	ctx := context.Background()

	app, err := env.applications.Submit(ctx, userID, dtos.SubmitApplicationRequest{
		Term:         term,
		ContactEmail: "student@test.local",
	})
	require.NoError(t, err)

	app, err = env.applications.Decide(ctx, app.ID, models.ApplicationStatusApproved)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApproved, app.Status)
	return app
}

func allocateReq(appID uuid.UUID, g models.Granularity, resourceID uuid.UUID) dtos.AllocateLeaseRequest {
	return dtos.AllocateLeaseRequest{
		ApplicationID: appID,
		Granularity:   string(g),
		ResourceID:    resourceID,
		StartDate:     "2026-08-15",
		EndDate:       "2027-05-31",
		TotalDue:      8400,
		DueThisMonth:  700,
	}
}

// allocatedLease runs the full submit -> approve -> allocate path.
func (env *testEnv) allocatedLease(t *testing.T, userID uuid.UUID, term string, g models.Granularity, resourceID uuid.UUID) *models.Lease {
	t.Helper()
	app := env.approvedApplication(t, userID, term)
	lease, err := env.leases.Allocate(context.Background(), allocateReq(app.ID, g, resourceID))
	require.NoError(t, err)
	return lease
}
