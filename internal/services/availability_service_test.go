package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/utils"
)

func TestListAvailableByUnit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	avail, err := env.availability.ListAvailable(ctx, env.aptProperty.ID, nil)
	require.NoError(t, err)
	require.Len(t, avail, 2)
	require.Equal(t, "101", avail[0].UnitNumber, "ordered by unit number")
	require.Equal(t, "102", avail[1].UnitNumber)
	require.Equal(t, models.GranularityByUnit, avail[0].Ref.Granularity)

	env.allocatedLease(t, uuid.New(), "2026-FALL", models.GranularityByUnit, env.aptUnit101.ID)

	avail, err = env.availability.ListAvailable(ctx, env.aptProperty.ID, nil)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	require.Equal(t, env.aptUnit102.ID, avail[0].Ref.ID)
}

func TestListAvailableByRoomCarriesUnitCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	avail, err := env.availability.ListAvailable(ctx, env.roomProperty.ID, nil)
	require.NoError(t, err)
	require.Len(t, avail, 2)
	require.Equal(t, "A", avail[0].RoomLabel)
	require.Equal(t, "B", avail[1].RoomLabel)
	require.Equal(t, env.hallUnit.MaxOccupancy, avail[0].MaxOccupancy)
}

func TestListAvailableByBedWithUnitFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	avail, err := env.availability.ListAvailable(ctx, env.bedProperty.ID, &env.bedUnit.ID)
	require.NoError(t, err)
	require.Len(t, avail, 2)

	otherUnit := uuid.New()
	avail, err = env.availability.ListAvailable(ctx, env.bedProperty.ID, &otherUnit)
	require.NoError(t, err)
	require.Empty(t, avail)
}

func TestTerminatedLeaseFreesAvailability(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lease := env.allocatedLease(t, uuid.New(), "2026-FALL", models.GranularityByBed, env.bed1.ID)

	avail, err := env.availability.ListAvailable(ctx, env.bedProperty.ID, nil)
	require.NoError(t, err)
	require.Len(t, avail, 1)

	_, err = env.leases.SetStatus(ctx, lease.ID, models.LeaseStatusTerminated)
	require.NoError(t, err)

	avail, err = env.availability.ListAvailable(ctx, env.bedProperty.ID, nil)
	require.NoError(t, err)
	require.Len(t, avail, 2)
}

func TestListAvailableUnknownProperty(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.availability.ListAvailable(context.Background(), uuid.New(), nil)
	require.ErrorIs(t, err, utils.ErrNotFound)
}
