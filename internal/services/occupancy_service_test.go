package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/campuskey/housing-service/internal/dtos"
	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/utils"
)

func TestAddOccupantUpToCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Unit 102 caps at 4: holder + 3 more fit, the 4th extra does not.
	lease := env.allocatedLease(t, uuid.New(), "2026-FALL", models.GranularityByUnit, env.aptUnit102.ID)

	for i := 0; i < 3; i++ {
		_, err := env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
			UserID: uuid.New(),
			Role:   string(models.OccupantRoleOccupant),
		})
		require.NoError(t, err)
	}

	_, err := env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
		UserID: uuid.New(),
		Role:   string(models.OccupantRoleOccupant),
	})
	require.ErrorIs(t, err, utils.ErrLeaseFull)
}

func TestAddOccupantRejectsDuplicateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lease := env.allocatedLease(t, uuid.New(), "2026-FALL", models.GranularityByUnit, env.aptUnit102.ID)

	userID := uuid.New()
	_, err := env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
		UserID: userID,
		Role:   string(models.OccupantRoleOccupant),
	})
	require.NoError(t, err)

	_, err = env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
		UserID: userID,
		Role:   string(models.OccupantRoleOccupant),
	})
	require.ErrorIs(t, err, utils.ErrDuplicateOccupant)
}

func TestAddOccupantRejectsSecondLeaseHolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lease := env.allocatedLease(t, uuid.New(), "2026-FALL", models.GranularityByUnit, env.aptUnit102.ID)

	_, err := env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
		UserID: uuid.New(),
		Role:   string(models.OccupantRoleLeaseHolder),
	})
	require.ErrorIs(t, err, utils.ErrInvalidRole)
}

func TestAddOccupantRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lease := env.allocatedLease(t, uuid.New(), "2026-FALL", models.GranularityByUnit, env.aptUnit102.ID)

	_, err := env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
		UserID: uuid.New(),
		Role:   "SUBLETTER",
	})
	require.ErrorIs(t, err, utils.ErrInvalidRole)
}

func TestAddOccupantRejectsTerminalLease(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lease := env.allocatedLease(t, uuid.New(), "2026-FALL", models.GranularityByUnit, env.aptUnit102.ID)
	_, err := env.leases.SetStatus(ctx, lease.ID, models.LeaseStatusTerminated)
	require.NoError(t, err)

	_, err = env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
		UserID: uuid.New(),
		Role:   string(models.OccupantRoleOccupant),
	})
	require.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestRemoveOccupantIsSoftAndIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lease := env.allocatedLease(t, uuid.New(), "2026-FALL", models.GranularityByUnit, env.aptUnit102.ID)
	occ, err := env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
		UserID: uuid.New(),
		Role:   string(models.OccupantRoleOccupant),
	})
	require.NoError(t, err)

	removed, err := env.occupancy.RemoveOccupant(ctx, lease.ID, occ.ID)
	require.NoError(t, err)
	require.NotNil(t, removed.MoveOutDate)

	// The row is kept for history and a second removal is a no-op.
	again, err := env.occupancy.RemoveOccupant(ctx, lease.ID, occ.ID)
	require.NoError(t, err)
	require.Equal(t, removed.MoveOutDate.Unix(), again.MoveOutDate.Unix())

	// Freed capacity is usable again.
	_, err = env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
		UserID: uuid.New(),
		Role:   string(models.OccupantRoleOccupant),
	})
	require.NoError(t, err)
}

func TestRemoveLastLeaseHolderBlockedWhileOthersRemain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	holderID := uuid.New()

	lease := env.allocatedLease(t, holderID, "2026-FALL", models.GranularityByUnit, env.aptUnit102.ID)
	occupants, err := env.occupancy.ListOccupants(ctx, lease.ID)
	require.NoError(t, err)
	holderOcc := occupants[0]

	other, err := env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
		UserID: uuid.New(),
		Role:   string(models.OccupantRoleOccupant),
	})
	require.NoError(t, err)

	_, err = env.occupancy.RemoveOccupant(ctx, lease.ID, holderOcc.ID)
	require.ErrorIs(t, err, utils.ErrCannotRemoveLastLeaseHolder)

	// Once everyone else is out, the holder can leave too.
	_, err = env.occupancy.RemoveOccupant(ctx, lease.ID, other.ID)
	require.NoError(t, err)
	_, err = env.occupancy.RemoveOccupant(ctx, lease.ID, holderOcc.ID)
	require.NoError(t, err)
}

func TestRemoveOccupantRejectsWrongLease(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	leaseA := env.allocatedLease(t, uuid.New(), "2026-FALL", models.GranularityByUnit, env.aptUnit101.ID)
	leaseB := env.allocatedLease(t, uuid.New(), "2026-FALL", models.GranularityByUnit, env.aptUnit102.ID)

	occupantsA, err := env.occupancy.ListOccupants(ctx, leaseA.ID)
	require.NoError(t, err)

	_, err = env.occupancy.RemoveOccupant(ctx, leaseB.ID, occupantsA[0].ID)
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestListOccupantsOrdersHolderFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	holderID := uuid.New()

	lease := env.allocatedLease(t, holderID, "2026-FALL", models.GranularityByUnit, env.aptUnit102.ID)
	for i := 0; i < 2; i++ {
		_, err := env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
			UserID: uuid.New(),
			Role:   string(models.OccupantRoleRoommate),
		})
		require.NoError(t, err)
	}

	occupants, err := env.occupancy.ListOccupants(ctx, lease.ID)
	require.NoError(t, err)
	require.Len(t, occupants, 3)
	require.Equal(t, models.OccupantRoleLeaseHolder, occupants[0].Role)
	require.Equal(t, holderID, occupants[0].UserID)
}
