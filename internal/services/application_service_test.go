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

/*
------------------------------------------------------------------------------

	Submitting and deciding

------------------------------------------------------------------------------
*/

func TestSubmitApplication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	app, err := env.applications.Submit(ctx, userID, dtos.SubmitApplicationRequest{
		Term:                "2026-FALL",
		PreferredPropertyID: &env.aptProperty.ID,
		ContactEmail:        "student@test.local",
	})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusSubmitted, app.Status)
	require.Equal(t, userID, app.UserID)
	require.False(t, app.IsInvite())
}

func TestSubmitRejectsUnknownPreferredProperty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bogus := uuid.New()

	_, err := env.applications.Submit(ctx, uuid.New(), dtos.SubmitApplicationRequest{
		Term:                "2026-FALL",
		PreferredPropertyID: &bogus,
		ContactEmail:        "student@test.local",
	})
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestSubmitRejectsSecondOpenApplicationSameTerm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := env.applications.Submit(ctx, userID, dtos.SubmitApplicationRequest{
		Term:         "2026-FALL",
		ContactEmail: "student@test.local",
	})
	require.NoError(t, err)

	_, err = env.applications.Submit(ctx, userID, dtos.SubmitApplicationRequest{
		Term:         "2026-FALL",
		ContactEmail: "student@test.local",
	})
	require.ErrorIs(t, err, utils.ErrDuplicateApplication)

	// A different term is a different queue.
	_, err = env.applications.Submit(ctx, userID, dtos.SubmitApplicationRequest{
		Term:         "2027-SPRING",
		ContactEmail: "student@test.local",
	})
	require.NoError(t, err)
}

func TestDecideTerminalStatesAreFinal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	app, err := env.applications.Submit(ctx, uuid.New(), dtos.SubmitApplicationRequest{
		Term:         "2026-FALL",
		ContactEmail: "student@test.local",
	})
	require.NoError(t, err)

	rejected, err := env.applications.Decide(ctx, app.ID, models.ApplicationStatusRejected)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusRejected, rejected.Status)
	require.NotNil(t, rejected.DecidedAt)

	_, err = env.applications.Decide(ctx, app.ID, models.ApplicationStatusApproved)
	require.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestDecideApprovesStraightFromSubmitted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	app, err := env.applications.Submit(ctx, uuid.New(), dtos.SubmitApplicationRequest{
		Term:         "2026-FALL",
		ContactEmail: "student@test.local",
	})
	require.NoError(t, err)

	// UNDER_REVIEW is optional; SUBMITTED -> APPROVED is allowed.
	approved, err := env.applications.Decide(ctx, app.ID, models.ApplicationStatusApproved)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApproved, approved.Status)
}

/*
------------------------------------------------------------------------------

	Roommate invitations

------------------------------------------------------------------------------
*/

func (env *testEnv) invite(t *testing.T, leaseID, inviterID, inviteeID uuid.UUID) *models.Application {
	t.Helper()
	inv, err := env.applications.InviteOccupant(context.Background(), leaseID, inviterID, dtos.InviteOccupantRequest{
		InviteeUserID: inviteeID,
		InviteeEmail:  "invitee@test.local",
	})
	require.NoError(t, err)
	return inv
}

func TestInviteAcceptFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	holderID := uuid.New()
	inviteeID := uuid.New()

	lease := env.allocatedLease(t, holderID, "2026-FALL", models.GranularityByUnit, env.aptUnit101.ID)
	inv := env.invite(t, lease.ID, holderID, inviteeID)
	require.True(t, inv.IsInvite())
	require.Equal(t, lease.Term, inv.Term)
	require.Equal(t, models.ApplicationStatusSubmitted, inv.Status)

	app, occ, err := env.applications.AcceptInvite(ctx, inv.ID, inviteeID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApproved, app.Status)
	require.Equal(t, models.OccupantRoleRoommate, occ.Role)
	require.Equal(t, inviteeID, occ.UserID)

	occupants, err := env.occupancy.ListOccupants(ctx, lease.ID)
	require.NoError(t, err)
	require.Len(t, occupants, 2)
	require.Equal(t, models.OccupantRoleLeaseHolder, occupants[0].Role, "holder sorts first")
}

func TestInviteRequiresUnitGranularity(t *testing.T) {
	env := newTestEnv(t)
	holderID := uuid.New()

	lease := env.allocatedLease(t, holderID, "2026-FALL", models.GranularityByRoom, env.roomA.ID)

	_, err := env.applications.InviteOccupant(context.Background(), lease.ID, holderID, dtos.InviteOccupantRequest{
		InviteeUserID: uuid.New(),
		InviteeEmail:  "invitee@test.local",
	})
	require.ErrorIs(t, err, utils.ErrGranularityMismatch)
}

func TestInviteRequiresLeaseHolder(t *testing.T) {
	env := newTestEnv(t)

	lease := env.allocatedLease(t, uuid.New(), "2026-FALL", models.GranularityByUnit, env.aptUnit101.ID)

	_, err := env.applications.InviteOccupant(context.Background(), lease.ID, uuid.New(), dtos.InviteOccupantRequest{
		InviteeUserID: uuid.New(),
		InviteeEmail:  "invitee@test.local",
	})
	require.ErrorIs(t, err, utils.ErrNotLeaseHolder)
}

func TestInviteRejectsWhenLeaseFull(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	holderID := uuid.New()

	// Unit 101 caps at 2: holder + one added occupant fills it.
	lease := env.allocatedLease(t, holderID, "2026-FALL", models.GranularityByUnit, env.aptUnit101.ID)
	_, err := env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
		UserID: uuid.New(),
		Role:   string(models.OccupantRoleOccupant),
	})
	require.NoError(t, err)

	_, err = env.applications.InviteOccupant(ctx, lease.ID, holderID, dtos.InviteOccupantRequest{
		InviteeUserID: uuid.New(),
		InviteeEmail:  "invitee@test.local",
	})
	require.ErrorIs(t, err, utils.ErrLeaseFull)
}

func TestAcceptInviteRechecksCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	holderID := uuid.New()
	inviteeID := uuid.New()

	lease := env.allocatedLease(t, holderID, "2026-FALL", models.GranularityByUnit, env.aptUnit101.ID)
	inv := env.invite(t, lease.ID, holderID, inviteeID)

	// Capacity fills between invitation and acceptance.
	_, err := env.occupancy.AddOccupant(ctx, lease.ID, dtos.AddOccupantRequest{
		UserID: uuid.New(),
		Role:   string(models.OccupantRoleOccupant),
	})
	require.NoError(t, err)

	_, _, err = env.applications.AcceptInvite(ctx, inv.ID, inviteeID)
	require.ErrorIs(t, err, utils.ErrLeaseFull)

	// The invitation survives the failed acceptance; if space opens up
	// again the invitee can retry.
	got, err := env.applications.GetApplication(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusSubmitted, got.Status)
}

func TestAcceptInviteRejectsWrongCaller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	holderID := uuid.New()

	lease := env.allocatedLease(t, holderID, "2026-FALL", models.GranularityByUnit, env.aptUnit101.ID)
	inv := env.invite(t, lease.ID, holderID, uuid.New())

	_, _, err := env.applications.AcceptInvite(ctx, inv.ID, uuid.New())
	require.ErrorIs(t, err, utils.ErrNotInvitee)
}

func TestDeclineInviteDeletesApplication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	holderID := uuid.New()
	inviteeID := uuid.New()

	lease := env.allocatedLease(t, holderID, "2026-FALL", models.GranularityByUnit, env.aptUnit101.ID)
	inv := env.invite(t, lease.ID, holderID, inviteeID)

	require.NoError(t, env.applications.DeclineInvite(ctx, inv.ID, inviteeID))

	_, err := env.applications.GetApplication(ctx, inv.ID)
	require.ErrorIs(t, err, utils.ErrNotFound)

	// The lease is untouched.
	occupants, err := env.occupancy.ListOccupants(ctx, lease.ID)
	require.NoError(t, err)
	require.Len(t, occupants, 1)
}

func TestStaffApprovalOfInviteUsesCapacityPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	holderID := uuid.New()
	inviteeID := uuid.New()

	lease := env.allocatedLease(t, holderID, "2026-FALL", models.GranularityByUnit, env.aptUnit101.ID)
	inv := env.invite(t, lease.ID, holderID, inviteeID)

	// Staff approving an invitation must insert the occupant too.
	app, err := env.applications.Decide(ctx, inv.ID, models.ApplicationStatusApproved)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApproved, app.Status)

	occupants, err := env.occupancy.ListOccupants(ctx, lease.ID)
	require.NoError(t, err)
	require.Len(t, occupants, 2)
}
