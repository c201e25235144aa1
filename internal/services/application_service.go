package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/campuskey/housing-service/internal/dtos"
	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/repositories"
	"github.com/campuskey/housing-service/internal/utils"
)

// ApplicationService owns the application state machine and the
// roommate-invitation sub-protocol.
type ApplicationService struct {
	appRepo   repositories.ApplicationRepository
	leaseRepo repositories.LeaseRepository
	occRepo   repositories.OccupantRepository
	inventory *InventoryService
	notifier  *NotificationService
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	leaseRepo repositories.LeaseRepository,
	occRepo repositories.OccupantRepository,
	inventory *InventoryService,
	notifier *NotificationService,
) *ApplicationService {
	return &ApplicationService{
		appRepo:   appRepo,
		leaseRepo: leaseRepo,
		occRepo:   occRepo,
		inventory: inventory,
		notifier:  notifier,
	}
}

// Submit creates a fresh housing request in SUBMITTED. One open
// application per user per term.
func (s *ApplicationService) Submit(ctx context.Context, userID uuid.UUID, req dtos.SubmitApplicationRequest) (*models.Application, error) {
	if req.PreferredPropertyID != nil {
		if _, err := s.inventory.GetProperty(ctx, *req.PreferredPropertyID); err != nil {
			return nil, err
		}
	}

	app := &models.Application{
		ID:                  uuid.New(),
		UserID:              userID,
		Term:                req.Term,
		Status:              models.ApplicationStatusSubmitted,
		PreferredPropertyID: req.PreferredPropertyID,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
	}
	if err := s.appRepo.Submit(ctx, app); err != nil {
		return nil, err
	}

	s.notifier.ApplicationSubmitted(app)
	return app, nil
}

// Decide is the staff transition. Approving a roommate invitation is
// routed through the capacity-checked path, never the plain status
// update: capacity may have changed since the invitation was created.
func (s *ApplicationService) Decide(ctx context.Context, appID uuid.UUID, to models.ApplicationStatusType) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, utils.ErrNotFound
	}

	if app.IsInvite() && to == models.ApplicationStatusApproved {
		app, _, err = s.appRepo.ApproveInviteAtomic(ctx, appID)
	} else {
		app, err = s.appRepo.SetStatusAtomic(ctx, appID, to)
	}
	if err != nil {
		return nil, err
	}

	if app.Status.Terminal() {
		s.notifier.ApplicationDecided(app)
	}
	return app, nil
}

// InviteOccupant lets a BY_UNIT lease holder invite a roommate. The
// invitation is an Application for the invitee with InviteLeaseID set.
func (s *ApplicationService) InviteOccupant(ctx context.Context, leaseID, inviterUserID uuid.UUID, req dtos.InviteOccupantRequest) (*models.Application, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, utils.ErrNotFound
	}
	if lease.Resource.Granularity != models.GranularityByUnit {
		return nil, utils.ErrGranularityMismatch
	}
	if lease.LeaseHolderUserID != inviterUserID {
		return nil, utils.ErrNotLeaseHolder
	}
	if lease.Status.Terminal() {
		return nil, utils.ErrInvalidTransition
	}

	_, unit, err := s.inventory.ResolveOwningProperty(ctx, lease.Resource)
	if err != nil {
		return nil, err
	}
	active, err := s.occRepo.CountActive(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if active >= unit.MaxOccupancy {
		return nil, utils.ErrLeaseFull
	}

	occupants, err := s.occRepo.ListByLeaseID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	for _, o := range occupants {
		if o.Active() && o.UserID == req.InviteeUserID {
			return nil, utils.ErrDuplicateOccupant
		}
	}

	app := &models.Application{
		ID:            uuid.New(),
		UserID:        req.InviteeUserID,
		Term:          lease.Term,
		Status:        models.ApplicationStatusSubmitted,
		InviteLeaseID: &lease.ID,
		ContactEmail:  req.InviteeEmail,
		ContactPhone:  req.InviteePhone,
	}
	if err := s.appRepo.Submit(ctx, app); err != nil {
		return nil, err
	}

	s.notifier.InvitationCreated(app, lease)
	return app, nil
}

// AcceptInvite is the invitee's approval of their own invitation. The
// lease's capacity is re-checked in the same transaction that inserts
// the ROOMMATE occupant; on lease_full the application stays pending.
func (s *ApplicationService) AcceptInvite(ctx context.Context, appID, callerUserID uuid.UUID) (*models.Application, *models.Occupant, error) {
	app, err := s.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, nil, err
	}
	if app == nil {
		return nil, nil, utils.ErrNotFound
	}
	if app.UserID != callerUserID {
		return nil, nil, utils.ErrNotInvitee
	}
	if !app.IsInvite() {
		return nil, nil, utils.ErrInvalidTransition
	}

	app, occ, err := s.appRepo.ApproveInviteAtomic(ctx, appID)
	if err != nil {
		return nil, nil, err
	}
	s.notifier.ApplicationDecided(app)
	return app, occ, nil
}

// DeclineInvite removes a pending invitation. It has no effect on the
// target lease.
func (s *ApplicationService) DeclineInvite(ctx context.Context, appID, callerUserID uuid.UUID) error {
	app, err := s.appRepo.GetByID(ctx, appID)
	if err != nil {
		return err
	}
	if app == nil {
		return utils.ErrNotFound
	}
	if app.UserID != callerUserID {
		return utils.ErrNotInvitee
	}
	if !app.IsInvite() || app.Status.Terminal() {
		return utils.ErrInvalidTransition
	}
	return s.appRepo.Delete(ctx, appID)
}

/* ---------- reads ---------- */

func (s *ApplicationService) GetApplication(ctx context.Context, appID uuid.UUID) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, utils.ErrNotFound
	}
	return app, nil
}

func (s *ApplicationService) ListMyApplications(ctx context.Context, userID uuid.UUID) ([]*models.Application, error) {
	return s.appRepo.ListByUserID(ctx, userID)
}

func (s *ApplicationService) ListByTerm(ctx context.Context, term string, status *models.ApplicationStatusType) ([]*models.Application, error) {
	return s.appRepo.ListByTerm(ctx, term, status)
}
