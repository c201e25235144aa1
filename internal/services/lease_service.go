package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campuskey/housing-service/internal/dtos"
	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/repositories"
	"github.com/campuskey/housing-service/internal/utils"
)

const dateLayout = "2006-01-02"

// LeaseService owns the lease state machine. Allocation is the only
// path that binds a resource; every other transition is a status move.
type LeaseService struct {
	leaseRepo repositories.LeaseRepository
	appRepo   repositories.ApplicationRepository
	inventory *InventoryService
}

func NewLeaseService(
	leaseRepo repositories.LeaseRepository,
	appRepo repositories.ApplicationRepository,
	inventory *InventoryService,
) *LeaseService {
	return &LeaseService{
		leaseRepo: leaseRepo,
		appRepo:   appRepo,
		inventory: inventory,
	}
}

// Allocate turns an APPROVED application into a PENDING_SIGNATURE lease
// on the given resource. The applicant becomes the LEASE_HOLDER
// occupant with move-in on the start date. The availability and
// holder checks run again inside the repository transaction; this
// method's own checks only fail fast.
func (s *LeaseService) Allocate(ctx context.Context, req dtos.AllocateLeaseRequest) (*models.Lease, error) {
	app, err := s.appRepo.GetByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, utils.ErrNotFound
	}
	if app.Status != models.ApplicationStatusApproved {
		return nil, utils.ErrInvalidTransition
	}
	if app.IsInvite() {
		// Invitations join an existing lease, they never start one.
		return nil, utils.ErrInvalidTransition
	}

	g, err := models.ParseGranularity(req.Granularity)
	if err != nil {
		return nil, err
	}
	ref := models.ResourceRef{Granularity: g, ID: req.ResourceID}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, utils.ErrInvalidPayload
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, utils.ErrInvalidPayload
	}
	if !end.After(start) {
		return nil, utils.ErrInvalidPayload
	}

	prop, _, err := s.inventory.ResolveOwningProperty(ctx, ref)
	if err != nil {
		return nil, err
	}

	lease := &models.Lease{
		ID:                uuid.New(),
		ApplicationID:     app.ID,
		LeaseHolderUserID: app.UserID,
		PropertyID:        prop.ID,
		Term:              app.Term,
		Resource:          ref,
		StartDate:         start,
		EndDate:           end,
		Status:            models.LeaseStatusPendingSignature,
		TotalDue:          req.TotalDue,
		DueThisMonth:      req.DueThisMonth,
	}
	holder := &models.Occupant{
		ID:         uuid.New(),
		LeaseID:    lease.ID,
		UserID:     app.UserID,
		Role:       models.OccupantRoleLeaseHolder,
		MoveInDate: start,
	}

	if err := s.leaseRepo.AllocateAtomic(ctx, lease, holder); err != nil {
		return nil, err
	}
	return lease, nil
}

// Sign is the holder's signature. Only the lease holder may sign, and
// only from PENDING_SIGNATURE.
func (s *LeaseService) Sign(ctx context.Context, leaseID, userID uuid.UUID) (*models.Lease, error) {
	return s.leaseRepo.SignAtomic(ctx, leaseID, userID)
}

func (s *LeaseService) SetStatus(ctx context.Context, leaseID uuid.UUID, to models.LeaseStatusType) (*models.Lease, error) {
	return s.leaseRepo.SetStatusAtomic(ctx, leaseID, to)
}

/* ---------- reads ---------- */

func (s *LeaseService) GetLease(ctx context.Context, leaseID uuid.UUID) (*models.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, utils.ErrNotFound
	}
	return lease, nil
}

func (s *LeaseService) ListMyLeases(ctx context.Context, userID uuid.UUID) ([]*models.Lease, error) {
	return s.leaseRepo.ListByHolderUserID(ctx, userID)
}

func (s *LeaseService) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Lease, error) {
	if _, err := s.inventory.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.leaseRepo.ListByPropertyID(ctx, propertyID)
}
