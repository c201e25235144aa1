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

// OccupancyService manages the people attached to a lease. Capacity
// and role checks live in the repository so they run under the lease
// row lock.
type OccupancyService struct {
	occRepo   repositories.OccupantRepository
	leaseRepo repositories.LeaseRepository
}

func NewOccupancyService(
	occRepo repositories.OccupantRepository,
	leaseRepo repositories.LeaseRepository,
) *OccupancyService {
	return &OccupancyService{
		occRepo:   occRepo,
		leaseRepo: leaseRepo,
	}
}

// AddOccupant is the staff path for attaching a person directly,
// bypassing the invitation flow. Move-in is stamped now.
func (s *OccupancyService) AddOccupant(ctx context.Context, leaseID uuid.UUID, req dtos.AddOccupantRequest) (*models.Occupant, error) {
	role, ok := models.ParseOccupantRole(req.Role)
	if !ok {
		return nil, utils.ErrInvalidRole
	}

	occ := &models.Occupant{
		ID:         uuid.New(),
		LeaseID:    leaseID,
		UserID:     req.UserID,
		Role:       role,
		MoveInDate: time.Now().UTC(),
	}
	if err := s.occRepo.AddAtomic(ctx, occ); err != nil {
		return nil, err
	}
	return occ, nil
}

// RemoveOccupant stamps a move-out date. The record stays for history;
// the last lease holder can never be removed.
func (s *OccupancyService) RemoveOccupant(ctx context.Context, leaseID, occupantID uuid.UUID) (*models.Occupant, error) {
	occ, err := s.occRepo.GetByID(ctx, occupantID)
	if err != nil {
		return nil, err
	}
	if occ == nil || occ.LeaseID != leaseID {
		return nil, utils.ErrNotFound
	}
	return s.occRepo.RemoveAtomic(ctx, occupantID)
}

func (s *OccupancyService) ListOccupants(ctx context.Context, leaseID uuid.UUID) ([]*models.Occupant, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, utils.ErrNotFound
	}
	return s.occRepo.ListByLeaseID(ctx, leaseID)
}
