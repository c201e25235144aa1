package services

import (
	"context"
	"time"

	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/repositories"
	"github.com/campuskey/housing-service/internal/utils"
)

// LeaseSchedulerService drives the calendar transitions: SIGNED leases
// whose start date has arrived become ACTIVE, ACTIVE leases past their
// end date become COMPLETED. Each lease is moved through the same
// locked transition path the API uses, and a failure on one lease
// never blocks the rest of the batch.
type LeaseSchedulerService struct {
	leaseRepo repositories.LeaseRepository
}

func NewLeaseSchedulerService(leaseRepo repositories.LeaseRepository) *LeaseSchedulerService {
	return &LeaseSchedulerService{leaseRepo: leaseRepo}
}

func (s *LeaseSchedulerService) RunDailyLeaseMaintenance(ctx context.Context) {
	now := time.Now().UTC()

	due, err := s.leaseRepo.ListDueForActivation(ctx, now)
	if err != nil {
		utils.Logger.WithError(err).Error("lease maintenance: list due for activation failed")
	} else {
		for _, l := range due {
			if _, err := s.leaseRepo.SetStatusAtomic(ctx, l.ID, models.LeaseStatusActive); err != nil {
				utils.Logger.WithError(err).Warnf("lease maintenance: activate %s failed", l.ID)
			}
		}
	}

	ended, err := s.leaseRepo.ListDueForCompletion(ctx, now)
	if err != nil {
		utils.Logger.WithError(err).Error("lease maintenance: list due for completion failed")
		return
	}
	for _, l := range ended {
		if _, err := s.leaseRepo.SetStatusAtomic(ctx, l.ID, models.LeaseStatusCompleted); err != nil {
			utils.Logger.WithError(err).Warnf("lease maintenance: complete %s failed", l.ID)
		}
	}
}
