package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/utils"
)

/* ───────────── applications ───────────── */

type applicationStore struct{ s *Store }

func (r *applicationStore) Submit(_ context.Context, a *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.applications {
		if existing.UserID != a.UserID || existing.Status.Terminal() {
			continue
		}
		if a.IsInvite() {
			if existing.IsInvite() && *existing.InviteLeaseID == *a.InviteLeaseID {
				return utils.ErrDuplicateApplication
			}
		} else if !existing.IsInvite() && existing.Term == a.Term {
			return utils.ErrDuplicateApplication
		}
	}

	cp := *a
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	cp.RowVersion = 1
	r.s.applications[cp.ID] = &cp
	*a = cp
	return nil
}

func (r *applicationStore) GetByID(_ context.Context, id uuid.UUID) (*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *applicationStore) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Application
	for _, a := range r.s.applications {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *applicationStore) ListByTerm(_ context.Context, term string, status *models.ApplicationStatusType) ([]*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Application
	for _, a := range r.s.applications {
		if a.Term != term {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *applicationStore) SetStatusAtomic(_ context.Context, id uuid.UUID, to models.ApplicationStatusType) (*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.applications[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if !models.CanTransitionApplication(a.Status, to) {
		return nil, utils.ErrInvalidTransition
	}

	a.Status = to
	if to.Terminal() {
		a.DecidedAt = utils.Ptr(time.Now())
	}
	a.UpdatedAt = time.Now()
	a.RowVersion++
	cp := *a
	return &cp, nil
}

func (r *applicationStore) ApproveInviteAtomic(_ context.Context, id uuid.UUID) (*models.Application, *models.Occupant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.applications[id]
	if !ok {
		return nil, nil, utils.ErrNotFound
	}
	if a.InviteLeaseID == nil || !models.CanTransitionApplication(a.Status, models.ApplicationStatusApproved) {
		return nil, nil, utils.ErrInvalidTransition
	}

	lease, ok := r.s.leases[*a.InviteLeaseID]
	if !ok {
		return nil, nil, utils.ErrNotFound
	}
	if lease.Status.Terminal() {
		return nil, nil, utils.ErrInvalidTransition
	}

	// Re-check capacity at acceptance time; on failure the
	// application stays pending.
	if err := r.s.checkOccupantInsert(lease, a.UserID, models.OccupantRoleRoommate); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	occ := &models.Occupant{
		ID:         uuid.New(),
		LeaseID:    lease.ID,
		UserID:     a.UserID,
		Role:       models.OccupantRoleRoommate,
		MoveInDate: now,
		CreatedAt:  now,
	}
	r.s.occupants[occ.ID] = occ

	a.Status = models.ApplicationStatusApproved
	a.DecidedAt = utils.Ptr(now)
	a.UpdatedAt = now
	a.RowVersion++

	appCp := *a
	occCp := *occ
	return &appCp, &occCp, nil
}

func (r *applicationStore) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.applications[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.s.applications, id)
	return nil
}

/* ───────────── leases ───────────── */

type leaseStore struct{ s *Store }

func (r *leaseStore) GetByID(_ context.Context, id uuid.UUID) (*models.Lease, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leases[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *leaseStore) GetByApplicationID(_ context.Context, appID uuid.UUID) (*models.Lease, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.leases {
		if l.ApplicationID == appID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *leaseStore) ListByHolderUserID(_ context.Context, userID uuid.UUID) ([]*models.Lease, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Lease
	for _, l := range r.s.leases {
		if l.LeaseHolderUserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r *leaseStore) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.Lease, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Lease
	for _, l := range r.s.leases {
		if l.PropertyID == propID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *leaseStore) EncumberedResourceIDs(_ context.Context, propID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uuid.UUID]struct{})
	for _, l := range r.s.leases {
		if l.PropertyID == propID && l.Status.Encumbering() {
			out[l.Resource.ID] = struct{}{}
		}
	}
	return out, nil
}

func (r *leaseStore) HolderHasEncumberingLease(_ context.Context, userID uuid.UUID, term string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.leases {
		if l.LeaseHolderUserID == userID && l.Term == term && l.Status.Encumbering() {
			return true, nil
		}
	}
	return false, nil
}

func (r *leaseStore) AllocateAtomic(_ context.Context, l *models.Lease, holder *models.Occupant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.resourceUnit(l.Resource) == nil {
		return utils.ErrNotFound
	}
	if r.s.resourceEncumbered(l.Resource) {
		return utils.ErrResourceUnavailable
	}
	for _, existing := range r.s.leases {
		if existing.LeaseHolderUserID == l.LeaseHolderUserID && existing.Term == l.Term && existing.Status.Encumbering() {
			return utils.ErrHolderHasActiveLease
		}
		if existing.ApplicationID == l.ApplicationID {
			return utils.ErrInvalidTransition
		}
	}

	now := time.Now()
	leaseCp := *l
	leaseCp.CreatedAt = now
	leaseCp.UpdatedAt = now
	leaseCp.RowVersion = 1
	r.s.leases[leaseCp.ID] = &leaseCp

	occCp := *holder
	occCp.CreatedAt = now
	r.s.occupants[occCp.ID] = &occCp

	*l = leaseCp
	*holder = occCp
	return nil
}

func (r *leaseStore) SignAtomic(_ context.Context, leaseID, userID uuid.UUID) (*models.Lease, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.leases[leaseID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if l.LeaseHolderUserID != userID {
		return nil, utils.ErrNotLeaseHolder
	}
	if l.Status != models.LeaseStatusPendingSignature {
		return nil, utils.ErrInvalidTransition
	}

	now := time.Now()
	l.Status = models.LeaseStatusSigned
	l.SignedAt = &now
	l.UpdatedAt = now
	l.RowVersion++
	cp := *l
	return &cp, nil
}

func (r *leaseStore) SetStatusAtomic(_ context.Context, leaseID uuid.UUID, to models.LeaseStatusType) (*models.Lease, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.leases[leaseID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if !models.CanTransitionLease(l.Status, to) {
		return nil, utils.ErrInvalidTransition
	}

	now := time.Now()
	l.Status = to
	l.UpdatedAt = now
	l.RowVersion++

	if to == models.LeaseStatusTerminated {
		for _, o := range r.s.occupants {
			if o.LeaseID == leaseID && o.MoveOutDate == nil {
				o.MoveOutDate = utils.Ptr(now)
			}
		}
	}

	cp := *l
	return &cp, nil
}

func (r *leaseStore) ListDueForActivation(_ context.Context, asOf time.Time) ([]*models.Lease, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Lease
	for _, l := range r.s.leases {
		if l.Status == models.LeaseStatusSigned && !l.StartDate.After(asOf) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *leaseStore) ListDueForCompletion(_ context.Context, asOf time.Time) ([]*models.Lease, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Lease
	for _, l := range r.s.leases {
		if l.Status == models.LeaseStatusActive && l.EndDate.Before(asOf) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

/* ───────────── occupants ───────────── */

type occupantStore struct{ s *Store }

func (r *occupantStore) GetByID(_ context.Context, id uuid.UUID) (*models.Occupant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.occupants[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *occupantStore) ListByLeaseID(_ context.Context, leaseID uuid.UUID) ([]*models.Occupant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Occupant
	for _, o := range r.s.occupants {
		if o.LeaseID == leaseID {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri := 1
		if out[i].Role == models.OccupantRoleLeaseHolder {
			ri = 0
		}
		rj := 1
		if out[j].Role == models.OccupantRoleLeaseHolder {
			rj = 0
		}
		if ri != rj {
			return ri < rj
		}
		return out[i].MoveInDate.Before(out[j].MoveInDate)
	})
	return out, nil
}

func (r *occupantStore) CountActive(_ context.Context, leaseID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.countActiveOccupants(leaseID), nil
}

func (r *occupantStore) AddAtomic(_ context.Context, occ *models.Occupant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lease, ok := r.s.leases[occ.LeaseID]
	if !ok {
		return utils.ErrNotFound
	}
	if lease.Status.Terminal() {
		return utils.ErrInvalidTransition
	}
	if err := r.s.checkOccupantInsert(lease, occ.UserID, occ.Role); err != nil {
		return err
	}

	cp := *occ
	cp.CreatedAt = time.Now()
	r.s.occupants[cp.ID] = &cp
	*occ = cp
	return nil
}

func (r *occupantStore) RemoveAtomic(_ context.Context, id uuid.UUID) (*models.Occupant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	occ, ok := r.s.occupants[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if occ.MoveOutDate != nil {
		cp := *occ
		return &cp, nil
	}

	if occ.Role == models.OccupantRoleLeaseHolder {
		others, holders := 0, 0
		for _, o := range r.s.occupants {
			if o.LeaseID == occ.LeaseID && o.MoveOutDate == nil && o.ID != occ.ID {
				others++
				if o.Role == models.OccupantRoleLeaseHolder {
					holders++
				}
			}
		}
		if others > 0 && holders == 0 {
			return nil, utils.ErrCannotRemoveLastLeaseHolder
		}
	}

	occ.MoveOutDate = utils.Ptr(time.Now())
	cp := *occ
	return &cp, nil
}
