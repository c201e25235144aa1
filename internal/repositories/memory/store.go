// Package memory implements the repository interfaces on mutex-guarded
// in-process maps. It backs the demo mode and the hermetic service
// tests; the store-wide mutex is the "equivalent mutex" flavor of the
// engine's read-check-write atomicity, so the same invariant guarantees
// hold as with the Postgres row locks.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/repositories"
	"github.com/campuskey/housing-service/internal/utils"
)

type Store struct {
	mu sync.Mutex

	properties   map[uuid.UUID]*models.Property
	units        map[uuid.UUID]*models.Unit
	rooms        map[uuid.UUID]*models.Room
	beds         map[uuid.UUID]*models.Bed
	applications map[uuid.UUID]*models.Application
	leases       map[uuid.UUID]*models.Lease
	occupants    map[uuid.UUID]*models.Occupant
}

func NewStore() *Store {
	return &Store{
		properties:   make(map[uuid.UUID]*models.Property),
		units:        make(map[uuid.UUID]*models.Unit),
		rooms:        make(map[uuid.UUID]*models.Room),
		beds:         make(map[uuid.UUID]*models.Bed),
		applications: make(map[uuid.UUID]*models.Application),
		leases:       make(map[uuid.UUID]*models.Lease),
		occupants:    make(map[uuid.UUID]*models.Occupant),
	}
}

/* ───────────── repository views ───────────── */

func (s *Store) Properties() repositories.PropertyRepository   { return &propertyStore{s} }
func (s *Store) Units() repositories.UnitRepository            { return &unitStore{s} }
func (s *Store) Rooms() repositories.RoomRepository            { return &roomStore{s} }
func (s *Store) Beds() repositories.BedRepository              { return &bedStore{s} }
func (s *Store) Applications() repositories.ApplicationRepository {
	return &applicationStore{s}
}
func (s *Store) Leases() repositories.LeaseRepository       { return &leaseStore{s} }
func (s *Store) Occupants() repositories.OccupantRepository { return &occupantStore{s} }

/* ───────────── inventory ───────────── */

type propertyStore struct{ s *Store }

func (r *propertyStore) Create(_ context.Context, p *models.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.s.properties[cp.ID] = &cp
	return nil
}

func (r *propertyStore) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.properties[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *propertyStore) List(_ context.Context) ([]*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Property, 0, len(r.s.properties))
	for _, p := range r.s.properties {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type unitStore struct{ s *Store }

func (r *unitStore) Create(_ context.Context, u *models.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.s.units[cp.ID] = &cp
	return nil
}

func (r *unitStore) GetByID(_ context.Context, id uuid.UUID) (*models.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *unitStore) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.unitsByProperty(propID), nil
}

type roomStore struct{ s *Store }

func (r *roomStore) Create(_ context.Context, rm *models.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *rm
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.s.rooms[cp.ID] = &cp
	return nil
}

func (r *roomStore) GetByID(_ context.Context, id uuid.UUID) (*models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rm, ok := r.s.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *rm
	return &cp, nil
}

func (r *roomStore) ListByUnitID(_ context.Context, unitID uuid.UUID) ([]*models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Room
	for _, rm := range r.s.rooms {
		if rm.UnitID == unitID {
			cp := *rm
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomLabel < out[j].RoomLabel })
	return out, nil
}

func (r *roomStore) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.roomsByProperty(propID), nil
}

type bedStore struct{ s *Store }

func (r *bedStore) Create(_ context.Context, b *models.Bed) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *b
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.s.beds[cp.ID] = &cp
	return nil
}

func (r *bedStore) GetByID(_ context.Context, id uuid.UUID) (*models.Bed, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.beds[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *bedStore) ListByRoomID(_ context.Context, roomID uuid.UUID) ([]*models.Bed, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Bed
	for _, b := range r.s.beds {
		if b.RoomID == roomID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BedLabel < out[j].BedLabel })
	return out, nil
}

func (r *bedStore) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.Bed, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.bedsByProperty(propID), nil
}

/* ───────────── hierarchy helpers (callers hold s.mu) ───────────── */

func (s *Store) unitsByProperty(propID uuid.UUID) []*models.Unit {
	var out []*models.Unit
	for _, u := range s.units {
		if u.PropertyID == propID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitNumber < out[j].UnitNumber })
	return out
}

func (s *Store) roomsByProperty(propID uuid.UUID) []*models.Room {
	var out []*models.Room
	for _, rm := range s.rooms {
		u, ok := s.units[rm.UnitID]
		if ok && u.PropertyID == propID {
			cp := *rm
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ui := s.units[out[i].UnitID].UnitNumber
		uj := s.units[out[j].UnitID].UnitNumber
		if ui != uj {
			return ui < uj
		}
		return out[i].RoomLabel < out[j].RoomLabel
	})
	return out
}

func (s *Store) bedsByProperty(propID uuid.UUID) []*models.Bed {
	var out []*models.Bed
	for _, b := range s.beds {
		rm, ok := s.rooms[b.RoomID]
		if !ok {
			continue
		}
		u, ok := s.units[rm.UnitID]
		if ok && u.PropertyID == propID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := s.rooms[out[i].RoomID], s.rooms[out[j].RoomID]
		ui := s.units[ri.UnitID].UnitNumber
		uj := s.units[rj.UnitID].UnitNumber
		if ui != uj {
			return ui < uj
		}
		if ri.RoomLabel != rj.RoomLabel {
			return ri.RoomLabel < rj.RoomLabel
		}
		return out[i].BedLabel < out[j].BedLabel
	})
	return out
}

// resourceUnit resolves the unit that contains a resource ref.
func (s *Store) resourceUnit(ref models.ResourceRef) *models.Unit {
	switch ref.Granularity {
	case models.GranularityByUnit:
		return s.units[ref.ID]
	case models.GranularityByRoom:
		if rm, ok := s.rooms[ref.ID]; ok {
			return s.units[rm.UnitID]
		}
	case models.GranularityByBed:
		if b, ok := s.beds[ref.ID]; ok {
			if rm, ok := s.rooms[b.RoomID]; ok {
				return s.units[rm.UnitID]
			}
		}
	}
	return nil
}

func (s *Store) countActiveOccupants(leaseID uuid.UUID) int {
	n := 0
	for _, o := range s.occupants {
		if o.LeaseID == leaseID && o.MoveOutDate == nil {
			n++
		}
	}
	return n
}

func (s *Store) resourceEncumbered(ref models.ResourceRef) bool {
	for _, l := range s.leases {
		if l.Resource == ref && l.Status.Encumbering() {
			return true
		}
	}
	return false
}

// checkOccupantInsert mirrors the SQL-side invariant checks. Callers
// hold s.mu.
func (s *Store) checkOccupantInsert(lease *models.Lease, userID uuid.UUID, role models.OccupantRoleType) error {
	unit := s.resourceUnit(lease.Resource)
	if unit == nil {
		return utils.ErrNotFound
	}
	if s.countActiveOccupants(lease.ID) >= unit.MaxOccupancy {
		return utils.ErrLeaseFull
	}
	for _, o := range s.occupants {
		if o.LeaseID == lease.ID && o.MoveOutDate == nil {
			if o.UserID == userID {
				return utils.ErrDuplicateOccupant
			}
			if role == models.OccupantRoleLeaseHolder && o.Role == models.OccupantRoleLeaseHolder {
				return utils.ErrInvalidRole
			}
		}
	}
	return nil
}
