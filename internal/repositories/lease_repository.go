package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/utils"
)

/* ───────────── public interface ───────────── */

type LeaseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error)
	GetByApplicationID(ctx context.Context, appID uuid.UUID) (*models.Lease, error)
	ListByHolderUserID(ctx context.Context, userID uuid.UUID) ([]*models.Lease, error)
	ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Lease, error)

	// EncumberedResourceIDs returns the IDs of every resource at the
	// property that is bound to a PENDING_SIGNATURE/SIGNED/ACTIVE lease.
	EncumberedResourceIDs(ctx context.Context, propID uuid.UUID) (map[uuid.UUID]struct{}, error)
	HolderHasEncumberingLease(ctx context.Context, userID uuid.UUID, term string) (bool, error)

	// AllocateAtomic re-checks availability, the one-lease-per-holder-
	// per-term rule and the one-lease-per-application rule, then
	// inserts the lease and its LEASE_HOLDER occupant. All of it runs
	// in one transaction holding a row lock on the target resource, so
	// two racing calls for the same resource serialize and exactly one
	// wins.
	AllocateAtomic(ctx context.Context, l *models.Lease, holder *models.Occupant) error

	SignAtomic(ctx context.Context, leaseID, userID uuid.UUID) (*models.Lease, error)

	// SetStatusAtomic validates the transition under a row lock.
	// Moving into TERMINATED stamps move_out_date on every active
	// occupant in the same transaction.
	SetStatusAtomic(ctx context.Context, leaseID uuid.UUID, to models.LeaseStatusType) (*models.Lease, error)

	ListDueForActivation(ctx context.Context, asOf time.Time) ([]*models.Lease, error)
	ListDueForCompletion(ctx context.Context, asOf time.Time) ([]*models.Lease, error)
}

/* ───────────── implementation ───────────── */

type leaseRepo struct {
	db DB
}

func NewLeaseRepository(db DB) LeaseRepository {
	return &leaseRepo{db: db}
}

/* ---------- reads ---------- */

func (r *leaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error) {
	row := r.db.QueryRow(ctx, baseSelectLease()+" WHERE id=$1", id)
	return scanLease(row)
}

func (r *leaseRepo) GetByApplicationID(ctx context.Context, appID uuid.UUID) (*models.Lease, error) {
	row := r.db.QueryRow(ctx, baseSelectLease()+" WHERE application_id=$1", appID)
	return scanLease(row)
}

func (r *leaseRepo) ListByHolderUserID(ctx context.Context, userID uuid.UUID) ([]*models.Lease, error) {
	rows, err := r.db.Query(ctx, baseSelectLease()+" WHERE lease_holder_user_id=$1 ORDER BY start_date DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeases(rows)
}

func (r *leaseRepo) ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Lease, error) {
	rows, err := r.db.Query(ctx, baseSelectLease()+" WHERE property_id=$1 ORDER BY created_at", propID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeases(rows)
}

func (r *leaseRepo) EncumberedResourceIDs(ctx context.Context, propID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(unit_id, room_id, bed_id)
		FROM leases
		WHERE property_id=$1 AND status = ANY($2)
	`, propID, encumberingStatuses())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]struct{})
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

func (r *leaseRepo) HolderHasEncumberingLease(ctx context.Context, userID uuid.UUID, term string) (bool, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM leases
		WHERE lease_holder_user_id=$1 AND term=$2 AND status = ANY($3)
	`, userID, term, encumberingStatuses()).Scan(&n)
	return n > 0, err
}

func (r *leaseRepo) ListDueForActivation(ctx context.Context, asOf time.Time) ([]*models.Lease, error) {
	rows, err := r.db.Query(ctx, baseSelectLease()+" WHERE status=$1 AND start_date <= $2", models.LeaseStatusSigned, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeases(rows)
}

func (r *leaseRepo) ListDueForCompletion(ctx context.Context, asOf time.Time) ([]*models.Lease, error) {
	rows, err := r.db.Query(ctx, baseSelectLease()+" WHERE status=$1 AND end_date < $2", models.LeaseStatusActive, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeases(rows)
}

/* ---------- atomic mutations ---------- */

func (r *leaseRepo) AllocateAtomic(ctx context.Context, l *models.Lease, holder *models.Occupant) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	col, err := resourceColumn(l.Resource.Granularity)
	if err != nil {
		return err
	}

	// Lock the resource row; racing allocations for the same resource
	// serialize here.
	var locked uuid.UUID
	err = tx.QueryRow(ctx, lockResourceSQL(l.Resource.Granularity), l.Resource.ID).Scan(&locked)
	if err != nil {
		if err == pgx.ErrNoRows {
			err = utils.ErrNotFound
		}
		return err
	}

	// Availability re-check inside the transaction; a prior query
	// result is never trusted.
	var n int
	if err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM leases WHERE `+col+`=$1 AND status = ANY($2)`,
		l.Resource.ID, encumberingStatuses(),
	).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		err = utils.ErrResourceUnavailable
		return err
	}

	if err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM leases WHERE lease_holder_user_id=$1 AND term=$2 AND status = ANY($3)`,
		l.LeaseHolderUserID, l.Term, encumberingStatuses(),
	).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		err = utils.ErrHolderHasActiveLease
		return err
	}

	if err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM leases WHERE application_id=$1`, l.ApplicationID,
	).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		err = utils.ErrInvalidTransition
		return err
	}

	unitID, roomID, bedID := splitResourceRef(l.Resource)
	if _, err = tx.Exec(ctx, `
		INSERT INTO leases (
			id, application_id, lease_holder_user_id, property_id, term,
			granularity, unit_id, room_id, bed_id,
			start_date, end_date, status, total_due, due_this_month,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14, NOW(), NOW(), 1)
	`, l.ID, l.ApplicationID, l.LeaseHolderUserID, l.PropertyID, l.Term,
		l.Resource.Granularity, unitID, roomID, bedID,
		l.StartDate, l.EndDate, l.Status, l.TotalDue, l.DueThisMonth,
	); err != nil {
		err = mapLeaseInsertError(err)
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO occupants (id, lease_id, user_id, role, move_in_date, created_at)
		VALUES ($1,$2,$3,$4,$5, NOW())
	`, holder.ID, holder.LeaseID, holder.UserID, holder.Role, holder.MoveInDate)
	return err
}

func (r *leaseRepo) SignAtomic(ctx context.Context, leaseID, userID uuid.UUID) (lease *models.Lease, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectLease()+" WHERE id=$1 FOR UPDATE", leaseID)
	l, err := scanLease(row)
	if err != nil {
		return nil, err
	}
	if l == nil {
		err = utils.ErrNotFound
		return nil, err
	}
	if l.LeaseHolderUserID != userID {
		err = utils.ErrNotLeaseHolder
		return nil, err
	}
	if l.Status != models.LeaseStatusPendingSignature {
		err = utils.ErrInvalidTransition
		return nil, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE leases
		SET status=$1, signed_at=NOW(), row_version=row_version+1, updated_at=NOW()
		WHERE id=$2
	`, models.LeaseStatusSigned, leaseID); err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectLease()+" WHERE id=$1", leaseID)
	return scanLease(newRow)
}

func (r *leaseRepo) SetStatusAtomic(ctx context.Context, leaseID uuid.UUID, to models.LeaseStatusType) (lease *models.Lease, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectLease()+" WHERE id=$1 FOR UPDATE", leaseID)
	l, err := scanLease(row)
	if err != nil {
		return nil, err
	}
	if l == nil {
		err = utils.ErrNotFound
		return nil, err
	}
	if !models.CanTransitionLease(l.Status, to) {
		err = utils.ErrInvalidTransition
		return nil, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE leases
		SET status=$1, row_version=row_version+1, updated_at=NOW()
		WHERE id=$2
	`, to, leaseID); err != nil {
		return nil, err
	}

	// Termination releases the resource but keeps occupant history:
	// active occupants get their move-out stamped, never deleted.
	if to == models.LeaseStatusTerminated {
		if _, err = tx.Exec(ctx, `
			UPDATE occupants SET move_out_date=NOW()
			WHERE lease_id=$1 AND move_out_date IS NULL
		`, leaseID); err != nil {
			return nil, err
		}
	}

	newRow := tx.QueryRow(ctx, baseSelectLease()+" WHERE id=$1", leaseID)
	return scanLease(newRow)
}

/* ---------- internals ---------- */

func baseSelectLease() string {
	return `
		SELECT id, application_id, lease_holder_user_id, property_id, term,
		granularity, unit_id, room_id, bed_id,
		start_date, end_date, status, total_due, due_this_month,
		signed_at, created_at, updated_at, row_version
		FROM leases`
}

func scanLease(row pgx.Row) (*models.Lease, error) {
	var (
		l      models.Lease
		g      models.Granularity
		unitID *uuid.UUID
		roomID *uuid.UUID
		bedID  *uuid.UUID
	)
	if err := row.Scan(
		&l.ID, &l.ApplicationID, &l.LeaseHolderUserID, &l.PropertyID, &l.Term,
		&g, &unitID, &roomID, &bedID,
		&l.StartDate, &l.EndDate, &l.Status, &l.TotalDue, &l.DueThisMonth,
		&l.SignedAt, &l.CreatedAt, &l.UpdatedAt, &l.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	l.Resource = models.ResourceRef{Granularity: g}
	switch g {
	case models.GranularityByUnit:
		l.Resource.ID = *unitID
	case models.GranularityByRoom:
		l.Resource.ID = *roomID
	case models.GranularityByBed:
		l.Resource.ID = *bedID
	}
	return &l, nil
}

func scanLeases(rows pgx.Rows) ([]*models.Lease, error) {
	var out []*models.Lease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func encumberingStatuses() []string {
	out := make([]string, 0, len(models.EncumberingLeaseStatuses))
	for _, s := range models.EncumberingLeaseStatuses {
		out = append(out, string(s))
	}
	return out
}

func resourceColumn(g models.Granularity) (string, error) {
	switch g {
	case models.GranularityByUnit:
		return "unit_id", nil
	case models.GranularityByRoom:
		return "room_id", nil
	case models.GranularityByBed:
		return "bed_id", nil
	default:
		return "", utils.ErrGranularityMismatch
	}
}

func lockResourceSQL(g models.Granularity) string {
	switch g {
	case models.GranularityByUnit:
		return `SELECT id FROM units WHERE id=$1 FOR UPDATE`
	case models.GranularityByRoom:
		return `SELECT id FROM rooms WHERE id=$1 FOR UPDATE`
	default:
		return `SELECT id FROM beds WHERE id=$1 FOR UPDATE`
	}
}

// mapLeaseInsertError translates unique violations from the partial
// indexes backing the allocation invariants into their sentinels. The
// row lock serializes races on the same resource, but two allocations
// by the same holder on different resources lock different rows and
// only collide at uniq_encumbering_lease_per_holder_term.
func mapLeaseInsertError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch {
	case pgErr.ConstraintName == "uniq_encumbering_lease_per_holder_term":
		return utils.ErrHolderHasActiveLease
	case strings.HasPrefix(pgErr.ConstraintName, "uniq_encumbering_lease_per_"):
		return utils.ErrResourceUnavailable
	}
	return err
}

func splitResourceRef(ref models.ResourceRef) (unitID, roomID, bedID *uuid.UUID) {
	id := ref.ID
	switch ref.Granularity {
	case models.GranularityByUnit:
		unitID = &id
	case models.GranularityByRoom:
		roomID = &id
	case models.GranularityByBed:
		bedID = &id
	}
	return unitID, roomID, bedID
}
