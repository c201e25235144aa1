package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/utils"
)

/* ───────────── public interface ───────────── */

type OccupantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Occupant, error)
	// ListByLeaseID orders LEASE_HOLDER first, then by move-in date.
	ListByLeaseID(ctx context.Context, leaseID uuid.UUID) ([]*models.Occupant, error)
	CountActive(ctx context.Context, leaseID uuid.UUID) (int, error)

	// AddAtomic enforces capacity, uniqueness and the single-lease-
	// holder rule under a row lock on the lease.
	AddAtomic(ctx context.Context, occ *models.Occupant) error

	// RemoveAtomic stamps move_out_date (soft removal). The sole
	// LEASE_HOLDER cannot be removed while other active occupants
	// remain.
	RemoveAtomic(ctx context.Context, id uuid.UUID) (*models.Occupant, error)
}

/* ───────────── implementation ───────────── */

type occupantRepo struct {
	db DB
}

func NewOccupantRepository(db DB) OccupantRepository {
	return &occupantRepo{db: db}
}

/* ---------- reads ---------- */

func (r *occupantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Occupant, error) {
	row := r.db.QueryRow(ctx, baseSelectOccupant()+" WHERE id=$1", id)
	return scanOccupant(row)
}

func (r *occupantRepo) ListByLeaseID(ctx context.Context, leaseID uuid.UUID) ([]*models.Occupant, error) {
	rows, err := r.db.Query(ctx, baseSelectOccupant()+`
		WHERE lease_id=$1
		ORDER BY CASE WHEN role=$2 THEN 0 ELSE 1 END, move_in_date
	`, leaseID, models.OccupantRoleLeaseHolder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOccupants(rows)
}

func (r *occupantRepo) CountActive(ctx context.Context, leaseID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM occupants WHERE lease_id=$1 AND move_out_date IS NULL`,
		leaseID,
	).Scan(&n)
	return n, err
}

/* ---------- atomic mutations ---------- */

func (r *occupantRepo) AddAtomic(ctx context.Context, occ *models.Occupant) (err error) {
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

	row := tx.QueryRow(ctx, baseSelectLease()+" WHERE id=$1 FOR UPDATE", occ.LeaseID)
	lease, err := scanLease(row)
	if err != nil {
		return err
	}
	if lease == nil {
		err = utils.ErrNotFound
		return err
	}
	if lease.Status.Terminal() {
		err = utils.ErrInvalidTransition
		return err
	}

	if err = checkOccupantInsert(ctx, tx, occ); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO occupants (id, lease_id, user_id, role, move_in_date, created_at)
		VALUES ($1,$2,$3,$4,$5, NOW())
	`, occ.ID, occ.LeaseID, occ.UserID, occ.Role, occ.MoveInDate)
	return err
}

func (r *occupantRepo) RemoveAtomic(ctx context.Context, id uuid.UUID) (removed *models.Occupant, err error) {
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

	row := tx.QueryRow(ctx, baseSelectOccupant()+" WHERE id=$1", id)
	occ, err := scanOccupant(row)
	if err != nil {
		return nil, err
	}
	if occ == nil {
		err = utils.ErrNotFound
		return nil, err
	}

	// Lock the lease first so removals serialize with AddAtomic, then
	// re-read the occupant under the lock.
	if _, err = tx.Exec(ctx, `SELECT id FROM leases WHERE id=$1 FOR UPDATE`, occ.LeaseID); err != nil {
		return nil, err
	}
	row = tx.QueryRow(ctx, baseSelectOccupant()+" WHERE id=$1 FOR UPDATE", id)
	if occ, err = scanOccupant(row); err != nil {
		return nil, err
	}

	if occ.MoveOutDate != nil {
		// already moved out; soft removal is idempotent
		return occ, nil
	}

	if occ.Role == models.OccupantRoleLeaseHolder {
		var others, holders int
		if err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FILTER (WHERE id <> $2),
			       COUNT(*) FILTER (WHERE id <> $2 AND role=$3)
			FROM occupants
			WHERE lease_id=$1 AND move_out_date IS NULL
		`, occ.LeaseID, occ.ID, models.OccupantRoleLeaseHolder).Scan(&others, &holders); err != nil {
			return nil, err
		}
		if others > 0 && holders == 0 {
			err = utils.ErrCannotRemoveLastLeaseHolder
			return nil, err
		}
	}

	if _, err = tx.Exec(ctx,
		`UPDATE occupants SET move_out_date=NOW() WHERE id=$1`, occ.ID,
	); err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectOccupant()+" WHERE id=$1", occ.ID)
	return scanOccupant(newRow)
}

/* ---------- internals shared with the application repo ---------- */

// checkOccupantInsert runs the capacity, duplicate-user and single-
// lease-holder checks. The caller must already hold the lease row lock.
func checkOccupantInsert(ctx context.Context, tx pgx.Tx, occ *models.Occupant) error {
	capacity, err := queryLeaseCapacity(ctx, tx, occ.LeaseID)
	if err != nil {
		return err
	}

	var active int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM occupants WHERE lease_id=$1 AND move_out_date IS NULL`,
		occ.LeaseID,
	).Scan(&active); err != nil {
		return err
	}
	if active >= capacity {
		return utils.ErrLeaseFull
	}

	var dup int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM occupants WHERE lease_id=$1 AND user_id=$2 AND move_out_date IS NULL`,
		occ.LeaseID, occ.UserID,
	).Scan(&dup); err != nil {
		return err
	}
	if dup > 0 {
		return utils.ErrDuplicateOccupant
	}

	if occ.Role == models.OccupantRoleLeaseHolder {
		var holders int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM occupants WHERE lease_id=$1 AND role=$2 AND move_out_date IS NULL`,
			occ.LeaseID, models.OccupantRoleLeaseHolder,
		).Scan(&holders); err != nil {
			return err
		}
		if holders > 0 {
			return utils.ErrInvalidRole
		}
	}
	return nil
}

// queryLeaseCapacity resolves maxOccupancy of the unit that contains
// the lease's resource, whichever granularity the lease has.
func queryLeaseCapacity(ctx context.Context, tx pgx.Tx, leaseID uuid.UUID) (int, error) {
	var capacity int
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(u1.max_occupancy, u2.max_occupancy, u3.max_occupancy, 0)
		FROM leases l
		LEFT JOIN units u1 ON l.unit_id = u1.id
		LEFT JOIN rooms r ON l.room_id = r.id
		LEFT JOIN units u2 ON r.unit_id = u2.id
		LEFT JOIN beds b ON l.bed_id = b.id
		LEFT JOIN rooms br ON b.room_id = br.id
		LEFT JOIN units u3 ON br.unit_id = u3.id
		WHERE l.id=$1
	`, leaseID).Scan(&capacity)
	return capacity, err
}

func baseSelectOccupant() string {
	return `
		SELECT id, lease_id, user_id, role, move_in_date, move_out_date, created_at
		FROM occupants`
}

func scanOccupant(row pgx.Row) (*models.Occupant, error) {
	var o models.Occupant
	if err := row.Scan(
		&o.ID, &o.LeaseID, &o.UserID, &o.Role,
		&o.MoveInDate, &o.MoveOutDate, &o.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func scanOccupants(rows pgx.Rows) ([]*models.Occupant, error) {
	var out []*models.Occupant
	for rows.Next() {
		o, err := scanOccupant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
