package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/utils"
)

/* ───────────── public interface ───────────── */

type ApplicationRepository interface {
	// Submit inserts the application after checking the one-open-
	// application-per-user-per-term rule; a partial unique index backs
	// the check against races.
	Submit(ctx context.Context, a *models.Application) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Application, error)
	ListByTerm(ctx context.Context, term string, status *models.ApplicationStatusType) ([]*models.Application, error)

	// SetStatusAtomic validates the transition under a row lock.
	// Callers must route invite approvals to ApproveInviteAtomic.
	SetStatusAtomic(ctx context.Context, id uuid.UUID, to models.ApplicationStatusType) (*models.Application, error)

	// ApproveInviteAtomic approves a roommate invitation and inserts
	// the ROOMMATE occupant in the same transaction, re-checking that
	// the target lease is still non-terminal and has spare capacity.
	// On lease_full the transaction rolls back and the application
	// stays pending.
	ApproveInviteAtomic(ctx context.Context, id uuid.UUID) (*models.Application, *models.Occupant, error)

	// Delete removes a pending invitation (decline). It has no effect
	// on the target lease.
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type applicationRepo struct {
	db DB
}

func NewApplicationRepository(db DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

/* ---------- create ---------- */

func (r *applicationRepo) Submit(ctx context.Context, a *models.Application) (err error) {
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

	// Invitations dedupe per target lease; fresh applications dedupe
	// per term. They never collide with each other, so an invitee can
	// hold their own open application and a pending invitation at once.
	var n int
	if a.IsInvite() {
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM applications WHERE user_id=$1 AND invite_lease_id=$2 AND status = ANY($3)`,
			a.UserID, a.InviteLeaseID, pendingApplicationStatuses(),
		).Scan(&n)
	} else {
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM applications WHERE user_id=$1 AND term=$2 AND invite_lease_id IS NULL AND status = ANY($3)`,
			a.UserID, a.Term, pendingApplicationStatuses(),
		).Scan(&n)
	}
	if err != nil {
		return err
	}
	if n > 0 {
		err = utils.ErrDuplicateApplication
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO applications (
			id, user_id, term, status, preferred_property_id, invite_lease_id,
			contact_email, contact_phone, created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
	`, a.ID, a.UserID, a.Term, a.Status, a.PreferredPropertyID, a.InviteLeaseID,
		a.ContactEmail, a.ContactPhone)
	if isUniqueViolation(err) {
		err = utils.ErrDuplicateApplication
	}
	return err
}

/* ---------- reads ---------- */

func (r *applicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	row := r.db.QueryRow(ctx, baseSelectApplication()+" WHERE id=$1", id)
	return scanApplication(row)
}

func (r *applicationRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Application, error) {
	rows, err := r.db.Query(ctx, baseSelectApplication()+" WHERE user_id=$1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *applicationRepo) ListByTerm(ctx context.Context, term string, status *models.ApplicationStatusType) ([]*models.Application, error) {
	sql := baseSelectApplication() + " WHERE term=$1"
	args := []any{term}
	if status != nil {
		sql += " AND status=$2"
		args = append(args, *status)
	}
	sql += " ORDER BY created_at"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

/* ---------- atomic mutations ---------- */

func (r *applicationRepo) SetStatusAtomic(ctx context.Context, id uuid.UUID, to models.ApplicationStatusType) (app *models.Application, err error) {
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

	row := tx.QueryRow(ctx, baseSelectApplication()+" WHERE id=$1 FOR UPDATE", id)
	a, err := scanApplication(row)
	if err != nil {
		return nil, err
	}
	if a == nil {
		err = utils.ErrNotFound
		return nil, err
	}
	if !models.CanTransitionApplication(a.Status, to) {
		err = utils.ErrInvalidTransition
		return nil, err
	}

	if err = execApplicationStatus(ctx, tx, id, to); err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectApplication()+" WHERE id=$1", id)
	return scanApplication(newRow)
}

func (r *applicationRepo) ApproveInviteAtomic(ctx context.Context, id uuid.UUID) (app *models.Application, occ *models.Occupant, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectApplication()+" WHERE id=$1 FOR UPDATE", id)
	a, err := scanApplication(row)
	if err != nil {
		return nil, nil, err
	}
	if a == nil {
		err = utils.ErrNotFound
		return nil, nil, err
	}
	if !a.IsInvite() || !models.CanTransitionApplication(a.Status, models.ApplicationStatusApproved) {
		err = utils.ErrInvalidTransition
		return nil, nil, err
	}

	// Capacity may have changed since the invitation was created:
	// re-check under the lease row lock before admitting the roommate.
	leaseRow := tx.QueryRow(ctx, baseSelectLease()+" WHERE id=$1 FOR UPDATE", *a.InviteLeaseID)
	lease, err := scanLease(leaseRow)
	if err != nil {
		return nil, nil, err
	}
	if lease == nil {
		err = utils.ErrNotFound
		return nil, nil, err
	}
	if lease.Status.Terminal() {
		err = utils.ErrInvalidTransition
		return nil, nil, err
	}

	newOcc := &models.Occupant{
		ID:      uuid.New(),
		LeaseID: lease.ID,
		UserID:  a.UserID,
		Role:    models.OccupantRoleRoommate,
	}
	if err = checkOccupantInsert(ctx, tx, newOcc); err != nil {
		return nil, nil, err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO occupants (id, lease_id, user_id, role, move_in_date, created_at)
		VALUES ($1,$2,$3,$4, NOW(), NOW())
	`, newOcc.ID, newOcc.LeaseID, newOcc.UserID, newOcc.Role); err != nil {
		return nil, nil, err
	}

	if err = execApplicationStatus(ctx, tx, id, models.ApplicationStatusApproved); err != nil {
		return nil, nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectApplication()+" WHERE id=$1", id)
	a, err = scanApplication(newRow)
	if err != nil {
		return nil, nil, err
	}
	occRow := tx.QueryRow(ctx, baseSelectOccupant()+" WHERE id=$1", newOcc.ID)
	newOcc, err = scanOccupant(occRow)
	return a, newOcc, err
}

func (r *applicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

/* ---------- internals ---------- */

func execApplicationStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, to models.ApplicationStatusType) error {
	sql := `
		UPDATE applications
		SET status=$1, row_version=row_version+1, updated_at=NOW()
		WHERE id=$2`
	if to.Terminal() {
		sql = `
		UPDATE applications
		SET status=$1, decided_at=NOW(), row_version=row_version+1, updated_at=NOW()
		WHERE id=$2`
	}
	_, err := tx.Exec(ctx, sql, to, id)
	return err
}

func baseSelectApplication() string {
	return `
		SELECT id, user_id, term, status, preferred_property_id, invite_lease_id,
		contact_email, contact_phone, decided_at, created_at, updated_at, row_version
		FROM applications`
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	if err := row.Scan(
		&a.ID, &a.UserID, &a.Term, &a.Status, &a.PreferredPropertyID, &a.InviteLeaseID,
		&a.ContactEmail, &a.ContactPhone, &a.DecidedAt, &a.CreatedAt, &a.UpdatedAt, &a.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func scanApplications(rows pgx.Rows) ([]*models.Application, error) {
	var out []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func pendingApplicationStatuses() []string {
	out := make([]string, 0, len(models.PendingApplicationStatuses))
	for _, s := range models.PendingApplicationStatuses {
		out = append(out, string(s))
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
