package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/campuskey/housing-service/internal/models"
)

/* ───────────── public interface ───────────── */

type BedRepository interface {
	Create(ctx context.Context, b *models.Bed) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bed, error)
	ListByRoomID(ctx context.Context, roomID uuid.UUID) ([]*models.Bed, error)
	// ListByPropertyID walks the hierarchy; ordering is unit number,
	// room label, then bed label.
	ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Bed, error)
}

/* ───────────── implementation ───────────── */

type bedRepo struct {
	db DB
}

func NewBedRepository(db DB) BedRepository {
	return &bedRepo{db: db}
}

func (r *bedRepo) Create(ctx context.Context, b *models.Bed) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO beds (id, room_id, bed_label, created_at)
		VALUES ($1,$2,$3, NOW())
	`, b.ID, b.RoomID, b.BedLabel)
	return err
}

func (r *bedRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Bed, error) {
	row := r.db.QueryRow(ctx, baseSelectBed()+" WHERE b.id=$1", id)
	return scanBed(row)
}

func (r *bedRepo) ListByRoomID(ctx context.Context, roomID uuid.UUID) ([]*models.Bed, error) {
	rows, err := r.db.Query(ctx, baseSelectBed()+" WHERE b.room_id=$1 ORDER BY b.bed_label", roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBeds(rows)
}

func (r *bedRepo) ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Bed, error) {
	rows, err := r.db.Query(ctx, baseSelectBed()+`
		JOIN rooms rm ON b.room_id = rm.id
		JOIN units u ON rm.unit_id = u.id
		WHERE u.property_id=$1
		ORDER BY u.unit_number, rm.room_label, b.bed_label
	`, propID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBeds(rows)
}

/* ---------- internals ---------- */

func baseSelectBed() string {
	return `
		SELECT b.id, b.room_id, b.bed_label, b.created_at
		FROM beds b`
}

func scanBed(row pgx.Row) (*models.Bed, error) {
	var b models.Bed
	if err := row.Scan(&b.ID, &b.RoomID, &b.BedLabel, &b.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func scanBeds(rows pgx.Rows) ([]*models.Bed, error) {
	var out []*models.Bed
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
