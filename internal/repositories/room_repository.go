package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/campuskey/housing-service/internal/models"
)

/* ───────────── public interface ───────────── */

type RoomRepository interface {
	Create(ctx context.Context, rm *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	ListByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Room, error)
	// ListByPropertyID walks the hierarchy; ordering is unit number
	// then room label so availability pages are stable.
	ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Room, error)
}

/* ───────────── implementation ───────────── */

type roomRepo struct {
	db DB
}

func NewRoomRepository(db DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, rm *models.Room) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO rooms (id, unit_id, room_label, created_at)
		VALUES ($1,$2,$3, NOW())
	`, rm.ID, rm.UnitID, rm.RoomLabel)
	return err
}

func (r *roomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	row := r.db.QueryRow(ctx, baseSelectRoom()+" WHERE r.id=$1", id)
	return scanRoom(row)
}

func (r *roomRepo) ListByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Room, error) {
	rows, err := r.db.Query(ctx, baseSelectRoom()+" WHERE r.unit_id=$1 ORDER BY r.room_label", unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRooms(rows)
}

func (r *roomRepo) ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Room, error) {
	rows, err := r.db.Query(ctx, baseSelectRoom()+`
		JOIN units u ON r.unit_id = u.id
		WHERE u.property_id=$1
		ORDER BY u.unit_number, r.room_label
	`, propID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRooms(rows)
}

/* ---------- internals ---------- */

func baseSelectRoom() string {
	return `
		SELECT r.id, r.unit_id, r.room_label, r.created_at
		FROM rooms r`
}

func scanRoom(row pgx.Row) (*models.Room, error) {
	var rm models.Room
	if err := row.Scan(&rm.ID, &rm.UnitID, &rm.RoomLabel, &rm.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rm, nil
}

func scanRooms(rows pgx.Rows) ([]*models.Room, error) {
	var out []*models.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}
