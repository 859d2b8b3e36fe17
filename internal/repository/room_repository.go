package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/room-booking/internal/domain"
)

// RoomRepository encapsulates room persistence. Deactivated rooms stay in
// the table so reservation history keeps resolving.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	Update(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	ListActive(ctx context.Context) ([]domain.Room, error)
}

type roomRepository struct {
	pool *pgxpool.Pool
}

// NewRoomRepository instantiates the Postgres-backed repository.
func NewRoomRepository(pool *pgxpool.Pool) RoomRepository {
	return &roomRepository{pool: pool}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	const query = `
        INSERT INTO rooms (id, name, capacity, description, location, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		room.ID,
		room.Name,
		room.Capacity,
		room.Description,
		room.Location,
		room.IsActive,
		room.CreatedAt,
		room.UpdatedAt,
	)
	return mapPgError(err)
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	const query = `
        UPDATE rooms SET name=$1, capacity=$2, description=$3, location=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		room.Name,
		room.Capacity,
		room.Description,
		room.Location,
		room.IsActive,
		room.ID,
	)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	const query = `
        SELECT id, name, capacity, description, location, is_active, created_at, updated_at
        FROM rooms WHERE id=$1`

	var room domain.Room
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Capacity,
		&room.Description,
		&room.Location,
		&room.IsActive,
		&room.CreatedAt,
		&room.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &room, nil
}

func (r *roomRepository) ListActive(ctx context.Context) ([]domain.Room, error) {
	const query = `
        SELECT id, name, capacity, description, location, is_active, created_at, updated_at
        FROM rooms WHERE is_active ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Capacity,
			&room.Description,
			&room.Location,
			&room.IsActive,
			&room.CreatedAt,
			&room.UpdatedAt,
		); err != nil {
			return nil, mapPgError(err)
		}
		result = append(result, room)
	}
	return result, rows.Err()
}
