package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/room-booking/internal/domain"
)

// ReservationRepository encapsulates reservation persistence. Ordering is
// explicit in every listing query so results do not depend on storage
// iteration order.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	// ListByRoom returns reservations ordered by start time ascending,
	// tie-broken by id.
	ListByRoom(ctx context.Context, roomID string) ([]domain.Reservation, error)
	// ListAll returns reservations across rooms ordered by start time
	// descending, tie-broken by id.
	ListAll(ctx context.Context) ([]domain.Reservation, error)
	Delete(ctx context.Context, id string) error
}

type reservationRepository struct {
	pool *pgxpool.Pool
}

// NewReservationRepository instantiates the Postgres-backed repository.
func NewReservationRepository(pool *pgxpool.Pool) ReservationRepository {
	return &reservationRepository{pool: pool}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	const query = `
        INSERT INTO reservations (id, room_id, start_time, end_time, username, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		reservation.ID,
		reservation.RoomID,
		reservation.StartTime,
		reservation.EndTime,
		reservation.UserLabel,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)
	return mapPgError(err)
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	const query = `
        SELECT id, room_id, start_time, end_time, username, created_at, updated_at
        FROM reservations WHERE id=$1`

	var reservation domain.Reservation
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.RoomID,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.UserLabel,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &reservation, nil
}

func (r *reservationRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Reservation, error) {
	const query = `
        SELECT id, room_id, start_time, end_time, username, created_at, updated_at
        FROM reservations WHERE room_id=$1 ORDER BY start_time ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (r *reservationRepository) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	const query = `
        SELECT id, room_id, start_time, end_time, username, created_at, updated_at
        FROM reservations ORDER BY start_time DESC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (r *reservationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	var result []domain.Reservation
	for rows.Next() {
		var reservation domain.Reservation
		if err := rows.Scan(
			&reservation.ID,
			&reservation.RoomID,
			&reservation.StartTime,
			&reservation.EndTime,
			&reservation.UserLabel,
			&reservation.CreatedAt,
			&reservation.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reservation)
	}
	return result, rows.Err()
}
