package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/room-booking/internal/domain"
)

// In-memory implementations back the service when no POSTGRES_DSN is
// configured, and keep service tests free of database dependencies. All
// methods copy records on the way in and out so callers never observe a
// partially written reservation.

// MemoryUserRepository keeps users in a map guarded by a RWMutex.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMemoryUserRepository constructs an empty store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; exists {
		return ErrDuplicate
	}
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrDuplicate
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; !exists {
		return ErrNotFound
	}
	for id, existing := range r.users {
		if id != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return ErrDuplicate
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, exists := r.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[id]; !exists {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// MemoryRoomRepository keeps rooms in a map guarded by a RWMutex.
type MemoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]domain.Room
}

// NewMemoryRoomRepository constructs an empty store.
func NewMemoryRoomRepository() *MemoryRoomRepository {
	return &MemoryRoomRepository{rooms: make(map[string]domain.Room)}
}

func (r *MemoryRoomRepository) Create(_ context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rooms[room.ID]; exists {
		return ErrDuplicate
	}
	r.rooms[room.ID] = *room
	return nil
}

func (r *MemoryRoomRepository) Update(_ context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rooms[room.ID]; !exists {
		return ErrNotFound
	}
	r.rooms[room.ID] = *room
	return nil
}

func (r *MemoryRoomRepository) GetByID(_ context.Context, id string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, exists := r.rooms[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &room, nil
}

func (r *MemoryRoomRepository) ListActive(_ context.Context) ([]domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if room.IsActive {
			result = append(result, room)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID < result[j].ID
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// MemoryReservationRepository keeps reservations in a map guarded by a
// RWMutex.
type MemoryReservationRepository struct {
	mu           sync.RWMutex
	reservations map[string]domain.Reservation
}

// NewMemoryReservationRepository constructs an empty store.
func NewMemoryReservationRepository() *MemoryReservationRepository {
	return &MemoryReservationRepository{reservations: make(map[string]domain.Reservation)}
}

func (r *MemoryReservationRepository) Create(_ context.Context, reservation *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reservations[reservation.ID]; exists {
		return ErrDuplicate
	}
	r.reservations[reservation.ID] = *reservation
	return nil
}

func (r *MemoryReservationRepository) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reservation, exists := r.reservations[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &reservation, nil
}

func (r *MemoryReservationRepository) ListByRoom(_ context.Context, roomID string) ([]domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Reservation
	for _, reservation := range r.reservations {
		if reservation.RoomID == roomID {
			result = append(result, reservation)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (r *MemoryReservationRepository) ListAll(_ context.Context) ([]domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Reservation, 0, len(r.reservations))
	for _, reservation := range r.reservations {
		result = append(result, reservation)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartTime.After(result[j].StartTime)
	})
	return result, nil
}

func (r *MemoryReservationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reservations[id]; !exists {
		return ErrNotFound
	}
	delete(r.reservations, id)
	return nil
}
