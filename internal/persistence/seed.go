package persistence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/room-booking/internal/domain"
	"github.com/spec-kit/room-booking/internal/repository"
)

// roomFixtures is the initial room inventory loaded on first boot. These
// replace the room list the UI used to carry as compiled-in state.
var roomFixtures = []domain.Room{
	{ID: "room-1", Name: "Neukkari 1", Capacity: 6},
	{ID: "room-2", Name: "Neukkari 2", Capacity: 8},
	{ID: "room-3", Name: "Neuvotteluhuone A", Capacity: 4},
	{ID: "room-4", Name: "Neuvotteluhuone B", Capacity: 10},
	{ID: "room-5", Name: "Kokoustila C", Capacity: 12},
}

// SeedRooms loads the fixture rooms when the directory is empty. Reruns are
// no-ops, so restarts never duplicate or resurrect rooms.
func SeedRooms(ctx context.Context, rooms repository.RoomRepository, logger *zap.Logger) error {
	existing, err := rooms.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now()
	for _, fixture := range roomFixtures {
		fixture.IsActive = true
		fixture.CreatedAt = now
		fixture.UpdatedAt = now
		if err := rooms.Create(ctx, &fixture); err != nil {
			// A concurrent boot may have seeded the same room already.
			if err == repository.ErrDuplicate {
				continue
			}
			return err
		}
	}
	logger.Info("seeded room fixtures", zap.Int("count", len(roomFixtures)))
	return nil
}
