package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/room-booking/internal/events"
)

// StartAuditWorker subscribes to lifecycle events and writes one structured
// audit line per event. Password material never appears in event payloads.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	handler := func(_ context.Context, event events.Event) error {
		logger.Info("audit",
			zap.String("event", string(event.Type)),
			zap.String("subject_id", event.SubjectID),
			zap.String("actor", event.Actor),
			zap.Time("at", event.Timestamp),
		)
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventReservationCreated,
		events.EventReservationDeleted,
		events.EventRoomCreated,
		events.EventRoomDeactivated,
		events.EventUserRegistered,
		events.EventUserDeleted,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
