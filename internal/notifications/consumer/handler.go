package consumer

import (
	"context"

	"domus/internal/notifications/feed"
	"domus/pkg/kafka"
	"domus/pkg/logger"
	"domus/pkg/model"
)

// NewBookingEventHandler turns booking-events messages into feed updates.
// Only feeds already materialized in the registry are touched; a seller who
// never opened their feed gets a fresh projection on first read anyway.
// Unknown event types and undecodable payloads are dropped with a diagnostic
// rather than retried, since replaying them cannot help.
func NewBookingEventHandler(registry *feed.Registry, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event model.BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			log.Warn("Dropping undecodable booking event",
				"topic", msg.Topic,
				"key", msg.Key,
				"error", err,
			)
			return nil
		}

		f, ok := registry.Loaded(event.SellerID)
		if !ok {
			return nil
		}

		switch event.EventType {
		case model.EventBookingCreated:
			f.Insert(ctx, &model.Booking{
				ID:             event.BookingID,
				ApartmentID:    event.ApartmentID,
				SellerID:       event.SellerID,
				BuyerID:        event.BuyerID,
				TimeSlot:       event.TimeSlot,
				SellerDecision: event.Decision,
			})
		case model.EventBookingDecided:
			f.ApplyPatch(ctx, event.BookingID, func(n *model.Notification) {
				n.Status = event.Decision
			})
		default:
			log.Warn("Dropping booking event of unknown type",
				"event_type", event.EventType,
				"booking_id", event.BookingID,
			)
		}
		return nil
	}
}
