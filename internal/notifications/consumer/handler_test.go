package consumer

import (
	"context"
	"encoding/json"
	"testing"

	"domus/internal/notifications/feed"
	"domus/pkg/kafka"
	"domus/pkg/logger"
	"domus/pkg/model"
)

type staticSource struct {
	bookings []*model.Booking
}

func (s *staticSource) ListBySeller(ctx context.Context, sellerID string) ([]*model.Booking, error) {
	return s.bookings, nil
}

type staticResolver struct{}

func (staticResolver) Resolve(ctx context.Context, userID string) (*model.User, error) {
	return &model.User{ID: userID, Name: "Noa Levi"}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func eventMessage(t *testing.T, event model.BookingEvent) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return kafka.Message{
		Key:   event.SellerID,
		Value: raw,
		Topic: model.TopicBookingEvents,
	}
}

func loadedRegistry(t *testing.T, bookings ...*model.Booking) *feed.Registry {
	t.Helper()
	reg := feed.NewRegistry(&staticSource{bookings: bookings}, staticResolver{}, testLogger())
	if _, err := reg.Get(context.Background(), "seller-1"); err != nil {
		t.Fatalf("failed to load feed: %v", err)
	}
	return reg
}

func TestCreatedEventInsertsRow(t *testing.T) {
	reg := loadedRegistry(t)
	handler := NewBookingEventHandler(reg, testLogger())

	msg := eventMessage(t, model.BookingEvent{
		EventType:   model.EventBookingCreated,
		BookingID:   "b-1",
		ApartmentID: "apt-1",
		SellerID:    "seller-1",
		BuyerID:     "buyer-1",
		TimeSlot:    "2025-01-13 10:00",
		Decision:    model.DecisionPending,
	})
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, _ := reg.Loaded("seller-1")
	rows := f.Snapshot()
	if len(rows) != 1 || rows[0].BookingID != "b-1" {
		t.Fatalf("expected inserted row, got %+v", rows)
	}
	if rows[0].BuyerName != "Noa Levi" {
		t.Errorf("expected buyer attributes on the inserted row, got %+v", rows[0])
	}
}

func TestDecidedEventPatchesStatus(t *testing.T) {
	reg := loadedRegistry(t, &model.Booking{
		ID:             "b-1",
		SellerID:       "seller-1",
		BuyerID:        "buyer-1",
		TimeSlot:       "2025-01-13 10:00",
		SellerDecision: model.DecisionPending,
	})
	handler := NewBookingEventHandler(reg, testLogger())

	msg := eventMessage(t, model.BookingEvent{
		EventType: model.EventBookingDecided,
		BookingID: "b-1",
		SellerID:  "seller-1",
		Decision:  model.DecisionAccepted,
	})
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, _ := reg.Loaded("seller-1")
	if rows := f.Snapshot(); rows[0].Status != model.DecisionAccepted {
		t.Errorf("expected accepted status, got %q", rows[0].Status)
	}
}

func TestUnknownEventTypeIsDropped(t *testing.T) {
	reg := loadedRegistry(t, &model.Booking{
		ID:             "b-1",
		SellerID:       "seller-1",
		BuyerID:        "buyer-1",
		TimeSlot:       "2025-01-13 10:00",
		SellerDecision: model.DecisionPending,
	})
	handler := NewBookingEventHandler(reg, testLogger())

	msg := eventMessage(t, model.BookingEvent{
		EventType: "booking.relocated",
		BookingID: "b-1",
		SellerID:  "seller-1",
	})
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("expected unknown types to be dropped without error, got: %v", err)
	}

	f, _ := reg.Loaded("seller-1")
	if rows := f.Snapshot(); rows[0].Status != model.DecisionPending {
		t.Errorf("expected feed untouched, got %+v", rows[0])
	}
}

func TestEventForUnloadedFeedIsIgnored(t *testing.T) {
	reg := feed.NewRegistry(&staticSource{}, staticResolver{}, testLogger())
	handler := NewBookingEventHandler(reg, testLogger())

	msg := eventMessage(t, model.BookingEvent{
		EventType: model.EventBookingCreated,
		BookingID: "b-1",
		SellerID:  "seller-2",
	})
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := reg.Loaded("seller-2"); ok {
		t.Error("expected no feed to be materialized by an event")
	}
}

func TestUndecodablePayloadIsDropped(t *testing.T) {
	reg := loadedRegistry(t)
	handler := NewBookingEventHandler(reg, testLogger())

	msg := kafka.Message{Key: "seller-1", Value: []byte("{not json"), Topic: model.TopicBookingEvents}
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("expected undecodable payloads to be dropped without error, got: %v", err)
	}
}
