package model

import "time"

// Kafka topics for booking lifecycle events
const (
	TopicBookingEvents    = "booking-events"
	TopicBookingEventsDLQ = "booking-events-dlq"
)

// Event types carried in the event-type header and payload
const (
	EventBookingCreated = "booking.created"
	EventBookingDecided = "booking.decided"
)

// BookingEvent is the payload published to the booking-events topic.
// Messages are keyed by SellerID so events for one seller stay ordered.
type BookingEvent struct {
	EventType   string    `json:"event_type"`
	BookingID   string    `json:"booking_id"`
	ApartmentID string    `json:"apartment_id"`
	SellerID    string    `json:"seller_id"`
	BuyerID     string    `json:"buyer_id"`
	TimeSlot    string    `json:"time_slot"`
	Decision    Decision  `json:"decision"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewBookingCreatedEvent builds the event emitted when a buyer requests a viewing.
func NewBookingCreatedEvent(b *Booking) BookingEvent {
	return BookingEvent{
		EventType:   EventBookingCreated,
		BookingID:   b.ID,
		ApartmentID: b.ApartmentID,
		SellerID:    b.SellerID,
		BuyerID:     b.BuyerID,
		TimeSlot:    b.TimeSlot,
		Decision:    b.SellerDecision,
		OccurredAt:  time.Now().UTC(),
	}
}

// NewBookingDecidedEvent builds the event emitted when a seller accepts or rejects.
func NewBookingDecidedEvent(b *Booking) BookingEvent {
	return BookingEvent{
		EventType:   EventBookingDecided,
		BookingID:   b.ID,
		ApartmentID: b.ApartmentID,
		SellerID:    b.SellerID,
		BuyerID:     b.BuyerID,
		TimeSlot:    b.TimeSlot,
		Decision:    b.SellerDecision,
		OccurredAt:  time.Now().UTC(),
	}
}
