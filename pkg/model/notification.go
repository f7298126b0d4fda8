package model

import "time"

// Notification is the seller-facing projection of one booking: booking
// fields plus the buyer's display attributes resolved from the identity
// store. It is a derived cache owned by a single seller's feed instance,
// never a source of truth.
type Notification struct {
	BookingID   string   `json:"booking_id"`
	ApartmentID string   `json:"apartment_id"`
	BuyerID     string   `json:"buyer_id"`
	BuyerName   string   `json:"buyer_name"`
	BuyerPhone  string   `json:"buyer_phone"`
	TimeSlot    string   `json:"time_slot"`
	Status      Decision `json:"status"`
}

// Expired mirrors Booking.Expired for the projected row.
func (n *Notification) Expired(now time.Time) bool {
	if n.Status != DecisionPending {
		return false
	}
	at, err := time.ParseInLocation(SlotLayout, n.TimeSlot, now.Location())
	if err != nil {
		return false
	}
	return at.Before(now)
}

// OutboundNotification is a fire-and-forget record written for a user when a
// booking is created or decided. The core never reads these back.
type OutboundNotification struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	BookingID string    `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	Status    string    `json:"status,omitempty" bson:"status,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
