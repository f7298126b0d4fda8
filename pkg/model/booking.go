package model

import "time"

// Decision is the seller's response to a booking request. Pending until the
// seller acts; accepted and rejected are terminal for the state machine.
type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
)

func (d Decision) Valid() bool {
	return d == DecisionPending || d == DecisionAccepted || d == DecisionRejected
}

// Terminal reports whether the seller has already responded.
func (d Decision) Terminal() bool {
	return d == DecisionAccepted || d == DecisionRejected
}

// Booking is a buyer's request to view an apartment at one time slot.
// Bookings are never deleted; "expired" is computed at query time.
type Booking struct {
	ID              string    `json:"booking_id" bson:"_id,omitempty" validate:"omitempty"`
	ApartmentID     string    `json:"apartment_id" bson:"apartment_id" validate:"required"`
	SellerID        string    `json:"seller_id" bson:"seller_id" validate:"required"`
	BuyerID         string    `json:"buyer_id" bson:"buyer_id" validate:"required"`
	TimeSlot        string    `json:"time_slot" bson:"time_slot" validate:"required,slot_key"`
	Visited         bool      `json:"visited" bson:"visited"`
	RatingSeller    float64   `json:"rating_seller" bson:"rating_seller" validate:"omitempty,min=0,max=5"`
	RatingApartment float64   `json:"rating_apartment" bson:"rating_apartment" validate:"omitempty,min=0,max=5"`
	SellerDecision  Decision  `json:"seller_decision" bson:"seller_decision" validate:"required,oneof=pending accepted rejected"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// SlotInstant parses the booking's composite slot string. The zero time and
// false are returned for malformed slots; callers treat those records as
// inactive rather than erroring.
func (b *Booking) SlotInstant(loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(SlotLayout, b.TimeSlot, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Expired is the derived view state: still pending, but the slot instant has
// passed. Malformed slots are never considered expired.
func (b *Booking) Expired(now time.Time) bool {
	if b.SellerDecision != DecisionPending {
		return false
	}
	at, ok := b.SlotInstant(now.Location())
	if !ok {
		return false
	}
	return at.Before(now)
}

// BookingView is a booking plus its derived expiry state, computed at read
// time. Nothing is stored; pending bookings whose slot passed simply render
// as expired.
type BookingView struct {
	Booking
	Expired bool `json:"expired"`
}

func NewBookingView(b *Booking, now time.Time) *BookingView {
	return &BookingView{
		Booking: *b,
		Expired: b.Expired(now),
	}
}

// EligibleForRating is the pure predicate gating post-visit feedback: the
// requester must be the buyer, the seller must have accepted, and the slot
// instant must lie inside the grace window (slot < now < slot+grace).
// Neither Visited nor an existing rating is consulted, so re-rating stays
// possible.
func (b *Booking) EligibleForRating(requesterID string, now time.Time, grace time.Duration) bool {
	if b.BuyerID != requesterID || b.SellerDecision != DecisionAccepted {
		return false
	}
	at, ok := b.SlotInstant(now.Location())
	if !ok {
		return false
	}
	return at.Before(now) && at.After(now.Add(-grace))
}
