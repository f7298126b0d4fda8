package model

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(SlotLayout, value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return parsed
}

func TestEligibleForRating(t *testing.T) {
	booking := &Booking{
		ID:             "b1",
		ApartmentID:    "a1",
		SellerID:       "s1",
		BuyerID:        "buyer-1",
		TimeSlot:       "2025-01-10 10:00",
		SellerDecision: DecisionAccepted,
	}
	grace := 24 * time.Hour

	tests := []struct {
		name      string
		requester string
		now       string
		decision  Decision
		slot      string
		want      bool
	}{
		{"inside grace window", "buyer-1", "2025-01-10 20:00", DecisionAccepted, "2025-01-10 10:00", true},
		{"outside grace window", "buyer-1", "2025-01-12 00:00", DecisionAccepted, "2025-01-10 10:00", false},
		{"before slot", "buyer-1", "2025-01-10 09:00", DecisionAccepted, "2025-01-10 10:00", false},
		{"wrong requester", "buyer-2", "2025-01-10 20:00", DecisionAccepted, "2025-01-10 10:00", false},
		{"still pending", "buyer-1", "2025-01-10 20:00", DecisionPending, "2025-01-10 10:00", false},
		{"rejected", "buyer-1", "2025-01-10 20:00", DecisionRejected, "2025-01-10 10:00", false},
		{"malformed slot", "buyer-1", "2025-01-10 20:00", DecisionAccepted, "not-a-slot", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := *booking
			b.SellerDecision = tt.decision
			b.TimeSlot = tt.slot
			got := b.EligibleForRating(tt.requester, mustTime(t, tt.now), grace)
			if got != tt.want {
				t.Errorf("EligibleForRating(%q, %s) = %v, want %v", tt.requester, tt.now, got, tt.want)
			}
		})
	}
}

func TestEligibleForRatingIgnoresVisitedAndPriorRating(t *testing.T) {
	b := &Booking{
		BuyerID:         "buyer-1",
		TimeSlot:        "2025-01-10 10:00",
		SellerDecision:  DecisionAccepted,
		Visited:         false,
		RatingApartment: 4,
	}
	if !b.EligibleForRating("buyer-1", mustTime(t, "2025-01-10 20:00"), 24*time.Hour) {
		t.Error("expected eligibility regardless of visited flag and existing rating")
	}
}

func TestExpired(t *testing.T) {
	now := mustTime(t, "2025-01-10 12:00")

	tests := []struct {
		name     string
		slot     string
		decision Decision
		want     bool
	}{
		{"pending past slot", "2025-01-10 10:00", DecisionPending, true},
		{"pending future slot", "2025-01-10 14:00", DecisionPending, false},
		{"accepted past slot", "2025-01-10 10:00", DecisionAccepted, false},
		{"rejected past slot", "2025-01-10 10:00", DecisionRejected, false},
		{"malformed slot", "garbage", DecisionPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{TimeSlot: tt.slot, SellerDecision: tt.decision}
			if got := b.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSlot(t *testing.T) {
	slot, err := ParseSlot("2025-01-10 10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot.Date != "2025-01-10" || slot.Time != "10:00" {
		t.Errorf("unexpected slot parts: %+v", slot)
	}
	if slot.String() != "2025-01-10 10:00" {
		t.Errorf("round trip mismatch: %s", slot.String())
	}

	if _, err := ParseSlot("2025-01-10T10:00"); err == nil {
		t.Error("expected error for wrong separator")
	}
	if _, err := ParseSlot(""); err == nil {
		t.Error("expected error for empty slot")
	}
}

func TestIsBusinessDay(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2025-01-10", true},  // Friday
		{"2025-01-11", false}, // Saturday
		{"2025-01-12", false}, // Sunday
		{"2025-01-13", true},  // Monday
		{"bogus", false},
	}
	for _, tt := range tests {
		if got := IsBusinessDay(tt.date); got != tt.want {
			t.Errorf("IsBusinessDay(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}
