package validator

import (
	"testing"

	"domus/pkg/logger"
	"domus/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func validBooking() *model.Booking {
	return &model.Booking{
		ApartmentID:    "apt-1",
		SellerID:       "seller-1",
		BuyerID:        "buyer-1",
		TimeSlot:       "2025-01-13 10:00",
		SellerDecision: model.DecisionPending,
	}
}

func TestValidateBooking(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		name    string
		mutate  func(b *model.Booking)
		wantErr bool
	}{
		{
			name:    "valid booking",
			mutate:  func(b *model.Booking) {},
			wantErr: false,
		},
		{
			name:    "missing apartment id",
			mutate:  func(b *model.Booking) { b.ApartmentID = "" },
			wantErr: true,
		},
		{
			name:    "missing buyer id",
			mutate:  func(b *model.Booking) { b.BuyerID = "" },
			wantErr: true,
		},
		{
			name:    "malformed slot",
			mutate:  func(b *model.Booking) { b.TimeSlot = "2025-01-13T10:00" },
			wantErr: true,
		},
		{
			name:    "slot with invalid time",
			mutate:  func(b *model.Booking) { b.TimeSlot = "2025-01-13 10:60" },
			wantErr: true,
		},
		{
			name:    "unknown decision",
			mutate:  func(b *model.Booking) { b.SellerDecision = "maybe" },
			wantErr: true,
		},
		{
			name:    "rating above range",
			mutate:  func(b *model.Booking) { b.RatingSeller = 6 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)

			err := v.Validate(b)
			if tt.wantErr && err == nil {
				t.Fatal("expected a validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
