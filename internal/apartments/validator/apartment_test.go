package validator

import (
	"testing"

	"domus/pkg/logger"
	"domus/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func validApartment() *model.Apartment {
	return &model.Apartment{
		SellerID:      "seller-1",
		LocationName:  "Rothschild 12, Tel Aviv",
		Price:         "2500000",
		SquareMeters:  "85",
		NumberOfRooms: "3",
		Phone:         "+972501234567",
		TimeSlots: map[string]map[string]bool{
			"2025-01-10": {"10:00": true, "14:30": false},
		},
	}
}

func TestValidateApartment(t *testing.T) {
	v := NewApartmentValidator(testLogger())

	tests := []struct {
		name    string
		mutate  func(a *model.Apartment)
		wantErr bool
	}{
		{
			name:    "valid apartment",
			mutate:  func(a *model.Apartment) {},
			wantErr: false,
		},
		{
			name:    "missing seller",
			mutate:  func(a *model.Apartment) { a.SellerID = "" },
			wantErr: true,
		},
		{
			name:    "location too short",
			mutate:  func(a *model.Apartment) { a.LocationName = "x" },
			wantErr: true,
		},
		{
			name:    "bad phone",
			mutate:  func(a *model.Apartment) { a.Phone = "not-a-phone" },
			wantErr: true,
		},
		{
			name:    "empty phone allowed",
			mutate:  func(a *model.Apartment) { a.Phone = "" },
			wantErr: false,
		},
		{
			name: "malformed date key",
			mutate: func(a *model.Apartment) {
				a.TimeSlots = map[string]map[string]bool{"10-01-2025": {"10:00": true}}
			},
			wantErr: true,
		},
		{
			name: "malformed time key",
			mutate: func(a *model.Apartment) {
				a.TimeSlots = map[string]map[string]bool{"2025-01-10": {"10:60": true}}
			},
			wantErr: true,
		},
		{
			name:    "nil slots allowed",
			mutate:  func(a *model.Apartment) { a.TimeSlots = nil },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validApartment()
			tt.mutate(a)
			err := v.Validate(a)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
