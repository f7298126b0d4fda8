package model

import "time"

// Apartment is a listed property together with the seller's viewing
// availability. TimeSlots maps a date key ("2006-01-02") to the times
// ("15:04") offered that day; the boolean marks a slot still bookable.
// The availability map has a single writer: the owning seller's session.
type Apartment struct {
	ID            string                     `json:"apartment_id" bson:"_id,omitempty" validate:"omitempty"`
	SellerID      string                     `json:"seller_id" bson:"seller_id" validate:"required"`
	LocationName  string                     `json:"location_name" bson:"location_name" validate:"required,min=2,max=200"`
	Price         string                     `json:"price" bson:"price" validate:"required"`
	SquareMeters  string                     `json:"square_meters" bson:"square_meters" validate:"required"`
	NumberOfRooms string                     `json:"number_of_rooms" bson:"number_of_rooms" validate:"required"`
	Phone         string                     `json:"phone,omitempty" bson:"phone" validate:"omitempty,e164"`
	Latitude      string                     `json:"latitude,omitempty" bson:"latitude"`
	Longitude     string                     `json:"longitude,omitempty" bson:"longitude"`
	TimeSlots     map[string]map[string]bool `json:"time_slots" bson:"time_slots" validate:"omitempty,time_slots_map"`
	AverageRating float64                    `json:"average_rating,omitempty" bson:"average_rating,omitempty"`
	CreatedAt     time.Time                  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ApartmentUpdate struct {
	LocationName  string `json:"location_name,omitempty" validate:"omitempty,min=2,max=200"`
	Price         string `json:"price,omitempty" validate:"omitempty"`
	SquareMeters  string `json:"square_meters,omitempty" validate:"omitempty"`
	NumberOfRooms string `json:"number_of_rooms,omitempty" validate:"omitempty"`
	Phone         string `json:"phone,omitempty" validate:"omitempty,e164"`
	Latitude      string `json:"latitude,omitempty"`
	Longitude     string `json:"longitude,omitempty"`
}
