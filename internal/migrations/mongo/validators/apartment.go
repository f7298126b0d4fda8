package validators

import "go.mongodb.org/mongo-driver/bson"

var ApartmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"seller_id",
			"location_name",
			"price",
			"square_meters",
			"number_of_rooms",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"seller_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"location_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"price": bson.M{
				"bsonType": "string",
			},

			"square_meters": bson.M{
				"bsonType": "string",
			},

			"number_of_rooms": bson.M{
				"bsonType": "string",
			},

			"phone": bson.M{
				"bsonType": "string",
			},

			"latitude": bson.M{
				"bsonType": "string",
			},

			"longitude": bson.M{
				"bsonType": "string",
			},

			"time_slots": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "object",
					"additionalProperties": bson.M{
						"bsonType": "bool",
					},
				},
			},

			"average_rating": bson.M{
				"bsonType": "double",
				"minimum":  0,
				"maximum":  5,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
