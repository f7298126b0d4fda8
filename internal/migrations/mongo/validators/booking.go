package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"apartment_id",
			"seller_id",
			"buyer_id",
			"time_slot",
			"seller_decision",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"apartment_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"seller_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"buyer_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"time_slot": bson.M{
				"bsonType": "string",
				"pattern":  "^\\d{4}-\\d{2}-\\d{2} \\d{2}:\\d{2}$",
			},

			"visited": bson.M{
				"bsonType": "bool",
			},

			"rating_seller": bson.M{
				"bsonType": "double",
				"minimum":  0,
				"maximum":  5,
			},

			"rating_apartment": bson.M{
				"bsonType": "double",
				"minimum":  0,
				"maximum":  5,
			},

			"seller_decision": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"accepted",
					"rejected",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
