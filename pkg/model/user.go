package model

// User is the external identity collaborator. The core only ever reads
// these records to resolve display attributes.
type User struct {
	ID    string `json:"id" bson:"_id,omitempty"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
	Type  string `json:"type" bson:"type"`
}

const (
	UserTypeSeller = "seller"
	UserTypeBuyer  = "buyer"
)
