package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Order struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User      bson.ObjectID `bson:"user" json:"user"`
	Cart      []CartItem    `bson:"cart" json:"cart"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}
