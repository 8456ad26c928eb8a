package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is the durable copy of a pushed event. User is nil for
// broadcasts addressed to a role.
type Notification struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	User      *primitive.ObjectID `json:"user,omitempty" bson:"user,omitempty"`
	Role      Role                `json:"role,omitempty" bson:"role,omitempty"`
	Title     string              `json:"title" bson:"title"`
	Message   string              `json:"message" bson:"message"`
	Type      string              `json:"type" bson:"type"`
	Read      bool                `json:"read" bson:"read"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
}
