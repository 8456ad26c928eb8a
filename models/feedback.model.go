package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FeedbackStatus string

const (
	FeedbackOpen     FeedbackStatus = "open"
	FeedbackResolved FeedbackStatus = "resolved"
)

type Feedback struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	User          primitive.ObjectID  `json:"user" bson:"user"`
	Booking       *primitive.ObjectID `json:"booking,omitempty" bson:"booking,omitempty"`
	MenuItem      *primitive.ObjectID `json:"menuItem,omitempty" bson:"menuItem,omitempty"`
	Rating        int                 `json:"rating" bson:"rating"`
	Category      string              `json:"category" bson:"category"`
	Comment       string              `json:"comment,omitempty" bson:"comment,omitempty"`
	Images        []Asset             `json:"images,omitempty" bson:"images,omitempty"`
	Status        FeedbackStatus      `json:"status" bson:"status"`
	AdminResponse string              `json:"adminResponse,omitempty" bson:"adminResponse,omitempty"`
	RespondedAt   *time.Time          `json:"respondedAt,omitempty" bson:"respondedAt,omitempty"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
}
