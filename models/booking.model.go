package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingPrepared  BookingStatus = "prepared"
	BookingServed    BookingStatus = "served"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingNoShow    BookingStatus = "no-show"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingPrepared, BookingServed,
		BookingCompleted, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}

// Terminal statuses accept no further cancellation.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingCompleted, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

type Booking struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID           string             `json:"bookingId" bson:"bookingId"`
	User                primitive.ObjectID `json:"user" bson:"user"`
	MenuItem            primitive.ObjectID `json:"menuItem" bson:"menuItem"`
	MenuItemName        string             `json:"menuItemName,omitempty" bson:"menuItemName,omitempty"`
	Quantity            int                `json:"quantity" bson:"quantity"`
	MealType            MealType           `json:"mealType" bson:"mealType"`
	BookingDate         time.Time          `json:"bookingDate" bson:"bookingDate"`
	ItemPrice           float64            `json:"itemPrice" bson:"itemPrice"`
	TotalAmount         float64            `json:"totalAmount" bson:"totalAmount"`
	Discount            float64            `json:"discount" bson:"discount"`
	FinalAmount         float64            `json:"finalAmount" bson:"finalAmount"`
	Status              BookingStatus      `json:"status" bson:"status"`
	PaymentStatus       PaymentStatus      `json:"paymentStatus" bson:"paymentStatus"`
	QRCode              string             `json:"qrCode,omitempty" bson:"qrCode,omitempty"`
	SpecialInstructions string             `json:"specialInstructions,omitempty" bson:"specialInstructions,omitempty"`
	EstimatedPickupTime *time.Time         `json:"estimatedPickupTime,omitempty" bson:"estimatedPickupTime,omitempty"`
	PreparationEndTime  *time.Time         `json:"preparationEndTime,omitempty" bson:"preparationEndTime,omitempty"`
	ActualPickupTime    *time.Time         `json:"actualPickupTime,omitempty" bson:"actualPickupTime,omitempty"`
	CancellationReason  string             `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	CancelledAt         *time.Time         `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt" bson:"updatedAt"`
}
