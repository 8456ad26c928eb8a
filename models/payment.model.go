package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentPurpose string

const PurposeWalletTopUp PaymentPurpose = "wallet_topup"

// Payment records money entering the system from an external method. The
// wallet credit it produces carries the payment's ID as TransactionID.
type Payment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Amount    float64            `json:"amount" bson:"amount"`
	Method    string             `json:"method" bson:"method"`
	Reference string             `json:"reference,omitempty" bson:"reference,omitempty"`
	Purpose   PaymentPurpose     `json:"purpose" bson:"purpose"`
	Status    PaymentStatus      `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
