package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Asset is the result of an upload to the image store.
type Asset struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url" bson:"url"`
}

type UserStats struct {
	TotalBookings int     `json:"totalBookings" bson:"totalBookings"`
	TotalSpent    float64 `json:"totalSpent" bson:"totalSpent"`
}

type User struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	Password   string             `json:"-" bson:"password"`
	Role       Role               `json:"role" bson:"role"`
	Phone      string             `json:"phone,omitempty" bson:"phone,omitempty"`
	RoomNumber string             `json:"roomNumber,omitempty" bson:"roomNumber,omitempty"`
	Avatar     *Asset             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	IsActive   bool               `json:"isActive" bson:"isActive"`
	Wallet     Wallet             `json:"wallet" bson:"wallet"`
	Stats      UserStats          `json:"stats" bson:"stats"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
