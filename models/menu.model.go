package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Snacks    MealType = "snacks"
	Dinner    MealType = "dinner"
)

// mealStarts holds the serving start of each meal as hour and minute.
var mealStarts = map[MealType][2]int{
	Breakfast: {7, 30},
	Lunch:     {12, 30},
	Snacks:    {16, 30},
	Dinner:    {19, 30},
}

func (m MealType) Valid() bool {
	_, ok := mealStarts[m]
	return ok
}

// StartOn returns when the meal starts on the given day, in that day's location.
func (m MealType) StartOn(day time.Time) time.Time {
	hm, ok := mealStarts[m]
	if !ok {
		hm = [2]int{0, 0}
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, hm[0], hm[1], 0, 0, day.Location())
}

type Nutrition struct {
	Calories int     `json:"calories,omitempty" bson:"calories,omitempty"`
	Protein  float64 `json:"protein,omitempty" bson:"protein,omitempty"`
	Carbs    float64 `json:"carbs,omitempty" bson:"carbs,omitempty"`
	Fat      float64 `json:"fat,omitempty" bson:"fat,omitempty"`
}

// MenuItem is an orderable catalog entry scoped to one date and meal.
type MenuItem struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name            string              `json:"name" bson:"name"`
	Description     string              `json:"description,omitempty" bson:"description,omitempty"`
	Date            time.Time           `json:"date" bson:"date"`
	MealType        MealType            `json:"mealType" bson:"mealType"`
	Items           []string            `json:"items" bson:"items"`
	Category        string              `json:"category,omitempty" bson:"category,omitempty"`
	Price           float64             `json:"price" bson:"price"`
	DiscountedPrice float64             `json:"discountedPrice,omitempty" bson:"discountedPrice,omitempty"`
	IsAvailable     bool                `json:"isAvailable" bson:"isAvailable"`
	CurrentQuantity int                 `json:"currentQuantity" bson:"currentQuantity"`
	MaxQuantity     int                 `json:"maxQuantity" bson:"maxQuantity"`
	Image           *Asset              `json:"image,omitempty" bson:"image,omitempty"`
	Nutrition       *Nutrition          `json:"nutrition,omitempty" bson:"nutrition,omitempty"`
	CreatedBy       *primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// EffectivePrice is the discounted price when one is set below the list price.
func (m *MenuItem) EffectivePrice() float64 {
	if m.DiscountedPrice > 0 && m.DiscountedPrice < m.Price {
		return m.DiscountedPrice
	}
	return m.Price
}

// BookingDeadline is the last instant a booking for this item is accepted.
func (m *MenuItem) BookingDeadline(cutoff time.Duration) time.Time {
	return m.MealType.StartOn(m.Date).Add(-cutoff)
}

// CheckAvailability reports why quantity cannot be booked at now, or nil.
// A quantity shortfall is reported as ErrInsufficientQuantity, everything
// else as ErrUnavailable.
func (m *MenuItem) CheckAvailability(quantity int, now time.Time, cutoff time.Duration) error {
	if !m.IsAvailable {
		return fmt.Errorf("%w: %s is not available", ErrUnavailable, m.Name)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if m.CurrentQuantity < quantity {
		return fmt.Errorf("%w: only %d left", ErrInsufficientQuantity, m.CurrentQuantity)
	}
	if !now.Before(m.BookingDeadline(cutoff)) {
		return fmt.Errorf("%w: booking for %s closed", ErrUnavailable, m.MealType)
	}
	return nil
}

// ReduceQuantity decrements CurrentQuantity and leaves it unchanged on failure.
func (m *MenuItem) ReduceQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if quantity > m.CurrentQuantity {
		return fmt.Errorf("%w: requested %d, remaining %d", ErrInsufficientQuantity, quantity, m.CurrentQuantity)
	}
	m.CurrentQuantity -= quantity
	return nil
}

// RestoreQuantity gives back quantity without exceeding MaxQuantity.
func (m *MenuItem) RestoreQuantity(quantity int) {
	m.CurrentQuantity += quantity
	if m.MaxQuantity > 0 && m.CurrentQuantity > m.MaxQuantity {
		m.CurrentQuantity = m.MaxQuantity
	}
}
