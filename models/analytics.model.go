package models

// DailyAmount is one point of a per-day series.
type DailyAmount struct {
	Date   string  `json:"date" bson:"_id"`
	Amount float64 `json:"amount" bson:"amount"`
	Count  int     `json:"count" bson:"count"`
}

type StatusCount struct {
	Status string  `json:"status" bson:"_id"`
	Count  int     `json:"count" bson:"count"`
	Amount float64 `json:"amount" bson:"amount"`
}

type MealTypeStat struct {
	MealType string  `json:"mealType" bson:"_id"`
	Bookings int     `json:"bookings" bson:"bookings"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Revenue  float64 `json:"revenue" bson:"revenue"`
}

type TopItem struct {
	MenuItem string  `json:"menuItem" bson:"_id"`
	Name     string  `json:"name" bson:"name"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Revenue  float64 `json:"revenue" bson:"revenue"`
}

type AttendanceStat struct {
	Served    int     `json:"served"`
	NoShow    int     `json:"noShow"`
	Cancelled int     `json:"cancelled"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

type FeedbackSummary struct {
	Count         int            `json:"count"`
	AverageRating float64        `json:"averageRating"`
	ByRating      map[int]int    `json:"byRating"`
	ByCategory    map[string]int `json:"byCategory"`
}
