package mongostore

import (
	"context"
	"fmt"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type analyticsRepo struct {
	bookings *mongo.Collection
	users    *mongo.Collection
	feedback *mongo.Collection
	payments *mongo.Collection
}

func dayKey(field string) bson.M {
	return bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$" + field}}
}

func match(field string, r store.DateRange, extra bson.M) bson.D {
	filter := bson.M{}
	for k, v := range extra {
		filter[k] = v
	}
	rangeFilter(filter, field, r)
	return bson.D{{Key: "$match", Value: filter}}
}

func aggregate(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s aggregation: %w", coll.Name(), err)
	}
	return nil
}

func (r *analyticsRepo) dailySum(ctx context.Context, coll *mongo.Collection, field, amount string, rng store.DateRange, extra bson.M) ([]models.DailyAmount, error) {
	sum := interface{}(0)
	if amount != "" {
		sum = "$" + amount
	}
	pipeline := mongo.Pipeline{
		match(field, rng, extra),
		{{Key: "$group", Value: bson.M{
			"_id":    dayKey(field),
			"amount": bson.M{"$sum": sum},
			"count":  bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	out := []models.DailyAmount{}
	err := aggregate(ctx, coll, pipeline, &out)
	return out, err
}

func (r *analyticsRepo) RevenueByDay(ctx context.Context, rng store.DateRange) ([]models.DailyAmount, error) {
	return r.dailySum(ctx, r.bookings, "createdAt", "finalAmount", rng, bson.M{"paymentStatus": models.PaymentPaid})
}

func (r *analyticsRepo) UserGrowth(ctx context.Context, rng store.DateRange) ([]models.DailyAmount, error) {
	return r.dailySum(ctx, r.users, "createdAt", "", rng, nil)
}

func (r *analyticsRepo) TopUpsByDay(ctx context.Context, rng store.DateRange) ([]models.DailyAmount, error) {
	return r.dailySum(ctx, r.payments, "createdAt", "amount", rng, bson.M{"status": models.PaymentPaid})
}

func (r *analyticsRepo) BookingsByStatus(ctx context.Context, rng store.DateRange) ([]models.StatusCount, error) {
	pipeline := mongo.Pipeline{
		match("bookingDate", rng, nil),
		{{Key: "$group", Value: bson.M{
			"_id":    "$status",
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$finalAmount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}
	out := []models.StatusCount{}
	err := aggregate(ctx, r.bookings, pipeline, &out)
	return out, err
}

func (r *analyticsRepo) MealTypeBreakdown(ctx context.Context, rng store.DateRange) ([]models.MealTypeStat, error) {
	pipeline := mongo.Pipeline{
		match("bookingDate", rng, bson.M{"status": bson.M{"$ne": models.BookingCancelled}}),
		{{Key: "$group", Value: bson.M{
			"_id":      "$mealType",
			"bookings": bson.M{"$sum": 1},
			"quantity": bson.M{"$sum": "$quantity"},
			"revenue":  bson.M{"$sum": "$finalAmount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}},
	}
	out := []models.MealTypeStat{}
	err := aggregate(ctx, r.bookings, pipeline, &out)
	return out, err
}

func (r *analyticsRepo) TopMenuItems(ctx context.Context, rng store.DateRange, limit int) ([]models.TopItem, error) {
	if limit <= 0 {
		limit = 5
	}
	pipeline := mongo.Pipeline{
		match("bookingDate", rng, bson.M{"status": bson.M{"$ne": models.BookingCancelled}}),
		{{Key: "$group", Value: bson.M{
			"_id":      "$menuItem",
			"name":     bson.M{"$first": "$menuItemName"},
			"quantity": bson.M{"$sum": "$quantity"},
			"revenue":  bson.M{"$sum": "$finalAmount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "quantity", Value: -1}, {Key: "name", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
	out := []models.TopItem{}
	err := aggregate(ctx, r.bookings, pipeline, &out)
	return out, err
}

func (r *analyticsRepo) FeedbackSummary(ctx context.Context, rng store.DateRange) (models.FeedbackSummary, error) {
	pipeline := mongo.Pipeline{
		match("createdAt", rng, nil),
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"rating": "$rating", "category": "$category"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	var rows []struct {
		Key struct {
			Rating   int    `bson:"rating"`
			Category string `bson:"category"`
		} `bson:"_id"`
		Count int `bson:"count"`
	}
	sum := models.FeedbackSummary{ByRating: map[int]int{}, ByCategory: map[string]int{}}
	if err := aggregate(ctx, r.feedback, pipeline, &rows); err != nil {
		return sum, err
	}
	var total int
	for _, row := range rows {
		sum.Count += row.Count
		total += row.Key.Rating * row.Count
		sum.ByRating[row.Key.Rating] += row.Count
		sum.ByCategory[row.Key.Category] += row.Count
	}
	if sum.Count > 0 {
		sum.AverageRating = float64(total) / float64(sum.Count)
	}
	return sum, nil
}
