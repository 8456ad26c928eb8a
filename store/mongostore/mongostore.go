// Package mongostore implements the store repositories over MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection         = "users"
	menuCollection          = "menuitems"
	bookingsCollection      = "bookings"
	inventoryCollection     = "inventory"
	feedbackCollection      = "feedback"
	paymentsCollection      = "payments"
	notificationsCollection = "notifications"
)

// New wires every repository to collections of db.
func New(db *mongo.Database) *store.Store {
	return &store.Store{
		Users:         &userRepo{db.Collection(usersCollection)},
		Menu:          &menuRepo{db.Collection(menuCollection)},
		Bookings:      &bookingRepo{db.Collection(bookingsCollection)},
		Inventory:     &inventoryRepo{db.Collection(inventoryCollection)},
		Feedback:      &feedbackRepo{db.Collection(feedbackCollection)},
		Payments:      &paymentRepo{db.Collection(paymentsCollection)},
		Notifications: &notificationRepo{db.Collection(notificationsCollection)},
		Analytics: &analyticsRepo{
			bookings: db.Collection(bookingsCollection),
			users:    db.Collection(usersCollection),
			feedback: db.Collection(feedbackCollection),
			payments: db.Collection(paymentsCollection),
		},
	}
}

// EnsureIndexes creates the indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		bookingsCollection: {
			{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "bookingDate", Value: 1}, {Key: "status", Value: 1}}},
		},
		menuCollection: {
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "mealType", Value: 1}}},
		},
		inventoryCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		paymentsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for name, specs := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// notFound converts mongo.ErrNoDocuments into models.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %s", models.ErrNotFound, what)
	}
	return fmt.Errorf("find %s: %w", what, err)
}

func duplicate(err error, what string) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s already exists", models.ErrConflict, what)
	}
	return fmt.Errorf("insert %s: %w", what, err)
}

func rangeFilter(filter bson.M, field string, r store.DateRange) {
	cond := bson.M{}
	if !r.From.IsZero() {
		cond["$gte"] = r.From
	}
	if !r.To.IsZero() {
		cond["$lte"] = r.To
	}
	if len(cond) > 0 {
		filter[field] = cond
	}
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.Add(24 * time.Hour)
}

// findPage counts filter matches and decodes one page of them into out.
func findPage(ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions, out interface{}) (int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return 0, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return 0, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return total, nil
}
