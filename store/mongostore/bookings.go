package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type bookingRepo struct {
	coll *mongo.Collection
}

func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return duplicate(err, "booking "+booking.BookingID)
	}
	return nil
}

func (r *bookingRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		return nil, notFound(err, "booking "+id.Hex())
	}
	return &booking, nil
}

func (r *bookingRepo) FindByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&booking); err != nil {
		return nil, notFound(err, "booking "+bookingID)
	}
	return &booking, nil
}

func (r *bookingRepo) List(ctx context.Context, filter store.BookingFilter, page store.Page) ([]models.Booking, int64, error) {
	query := bson.M{}
	if filter.User != nil {
		query["user"] = *filter.User
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.MealType != "" {
		query["mealType"] = filter.MealType
	}
	rangeFilter(query, "bookingDate", filter.Range)
	opts := helpers.NewMongoPaginate(page, bson.D{{Key: "createdAt", Value: -1}}).BuildFindOptions()

	bookings := []models.Booking{}
	total, err := findPage(ctx, r.coll, query, opts, &bookings)
	return bookings, total, err
}

func (r *bookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	return r.replace(ctx, bson.M{"_id": booking.ID}, booking)
}

func (r *bookingRepo) UpdateStatusFrom(ctx context.Context, booking *models.Booking, from models.BookingStatus) error {
	err := r.replace(ctx, bson.M{"_id": booking.ID, "status": from}, booking)
	if err == nil || !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if _, ferr := r.FindByID(ctx, booking.ID); ferr != nil {
		return ferr
	}
	return fmt.Errorf("%w: booking %s changed status concurrently", models.ErrConflict, booking.BookingID)
}

func (r *bookingRepo) replace(ctx context.Context, filter bson.M, booking *models.Booking) error {
	res, err := r.coll.ReplaceOne(ctx, filter, booking)
	if err != nil {
		return fmt.Errorf("replace booking %s: %w", booking.BookingID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: booking %s", models.ErrNotFound, booking.BookingID)
	}
	return nil
}
