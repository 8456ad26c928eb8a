package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookingRepo struct{ db *DB }

func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, b := range r.db.bookings {
		if b.BookingID == booking.BookingID {
			return fmt.Errorf("%w: booking %s exists", models.ErrConflict, booking.BookingID)
		}
	}
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	c := *booking
	r.db.bookings[booking.ID] = &c
	return nil
}

func (r *bookingRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	b, ok := r.db.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: booking %s", models.ErrNotFound, id.Hex())
	}
	c := *b
	return &c, nil
}

func (r *bookingRepo) FindByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, b := range r.db.bookings {
		if b.BookingID == bookingID {
			c := *b
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: booking %s", models.ErrNotFound, bookingID)
}

func (r *bookingRepo) List(ctx context.Context, filter store.BookingFilter, page store.Page) ([]models.Booking, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []models.Booking
	for _, b := range r.db.bookings {
		if filter.User != nil && b.User != *filter.User {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.MealType != "" && b.MealType != filter.MealType {
			continue
		}
		if !filter.Range.Contains(b.BookingDate) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, page), int64(len(out)), nil
}

func (r *bookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.bookings[booking.ID]; !ok {
		return fmt.Errorf("%w: booking %s", models.ErrNotFound, booking.ID.Hex())
	}
	c := *booking
	r.db.bookings[booking.ID] = &c
	return nil
}

func (r *bookingRepo) UpdateStatusFrom(ctx context.Context, booking *models.Booking, from models.BookingStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cur, ok := r.db.bookings[booking.ID]
	if !ok {
		return fmt.Errorf("%w: booking %s", models.ErrNotFound, booking.ID.Hex())
	}
	if cur.Status != from {
		return fmt.Errorf("%w: booking %s is %s", models.ErrConflict, booking.BookingID, cur.Status)
	}
	c := *booking
	r.db.bookings[booking.ID] = &c
	return nil
}
