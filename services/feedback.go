package services

import (
	"context"
	"fmt"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FeedbackService struct {
	feedback store.FeedbackRepository
	bookings store.BookingRepository
	notes    *NotificationService
	log      *logrus.Entry
	now      Clock
}

func NewFeedbackService(feedback store.FeedbackRepository, bookings store.BookingRepository, notes *NotificationService, log *logrus.Entry, now Clock) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		bookings: bookings,
		notes:    notes,
		log:      log.WithField("component", "feedback"),
		now:      clockOrNow(now),
	}
}

type FeedbackInput struct {
	Booking  string `json:"booking" validate:"omitempty,len=24,hexadecimal"`
	MenuItem string `json:"menuItem" validate:"omitempty,len=24,hexadecimal"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Category string `json:"category" validate:"required,oneof=food service hygiene other"`
	Comment  string `json:"comment" validate:"max=1000"`
}

type RespondInput struct {
	Response string                `json:"response" validate:"required,max=1000"`
	Status   models.FeedbackStatus `json:"status" validate:"omitempty,oneof=open resolved"`
}

// Create records feedback. A referenced booking must belong to the author
// and supplies the menu item when none is given.
func (s *FeedbackService) Create(ctx context.Context, userID primitive.ObjectID, in FeedbackInput) (*models.Feedback, error) {
	fb := &models.Feedback{
		User:      userID,
		Rating:    in.Rating,
		Category:  in.Category,
		Comment:   in.Comment,
		Status:    models.FeedbackOpen,
		CreatedAt: s.now(),
	}
	if in.MenuItem != "" {
		id, err := ParseID(in.MenuItem)
		if err != nil {
			return nil, err
		}
		fb.MenuItem = &id
	}
	if in.Booking != "" {
		id, err := ParseID(in.Booking)
		if err != nil {
			return nil, err
		}
		b, err := s.bookings.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b.User != userID {
			return nil, fmt.Errorf("%w: booking %s", models.ErrNotFound, id.Hex())
		}
		fb.Booking = &id
		if fb.MenuItem == nil {
			menuID := b.MenuItem
			fb.MenuItem = &menuID
		}
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *FeedbackService) Mine(ctx context.Context, userID primitive.ObjectID, page store.Page) ([]models.Feedback, int64, error) {
	return s.feedback.List(ctx, store.FeedbackFilter{User: &userID}, page)
}

func (s *FeedbackService) List(ctx context.Context, filter store.FeedbackFilter, page store.Page) ([]models.Feedback, int64, error) {
	return s.feedback.List(ctx, filter, page)
}

// Respond stores the admin reply, resolving the feedback unless told
// otherwise, and notifies the author.
func (s *FeedbackService) Respond(ctx context.Context, id primitive.ObjectID, in RespondInput) (*models.Feedback, error) {
	fb, err := s.feedback.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	fb.AdminResponse = in.Response
	fb.RespondedAt = &now
	fb.Status = models.FeedbackResolved
	if in.Status != "" {
		fb.Status = in.Status
	}
	if err := s.feedback.Update(ctx, fb); err != nil {
		return nil, err
	}

	if s.notes != nil {
		if _, err := s.notes.Notify(ctx, fb.User, "feedback", "Feedback response", in.Response); err != nil {
			s.log.WithError(err).WithField("feedback", id.Hex()).Warn("Failed to notify feedback author")
		}
	}
	return fb, nil
}
