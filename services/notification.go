package services

import (
	"context"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/realtime"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService persists in-app notifications and pushes them live.
type NotificationService struct {
	notifications store.NotificationRepository
	notifier      Notifier
	log           *logrus.Entry
	now           Clock
}

func NewNotificationService(notifications store.NotificationRepository, notifier Notifier, log *logrus.Entry, now Clock) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		notifier:      notifierOrNop(notifier),
		log:           log.WithField("component", "notifications"),
		now:           clockOrNow(now),
	}
}

type BroadcastInput struct {
	Title   string      `json:"title" validate:"required,max=100"`
	Message string      `json:"message" validate:"required,max=1000"`
	Role    models.Role `json:"role" validate:"omitempty,oneof=student staff admin"`
}

// Notify stores a notification for one user and emits notification:new.
func (s *NotificationService) Notify(ctx context.Context, user primitive.ObjectID, kind, title, message string) (*models.Notification, error) {
	n := &models.Notification{
		User:      &user,
		Title:     title,
		Message:   message,
		Type:      kind,
		CreatedAt: s.now(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	s.notifier.EmitToUser(user.Hex(), realtime.EventNotificationNew, n)
	return n, nil
}

// Broadcast stores one notification addressed to a role, or to everyone
// when no role is given, and emits admin:broadcast.
func (s *NotificationService) Broadcast(ctx context.Context, in BroadcastInput) (*models.Notification, error) {
	n := &models.Notification{
		Role:      in.Role,
		Title:     in.Title,
		Message:   in.Message,
		Type:      "broadcast",
		CreatedAt: s.now(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	if in.Role == "" {
		s.notifier.Broadcast(realtime.EventAdminBroadcast, n)
	} else {
		s.notifier.EmitToRole(in.Role, realtime.EventAdminBroadcast, n)
	}
	s.log.WithFields(logrus.Fields{"role": in.Role, "title": in.Title}).Info("Broadcast sent")
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, user primitive.ObjectID, role models.Role, page store.Page) ([]models.Notification, int64, error) {
	return s.notifications.ListFor(ctx, user, role, page)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, user primitive.ObjectID) error {
	return s.notifications.MarkRead(ctx, id, user)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, user primitive.ObjectID) (int64, error) {
	return s.notifications.MarkAllRead(ctx, user)
}
