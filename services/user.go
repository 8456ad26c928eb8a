package services

import (
	"context"
	"fmt"
	"io"

	"github.com/UmangSachdeva/MessMate/mediastore"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users store.UserRepository
	media mediastore.Store
	log   *logrus.Entry
}

// NewUserService accepts a nil media store; avatar uploads then fail with
// models.ErrUnavailable.
func NewUserService(users store.UserRepository, media mediastore.Store, log *logrus.Entry) *UserService {
	return &UserService{users: users, media: media, log: log.WithField("component", "users")}
}

type ProfileInput struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=50"`
	Phone      *string `json:"phone" validate:"omitempty,min=10,max=15"`
	RoomNumber *string `json:"roomNumber" validate:"omitempty,max=20"`
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, in ProfileInput) (*models.User, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.RoomNumber != nil {
		fields["roomNumber"] = *in.RoomNumber
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", models.ErrValidation)
	}
	return s.users.UpdateProfile(ctx, id, fields)
}

// UploadAvatar stores the image and replaces the previous avatar, removing
// the old asset on a best-effort basis.
func (s *UserService) UploadAvatar(ctx context.Context, id primitive.ObjectID, filename string, body io.Reader) (*models.User, error) {
	if s.media == nil {
		return nil, fmt.Errorf("%w: image uploads are not configured", models.ErrUnavailable)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	asset, err := s.media.Upload(ctx, "messmate/avatars", filename, body)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.UpdateProfile(ctx, id, map[string]interface{}{"avatar": asset})
	if err != nil {
		return nil, err
	}
	if user.Avatar != nil && user.Avatar.PublicID != "" {
		if err := s.media.Delete(ctx, user.Avatar.PublicID); err != nil {
			s.log.WithError(err).WithField("asset", user.Avatar.PublicID).Warn("Failed to delete old avatar")
		}
	}
	return updated, nil
}

func (s *UserService) List(ctx context.Context, filter store.UserFilter, page store.Page) ([]models.User, int64, error) {
	return s.users.List(ctx, filter, page)
}

func (s *UserService) SetStatus(ctx context.Context, id primitive.ObjectID, active bool) (*models.User, error) {
	if err := s.users.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user": id.Hex(), "active": active}).Info("User status changed")
	return s.users.FindByID(ctx, id)
}
