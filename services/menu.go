package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/UmangSachdeva/MessMate/mediastore"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuService struct {
	menu  store.MenuRepository
	media mediastore.Store
	log   *logrus.Entry
	now   Clock
}

func NewMenuService(menu store.MenuRepository, media mediastore.Store, log *logrus.Entry, now Clock) *MenuService {
	return &MenuService{
		menu:  menu,
		media: media,
		log:   log.WithField("component", "menu"),
		now:   clockOrNow(now),
	}
}

type MenuInput struct {
	Name            string            `json:"name" validate:"required,max=100"`
	Description     string            `json:"description" validate:"max=500"`
	Date            string            `json:"date" validate:"required,datetime=2006-01-02"`
	MealType        models.MealType   `json:"mealType" validate:"required,oneof=breakfast lunch snacks dinner"`
	Items           []string          `json:"items" validate:"required,min=1,dive,required"`
	Category        string            `json:"category" validate:"omitempty,oneof=veg non-veg vegan jain"`
	Price           float64           `json:"price" validate:"required,gt=0"`
	DiscountedPrice float64           `json:"discountedPrice" validate:"gte=0"`
	MaxQuantity     int               `json:"maxQuantity" validate:"required,gte=1"`
	IsAvailable     *bool             `json:"isAvailable"`
	Nutrition       *models.Nutrition `json:"nutrition"`
}

func (in MenuInput) apply(item *models.MenuItem) error {
	day, err := ParseDay(in.Date)
	if err != nil {
		return err
	}
	if in.DiscountedPrice > in.Price {
		return fmt.Errorf("%w: discounted price exceeds price", models.ErrValidation)
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Description = in.Description
	item.Date = day
	item.MealType = in.MealType
	item.Items = in.Items
	item.Category = in.Category
	item.Price = in.Price
	item.DiscountedPrice = in.DiscountedPrice
	item.MaxQuantity = in.MaxQuantity
	item.Nutrition = in.Nutrition
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	return nil
}

func (s *MenuService) Create(ctx context.Context, in MenuInput, createdBy primitive.ObjectID) (*models.MenuItem, error) {
	now := s.now()
	item := &models.MenuItem{IsAvailable: true, CreatedBy: &createdBy, CreatedAt: now, UpdatedAt: now}
	if err := in.apply(item); err != nil {
		return nil, err
	}
	item.CurrentQuantity = item.MaxQuantity
	if err := s.menu.Create(ctx, item); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"item": item.ID.Hex(), "meal": item.MealType, "date": in.Date}).Info("Menu item created")
	return item, nil
}

func (s *MenuService) Get(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	return s.menu.FindByID(ctx, id)
}

func (s *MenuService) List(ctx context.Context, filter store.MenuFilter, page store.Page) ([]models.MenuItem, int64, error) {
	return s.menu.List(ctx, filter, page)
}

// Today lists the available items for the current local date.
func (s *MenuService) Today(ctx context.Context, meal models.MealType) ([]models.MenuItem, error) {
	items, _, err := s.menu.List(ctx, store.MenuFilter{
		Date:          startOfDay(s.now()),
		MealType:      meal,
		AvailableOnly: true,
	}, store.Page{})
	return items, err
}

// Update rewrites the editable fields. A change of MaxQuantity moves the
// remaining quantity by the same amount, never below zero.
func (s *MenuService) Update(ctx context.Context, id primitive.ObjectID, in MenuInput) (*models.MenuItem, error) {
	item, err := s.menu.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldMax := item.MaxQuantity
	if err := in.apply(item); err != nil {
		return nil, err
	}
	item.UpdatedAt = s.now()
	if err := s.menu.Update(ctx, item); err != nil {
		return nil, err
	}

	switch delta := item.MaxQuantity - oldMax; {
	case delta > 0:
		err = s.menu.RestoreQuantity(ctx, id, delta)
	case delta < 0:
		cut := -delta
		if cut > item.CurrentQuantity {
			cut = item.CurrentQuantity
		}
		if cut > 0 {
			err = s.menu.ReduceQuantity(ctx, id, cut)
		}
	}
	if err != nil {
		s.log.WithError(err).WithField("item", id.Hex()).Warn("Failed to adjust remaining quantity")
	}
	return s.menu.FindByID(ctx, id)
}

func (s *MenuService) Delete(ctx context.Context, id primitive.ObjectID) error {
	item, err := s.menu.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.menu.Delete(ctx, id); err != nil {
		return err
	}
	if item.Image != nil && s.media != nil {
		if err := s.media.Delete(ctx, item.Image.PublicID); err != nil {
			s.log.WithError(err).WithField("asset", item.Image.PublicID).Warn("Failed to delete menu image")
		}
	}
	return nil
}

func (s *MenuService) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) (*models.MenuItem, error) {
	item, err := s.menu.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.IsAvailable = available
	item.UpdatedAt = s.now()
	if err := s.menu.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) UploadImage(ctx context.Context, id primitive.ObjectID, filename string, body io.Reader) (*models.MenuItem, error) {
	if s.media == nil {
		return nil, fmt.Errorf("%w: image uploads are not configured", models.ErrUnavailable)
	}
	item, err := s.menu.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	asset, err := s.media.Upload(ctx, "messmate/menu", filename, body)
	if err != nil {
		return nil, err
	}
	previous := item.Image
	item.Image = &asset
	item.UpdatedAt = s.now()
	if err := s.menu.Update(ctx, item); err != nil {
		return nil, err
	}
	if previous != nil {
		if err := s.media.Delete(ctx, previous.PublicID); err != nil {
			s.log.WithError(err).WithField("asset", previous.PublicID).Warn("Failed to delete old menu image")
		}
	}
	return item, nil
}
