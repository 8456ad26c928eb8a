package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/UmangSachdeva/MessMate/metrics"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/realtime"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// saveAttempts bounds the read-modify-write retries on version conflicts.
const saveAttempts = 3

type InventoryService struct {
	inventory store.InventoryRepository
	notifier  Notifier
	log       *logrus.Entry
	now       Clock
}

func NewInventoryService(inventory store.InventoryRepository, notifier Notifier, log *logrus.Entry, now Clock) *InventoryService {
	return &InventoryService{
		inventory: inventory,
		notifier:  notifierOrNop(notifier),
		log:       log.WithField("component", "inventory"),
		now:       clockOrNow(now),
	}
}

type InventoryInput struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Category     string  `json:"category" validate:"omitempty,oneof=grains vegetables fruits dairy spices oil beverages other"`
	Unit         string  `json:"unit" validate:"required,oneof=kg g l ml pcs packets"`
	CurrentStock float64 `json:"currentStock" validate:"gte=0"`
	MinimumStock float64 `json:"minimumStock" validate:"gte=0"`
	MaximumStock float64 `json:"maximumStock" validate:"gte=0"`
	ReorderLevel float64 `json:"reorderLevel" validate:"gte=0"`
	UnitPrice    float64 `json:"unitPrice" validate:"gte=0"`
	Supplier     string  `json:"supplier" validate:"max=100"`
	ExpiryDate   string  `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
}

type StockInput struct {
	Quantity float64             `json:"quantity" validate:"required,gt=0"`
	Type     models.MovementType `json:"type" validate:"omitempty,oneof=purchase usage waste adjustment"`
	Reason   string              `json:"reason" validate:"max=200"`
}

// ItemAlerts pairs an item with its unacknowledged alerts.
type ItemAlerts struct {
	ItemID string         `json:"itemId"`
	Name   string         `json:"name"`
	Alerts []models.Alert `json:"alerts"`
}

func (in InventoryInput) apply(item *models.InventoryItem) error {
	if in.MaximumStock > 0 && in.MinimumStock > in.MaximumStock {
		return fmt.Errorf("%w: minimum stock exceeds maximum stock", models.ErrValidation)
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Category = in.Category
	item.Unit = in.Unit
	item.MinimumStock = in.MinimumStock
	item.MaximumStock = in.MaximumStock
	item.ReorderLevel = in.ReorderLevel
	item.UnitPrice = in.UnitPrice
	item.Supplier = in.Supplier
	item.ExpiryDate = nil
	if in.ExpiryDate != "" {
		day, err := ParseDay(in.ExpiryDate)
		if err != nil {
			return err
		}
		item.ExpiryDate = &day
	}
	return nil
}

// Create stores a new item. A non-zero opening stock is recorded as a
// purchase movement.
func (s *InventoryService) Create(ctx context.Context, in InventoryInput, handledBy primitive.ObjectID) (*models.InventoryItem, error) {
	now := s.now()
	item := &models.InventoryItem{
		StockMovements: []models.StockMovement{},
		Alerts:         []models.Alert{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := in.apply(item); err != nil {
		return nil, err
	}
	if in.CurrentStock > 0 {
		if _, err := item.AddStock(in.CurrentStock, models.MovementPurchase, "Opening stock", &handledBy, now); err != nil {
			return nil, err
		}
	}
	created := item.CheckAndCreateAlerts(now)
	if err := s.inventory.Create(ctx, item); err != nil {
		return nil, err
	}
	s.after(item, created)
	return item, nil
}

func (s *InventoryService) Get(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error) {
	return s.inventory.FindByID(ctx, id)
}

func (s *InventoryService) List(ctx context.Context, category string, page store.Page) ([]models.InventoryItem, int64, error) {
	return s.inventory.List(ctx, category, page)
}

func (s *InventoryService) Update(ctx context.Context, id primitive.ObjectID, in InventoryInput) (*models.InventoryItem, error) {
	var created []models.Alert
	item, err := s.mutate(ctx, id, func(item *models.InventoryItem) error {
		if err := in.apply(item); err != nil {
			return err
		}
		now := s.now()
		item.UpdatedAt = now
		created = item.CheckAndCreateAlerts(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.after(item, created)
	return item, nil
}

func (s *InventoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.inventory.Delete(ctx, id); err != nil {
		return err
	}
	metrics.InventoryLevel.DeleteLabelValues(id.Hex())
	return nil
}

func (s *InventoryService) AddStock(ctx context.Context, id primitive.ObjectID, in StockInput, handledBy primitive.ObjectID) (*models.InventoryItem, error) {
	return s.move(ctx, id, func(item *models.InventoryItem, now time.Time) error {
		_, err := item.AddStock(in.Quantity, in.Type, in.Reason, &handledBy, now)
		return err
	})
}

// ConsumeStock fails with models.ErrInsufficientStock and records nothing
// when the item holds less than the requested quantity.
func (s *InventoryService) ConsumeStock(ctx context.Context, id primitive.ObjectID, in StockInput, handledBy primitive.ObjectID) (*models.InventoryItem, error) {
	return s.move(ctx, id, func(item *models.InventoryItem, now time.Time) error {
		_, err := item.ConsumeStock(in.Quantity, in.Type, in.Reason, &handledBy, now)
		return err
	})
}

func (s *InventoryService) move(ctx context.Context, id primitive.ObjectID, apply func(*models.InventoryItem, time.Time) error) (*models.InventoryItem, error) {
	var created []models.Alert
	item, err := s.mutate(ctx, id, func(item *models.InventoryItem) error {
		now := s.now()
		if err := apply(item, now); err != nil {
			return err
		}
		created = item.CheckAndCreateAlerts(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.after(item, created)
	return item, nil
}

// CheckAlerts evaluates the item and returns the alerts this call created.
func (s *InventoryService) CheckAlerts(ctx context.Context, id primitive.ObjectID) ([]models.Alert, error) {
	var created []models.Alert
	item, err := s.mutate(ctx, id, func(item *models.InventoryItem) error {
		created = item.CheckAndCreateAlerts(s.now())
		if len(created) == 0 {
			return errNoChange
		}
		return nil
	})
	if errors.Is(err, errNoChange) {
		return []models.Alert{}, nil
	}
	if err != nil {
		return nil, err
	}
	s.after(item, created)
	return created, nil
}

func (s *InventoryService) AcknowledgeAlert(ctx context.Context, id primitive.ObjectID, alertID string) (*models.InventoryItem, error) {
	return s.mutate(ctx, id, func(item *models.InventoryItem) error {
		return item.AcknowledgeAlert(alertID, s.now())
	})
}

func (s *InventoryService) OpenAlerts(ctx context.Context) ([]ItemAlerts, error) {
	items, err := s.inventory.WithOpenAlerts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ItemAlerts, 0, len(items))
	for _, item := range items {
		out = append(out, ItemAlerts{ItemID: item.ID.Hex(), Name: item.Name, Alerts: item.OpenAlerts()})
	}
	return out, nil
}

var errNoChange = errors.New("no change")

// mutate loads the item, applies fn and saves it under the version read,
// retrying from a fresh read when another writer got there first.
func (s *InventoryService) mutate(ctx context.Context, id primitive.ObjectID, fn func(*models.InventoryItem) error) (*models.InventoryItem, error) {
	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		item, err := s.inventory.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(item); err != nil {
			return nil, err
		}
		err = s.inventory.Save(ctx, item)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		lastErr = err
		s.log.WithFields(logrus.Fields{"item": id.Hex(), "attempt": attempt + 1}).Debug("Inventory version conflict, retrying")
	}
	return nil, lastErr
}

func (s *InventoryService) after(item *models.InventoryItem, created []models.Alert) {
	metrics.InventoryLevel.WithLabelValues(item.ID.Hex()).Set(item.CurrentStock)
	for _, a := range created {
		metrics.InventoryAlerts.WithLabelValues(string(a.Type)).Inc()
		s.log.WithFields(logrus.Fields{"item": item.Name, "alert": a.Type}).Warn(a.Message)
		s.notifier.EmitToRole(models.RoleAdmin, realtime.EventInventoryAlert, map[string]interface{}{
			"itemId": item.ID.Hex(),
			"name":   item.Name,
			"alert":  a,
		})
	}
}
