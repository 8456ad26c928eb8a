package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MovementType string

const (
	MovementPurchase   MovementType = "purchase"
	MovementUsage      MovementType = "usage"
	MovementWaste      MovementType = "waste"
	MovementAdjustment MovementType = "adjustment"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementPurchase, MovementUsage, MovementWaste, MovementAdjustment:
		return true
	}
	return false
}

type AlertType string

const (
	AlertLowStock   AlertType = "low_stock"
	AlertOutOfStock AlertType = "out_of_stock"
	AlertExpiring   AlertType = "expiring"
)

// ExpiryWarning is how far ahead of ExpiryDate an expiring alert is raised.
const ExpiryWarning = 7 * 24 * time.Hour

// StockMovement is an immutable record of one stock change.
type StockMovement struct {
	Type          MovementType        `json:"type" bson:"type"`
	Quantity      float64             `json:"quantity" bson:"quantity"`
	PreviousStock float64             `json:"previousStock" bson:"previousStock"`
	NewStock      float64             `json:"newStock" bson:"newStock"`
	Reason        string              `json:"reason,omitempty" bson:"reason,omitempty"`
	HandledBy     *primitive.ObjectID `json:"handledBy,omitempty" bson:"handledBy,omitempty"`
	Date          time.Time           `json:"date" bson:"date"`
}

type Alert struct {
	ID             string     `json:"id" bson:"id"`
	Type           AlertType  `json:"type" bson:"type"`
	Message        string     `json:"message" bson:"message"`
	Acknowledged   bool       `json:"acknowledged" bson:"acknowledged"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty" bson:"acknowledgedAt,omitempty"`
}

type InventoryItem struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Category       string             `json:"category,omitempty" bson:"category,omitempty"`
	Unit           string             `json:"unit" bson:"unit"`
	CurrentStock   float64            `json:"currentStock" bson:"currentStock"`
	MinimumStock   float64            `json:"minimumStock" bson:"minimumStock"`
	MaximumStock   float64            `json:"maximumStock" bson:"maximumStock"`
	ReorderLevel   float64            `json:"reorderLevel" bson:"reorderLevel"`
	UnitPrice      float64            `json:"unitPrice" bson:"unitPrice"`
	Supplier       string             `json:"supplier,omitempty" bson:"supplier,omitempty"`
	ExpiryDate     *time.Time         `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`
	StockMovements []StockMovement    `json:"stockMovements" bson:"stockMovements"`
	Alerts         []Alert            `json:"alerts" bson:"alerts"`
	Version        int64              `json:"version" bson:"version"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// AddStock raises CurrentStock and records the movement.
func (i *InventoryItem) AddStock(quantity float64, kind MovementType, reason string, handledBy *primitive.ObjectID, at time.Time) (StockMovement, error) {
	if quantity <= 0 {
		return StockMovement{}, fmt.Errorf("%w: quantity must be greater than 0", ErrValidation)
	}
	if kind == "" {
		kind = MovementPurchase
	}
	return i.move(quantity, kind, reason, handledBy, at), nil
}

// ConsumeStock lowers CurrentStock; it fails with ErrInsufficientStock and
// leaves the item unchanged when quantity exceeds CurrentStock.
func (i *InventoryItem) ConsumeStock(quantity float64, kind MovementType, reason string, handledBy *primitive.ObjectID, at time.Time) (StockMovement, error) {
	if quantity <= 0 {
		return StockMovement{}, fmt.Errorf("%w: quantity must be greater than 0", ErrValidation)
	}
	if quantity > i.CurrentStock {
		return StockMovement{}, fmt.Errorf("%w: %s has %.2f %s, requested %.2f", ErrInsufficientStock, i.Name, i.CurrentStock, i.Unit, quantity)
	}
	if kind == "" {
		kind = MovementUsage
	}
	return i.move(-quantity, kind, reason, handledBy, at), nil
}

func (i *InventoryItem) move(delta float64, kind MovementType, reason string, handledBy *primitive.ObjectID, at time.Time) StockMovement {
	qty := delta
	if qty < 0 {
		qty = -qty
	}
	m := StockMovement{
		Type:          kind,
		Quantity:      qty,
		PreviousStock: i.CurrentStock,
		NewStock:      i.CurrentStock + delta,
		Reason:        reason,
		HandledBy:     handledBy,
		Date:          at,
	}
	i.CurrentStock = m.NewStock
	i.StockMovements = append(i.StockMovements, m)
	i.UpdatedAt = at
	return m
}

func (i *InventoryItem) hasOpenAlert(t AlertType) bool {
	for _, a := range i.Alerts {
		if a.Type == t && !a.Acknowledged {
			return true
		}
	}
	return false
}

// CheckAndCreateAlerts evaluates stock and expiry conditions and appends an
// alert for each condition that has no unacknowledged alert of its type.
// It returns only the alerts created by this call.
func (i *InventoryItem) CheckAndCreateAlerts(now time.Time) []Alert {
	var conditions []Alert
	switch {
	case i.CurrentStock <= 0:
		conditions = append(conditions, Alert{
			Type:    AlertOutOfStock,
			Message: fmt.Sprintf("%s is out of stock", i.Name),
		})
	case i.CurrentStock <= i.ReorderLevel || i.CurrentStock <= i.MinimumStock:
		conditions = append(conditions, Alert{
			Type:    AlertLowStock,
			Message: fmt.Sprintf("%s is low on stock (%.2f %s left)", i.Name, i.CurrentStock, i.Unit),
		})
	}
	if i.ExpiryDate != nil && i.ExpiryDate.Sub(now) <= ExpiryWarning {
		conditions = append(conditions, Alert{
			Type:    AlertExpiring,
			Message: fmt.Sprintf("%s expires on %s", i.Name, i.ExpiryDate.Format("2006-01-02")),
		})
	}

	var created []Alert
	for _, a := range conditions {
		if i.hasOpenAlert(a.Type) {
			continue
		}
		a.ID = uuid.NewString()
		a.CreatedAt = now
		i.Alerts = append(i.Alerts, a)
		created = append(created, a)
	}
	return created
}

// AcknowledgeAlert marks the alert with id as handled.
func (i *InventoryItem) AcknowledgeAlert(id string, at time.Time) error {
	for idx := range i.Alerts {
		if i.Alerts[idx].ID != id {
			continue
		}
		if i.Alerts[idx].Acknowledged {
			return nil
		}
		i.Alerts[idx].Acknowledged = true
		i.Alerts[idx].AcknowledgedAt = &at
		return nil
	}
	return fmt.Errorf("%w: alert %s", ErrNotFound, id)
}

// OpenAlerts returns unacknowledged alerts.
func (i *InventoryItem) OpenAlerts() []Alert {
	var open []Alert
	for _, a := range i.Alerts {
		if !a.Acknowledged {
			open = append(open, a)
		}
	}
	return open
}
