package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStockRecordsMovement(t *testing.T) {
	now := time.Now()
	item := &InventoryItem{Name: "Rice", Unit: "kg", CurrentStock: 5}

	m, err := item.AddStock(10, MovementPurchase, "weekly order", nil, now)

	require.NoError(t, err)
	assert.Equal(t, 15.0, item.CurrentStock)
	require.Len(t, item.StockMovements, 1)
	assert.Equal(t, 5.0, m.PreviousStock)
	assert.Equal(t, 15.0, m.NewStock)
	assert.Equal(t, MovementPurchase, item.StockMovements[0].Type)
}

func TestConsumeStockInsufficient(t *testing.T) {
	item := &InventoryItem{Name: "Oil", Unit: "l", CurrentStock: 2}

	_, err := item.ConsumeStock(3, MovementUsage, "", nil, time.Now())

	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2.0, item.CurrentStock)
	assert.Empty(t, item.StockMovements)

	m, err := item.ConsumeStock(2, MovementWaste, "spilled", nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.NewStock)
	assert.Equal(t, 2.0, m.Quantity)
}

func TestCheckAndCreateAlertsDeduplicates(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	expiry := now.Add(3 * 24 * time.Hour)
	item := &InventoryItem{Name: "Milk", Unit: "l", CurrentStock: 4, ReorderLevel: 5, ExpiryDate: &expiry}

	created := item.CheckAndCreateAlerts(now)
	require.Len(t, created, 2)
	assert.Empty(t, item.CheckAndCreateAlerts(now))
	assert.Len(t, item.Alerts, 2)

	require.NoError(t, item.AcknowledgeAlert(created[0].ID, now))
	again := item.CheckAndCreateAlerts(now)
	require.Len(t, again, 1)
	assert.Equal(t, created[0].Type, again[0].Type)
	assert.Len(t, item.OpenAlerts(), 2)
}

func TestOutOfStockAlert(t *testing.T) {
	item := &InventoryItem{Name: "Sugar", CurrentStock: 0, ReorderLevel: 2}
	created := item.CheckAndCreateAlerts(time.Now())
	require.Len(t, created, 1)
	assert.Equal(t, AlertOutOfStock, created[0].Type)
}

func TestAcknowledgeUnknownAlert(t *testing.T) {
	item := &InventoryItem{}
	assert.ErrorIs(t, item.AcknowledgeAlert("nope", time.Now()), ErrNotFound)
}
