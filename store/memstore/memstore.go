// Package memstore is an in-process implementation of the store
// repositories. All collections share one mutex so multi-collection reads
// (analytics) see a consistent snapshot.
package memstore

import (
	"sync"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DB struct {
	mu            sync.Mutex
	users         map[primitive.ObjectID]*models.User
	menu          map[primitive.ObjectID]*models.MenuItem
	bookings      map[primitive.ObjectID]*models.Booking
	inventory     map[primitive.ObjectID]*models.InventoryItem
	feedback      map[primitive.ObjectID]*models.Feedback
	payments      map[primitive.ObjectID]*models.Payment
	notifications map[primitive.ObjectID]*models.Notification
}

func NewDB() *DB {
	return &DB{
		users:         make(map[primitive.ObjectID]*models.User),
		menu:          make(map[primitive.ObjectID]*models.MenuItem),
		bookings:      make(map[primitive.ObjectID]*models.Booking),
		inventory:     make(map[primitive.ObjectID]*models.InventoryItem),
		feedback:      make(map[primitive.ObjectID]*models.Feedback),
		payments:      make(map[primitive.ObjectID]*models.Payment),
		notifications: make(map[primitive.ObjectID]*models.Notification),
	}
}

// New returns a Store whose repositories share a fresh DB.
func New() *store.Store {
	return NewDB().Store()
}

func (db *DB) Store() *store.Store {
	return &store.Store{
		Users:         &userRepo{db},
		Menu:          &menuRepo{db},
		Bookings:      &bookingRepo{db},
		Inventory:     &inventoryRepo{db},
		Feedback:      &feedbackRepo{db},
		Payments:      &paymentRepo{db},
		Notifications: &notificationRepo{db},
		Analytics:     &analyticsRepo{db},
	}
}

func paginate[T any](items []T, page store.Page) []T {
	if page.Limit <= 0 {
		return items
	}
	start := page.Skip()
	if start >= int64(len(items)) {
		return []T{}
	}
	end := start + page.Limit
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[start:end]
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Wallet.Transactions = append([]models.WalletTransaction(nil), u.Wallet.Transactions...)
	if u.Avatar != nil {
		a := *u.Avatar
		c.Avatar = &a
	}
	return &c
}

func cloneInventory(i *models.InventoryItem) *models.InventoryItem {
	c := *i
	c.StockMovements = append([]models.StockMovement(nil), i.StockMovements...)
	c.Alerts = append([]models.Alert(nil), i.Alerts...)
	return &c
}
