package services

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/UmangSachdeva/MessMate/store/memstore"
	"github.com/UmangSachdeva/MessMate/store/mongostore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStore opens a throwaway database on MONGO_URI and drops it when the
// test ends. Without MONGO_URI the test is skipped.
func mongoStore(t *testing.T) *store.Store {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("messmate_test_" + primitive.NewObjectID().Hex())
	require.NoError(t, mongostore.EnsureIndexes(ctx, db))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return mongostore.New(db)
}

// forEachBackend runs scenario over the in-memory store and, when MONGO_URI
// is set, over MongoDB.
func forEachBackend(t *testing.T, scenario func(t *testing.T, f *fixture)) {
	backends := []struct {
		name string
		open func(t *testing.T) *store.Store
	}{
		{"memory", func(*testing.T) *store.Store { return memstore.New() }},
		{"mongo", mongoStore},
	}
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			scenario(t, newFixtureOn(t, b.open(t)))
		})
	}
}

func TestBackendBookingDebitsOnceAndReducesQuantity(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		u := f.user(t, 500)
		item := f.lunch(t, 100, 10)

		b, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 3})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPaid, b.PaymentStatus)
		assert.Equal(t, 200.0, f.balance(t, u.ID))
		assert.Equal(t, 7, f.remaining(t, item.ID))

		stored, err := f.st.Users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		var debits []models.WalletTransaction
		for _, txn := range stored.Wallet.Transactions {
			if txn.Type == models.Debit {
				debits = append(debits, txn)
			}
		}
		require.Len(t, debits, 1)
		assert.Equal(t, 300.0, debits[0].Amount)
		assert.Equal(t, 1, stored.Stats.TotalBookings)
	})
}

func TestBackendFailedDebitLeavesBalance(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		u := f.user(t, 50)

		_, err := f.wallet.Debit(ctx, u.ID, 80, "too much", "x")
		assert.ErrorIs(t, err, models.ErrInsufficientBalance)
		assert.Equal(t, 50.0, f.balance(t, u.ID))

		stored, err := f.st.Users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Wallet.Transactions, 1)
	})
}

func TestBackendConcurrentDebitsNeverOverdraw(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		u := f.user(t, 100)

		var (
			wg sync.WaitGroup
			mu sync.Mutex
			ok int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := f.wallet.Debit(ctx, u.ID, 20, "meal", primitive.NewObjectID().Hex()); err == nil {
					mu.Lock()
					ok++
					mu.Unlock()
				} else {
					assert.ErrorIs(t, err, models.ErrInsufficientBalance)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 5, ok)
		assert.Equal(t, 0.0, f.balance(t, u.ID))
	})
}

func TestBackendConcurrentBookingsForLastPortion(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		item := f.lunch(t, 100, 1)
		users := []*models.User{f.user(t, 100), f.user(t, 100)}

		var wg sync.WaitGroup
		errs := make([]error, len(users))
		for i, u := range users {
			wg.Add(1)
			go func(i int, id primitive.ObjectID) {
				defer wg.Done()
				_, errs[i] = f.bookings.CreateBooking(ctx, id, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
			}(i, u.ID)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.True(t, errors.Is(err, models.ErrInsufficientQuantity), "unexpected error: %v", err)
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 0, f.remaining(t, item.ID))
		assert.Equal(t, 100.0, f.balance(t, users[0].ID)+f.balance(t, users[1].ID))
	})
}

func TestBackendPaidCancellationRefundsOnce(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		u := f.user(t, 100)
		item := f.lunch(t, 100, 2)

		b, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
		require.NoError(t, err)
		require.Equal(t, 0.0, f.balance(t, u.ID))

		cancelled, err := f.bookings.UpdateBookingStatus(ctx, b.ID, StatusInput{Status: models.BookingCancelled})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentRefunded, cancelled.PaymentStatus)
		assert.Equal(t, 100.0, f.balance(t, u.ID))
		assert.Equal(t, 2, f.remaining(t, item.ID))

		_, err = f.bookings.UpdateBookingStatus(ctx, b.ID, StatusInput{Status: models.BookingConfirmed})
		assert.ErrorIs(t, err, models.ErrValidation)
		_, err = f.bookings.UpdateBookingStatus(ctx, b.ID, StatusInput{Status: models.BookingCancelled})
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Equal(t, 100.0, f.balance(t, u.ID))
		assert.Equal(t, 2, f.remaining(t, item.ID))
	})
}

func TestBackendStatusWriteRequiresExpectedStatus(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		u := f.user(t, 100)
		item := f.lunch(t, 50, 2)
		b, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
		require.NoError(t, err)

		b.Status = models.BookingServed
		err = f.st.Bookings.UpdateStatusFrom(ctx, b, models.BookingConfirmed)
		assert.ErrorIs(t, err, models.ErrConflict)

		ghost := *b
		ghost.ID = primitive.NewObjectID()
		err = f.st.Bookings.UpdateStatusFrom(ctx, &ghost, models.BookingPending)
		assert.ErrorIs(t, err, models.ErrNotFound)

		require.NoError(t, f.st.Bookings.UpdateStatusFrom(ctx, b, models.BookingPending))
		stored, err := f.st.Bookings.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingServed, stored.Status)
	})
}

func TestBackendQuantityWrites(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		item := f.lunch(t, 80, 3)

		assert.ErrorIs(t, f.st.Menu.ReduceQuantity(ctx, item.ID, 4), models.ErrInsufficientQuantity)
		assert.Equal(t, 3, f.remaining(t, item.ID))
		assert.ErrorIs(t, f.st.Menu.ReduceQuantity(ctx, primitive.NewObjectID(), 1), models.ErrNotFound)

		require.NoError(t, f.st.Menu.ReduceQuantity(ctx, item.ID, 2))
		assert.Equal(t, 1, f.remaining(t, item.ID))

		// full-document updates leave the remaining quantity alone
		stored, err := f.st.Menu.FindByID(ctx, item.ID)
		require.NoError(t, err)
		stored.CurrentQuantity = 3
		stored.IsAvailable = false
		require.NoError(t, f.st.Menu.Update(ctx, stored))
		assert.Equal(t, 1, f.remaining(t, item.ID))

		require.NoError(t, f.st.Menu.RestoreQuantity(ctx, item.ID, 5))
		assert.Equal(t, 3, f.remaining(t, item.ID), "restore is capped at maxQuantity")
	})
}

func TestBackendAddStockAndVersionGuard(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		item := f.rice(t, 5)

		updated, err := f.inventory.AddStock(ctx, item.ID, StockInput{Quantity: 10}, primitive.NewObjectID())
		require.NoError(t, err)
		assert.Equal(t, 15.0, updated.CurrentStock)
		last := updated.StockMovements[len(updated.StockMovements)-1]
		assert.Equal(t, 5.0, last.PreviousStock)
		assert.Equal(t, 15.0, last.NewStock)

		first, err := f.st.Inventory.FindByID(ctx, item.ID)
		require.NoError(t, err)
		second, err := f.st.Inventory.FindByID(ctx, item.ID)
		require.NoError(t, err)

		first.Supplier = "first writer"
		require.NoError(t, f.st.Inventory.Save(ctx, first))
		second.Supplier = "second writer"
		assert.ErrorIs(t, f.st.Inventory.Save(ctx, second), models.ErrConflict)

		stored, err := f.st.Inventory.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "first writer", stored.Supplier)
	})
}

func TestBackendAnalyticsAggregations(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		seedBookings(t, f)

		d, err := f.analytics.Dashboard(ctx, store.DateRange{})
		require.NoError(t, err)
		assert.Empty(t, d.Degraded)
		assert.Equal(t, 300.0, d.TotalRevenue)
		assert.Equal(t, 3, d.TotalBookings)
		assert.Equal(t, 1, d.Attendance.Served)
		assert.Equal(t, 1, d.Attendance.NoShow)
		require.NotEmpty(t, d.TopItems)
		assert.Equal(t, 3, d.TopItems[0].Quantity)
	})
}
