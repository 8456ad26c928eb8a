package mongostore

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// testStore connects to MONGO_URI and hands out a fresh database that is
// dropped when the test ends.
func testStore(t *testing.T) *store.Store {
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
	require.NoError(t, EnsureIndexes(ctx, db))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return New(db)
}

func seedUser(t *testing.T, st *store.Store, balance float64) *models.User {
	t.Helper()
	ctx := context.Background()
	u := &models.User{
		Name:      "Ravi",
		Email:     primitive.NewObjectID().Hex() + "@hostel.test",
		Role:      models.RoleStudent,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Users.Create(ctx, u))
	if balance > 0 {
		txn, err := models.NewCredit(balance, "seed", "seed", time.Now())
		require.NoError(t, err)
		_, err = st.Users.CreditWallet(ctx, u.ID, txn)
		require.NoError(t, err)
	}
	return u
}

func TestDebitWalletIsConditional(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	u := seedUser(t, st, 50)

	txn, err := models.NewDebit(80, "lunch", "b-1", time.Now())
	require.NoError(t, err)
	_, err = st.Users.DebitWallet(ctx, u.ID, txn)
	assert.ErrorIs(t, err, models.ErrInsufficientBalance)

	_, err = st.Users.DebitWallet(ctx, primitive.NewObjectID(), txn)
	assert.ErrorIs(t, err, models.ErrNotFound)

	stored, err := st.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stored.Wallet.Balance)
	assert.Len(t, stored.Wallet.Transactions, 1)
}

func TestConcurrentDebitsStopAtZero(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	u := seedUser(t, st, 100)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			txn, err := models.NewDebit(20, "meal", primitive.NewObjectID().Hex(), time.Now())
			if err != nil {
				return
			}
			if _, err := st.Users.DebitWallet(ctx, u.ID, txn); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stored, err := st.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, ok)
	assert.Equal(t, 0.0, stored.Wallet.Balance)
	assert.InDelta(t, stored.Wallet.LedgerBalance(), stored.Wallet.Balance, 1e-9)
}

func TestRevenueByDaySumsPaidBookings(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, b := range []struct {
		amount float64
		status models.PaymentStatus
	}{
		{120, models.PaymentPaid},
		{80, models.PaymentPaid},
		{60, models.PaymentRefunded},
	} {
		require.NoError(t, st.Bookings.Create(ctx, &models.Booking{
			BookingID:     "BK-" + primitive.NewObjectID().Hex(),
			User:          primitive.NewObjectID(),
			MenuItem:      primitive.NewObjectID(),
			Quantity:      1,
			MealType:      models.Lunch,
			BookingDate:   now,
			FinalAmount:   b.amount,
			Status:        models.BookingConfirmed,
			PaymentStatus: b.status,
			CreatedAt:     now,
			UpdatedAt:     now,
		}))
	}

	days, err := st.Analytics.RevenueByDay(ctx, store.DateRange{From: now.Add(-time.Hour), To: now.Add(time.Hour)})
	require.NoError(t, err)
	var total float64
	var count int
	for _, d := range days {
		total += d.Amount
		count += d.Count
	}
	assert.Equal(t, 200.0, total)
	assert.Equal(t, 2, count)

	empty, err := st.Analytics.RevenueByDay(ctx, store.DateRange{From: now.Add(time.Hour), To: now.Add(2 * time.Hour)})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
