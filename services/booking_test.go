package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/realtime"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 500)
	item := f.lunch(t, 100, 10)

	b, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 2})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(b.BookingID, "BK-"))
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, models.PaymentPaid, b.PaymentStatus)
	assert.Equal(t, 200.0, b.FinalAmount)
	assert.True(t, strings.HasPrefix(b.QRCode, "data:image/png;base64,"))

	assert.Equal(t, 300.0, f.balance(t, u.ID))
	assert.Equal(t, 8, f.remaining(t, item.ID))

	stored, err := f.st.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	debits := 0
	for _, txn := range stored.Wallet.Transactions {
		if txn.Type == models.Debit {
			debits++
			assert.Equal(t, 200.0, txn.Amount)
			assert.Equal(t, b.BookingID, txn.TransactionID)
		}
	}
	assert.Equal(t, 1, debits)
	assert.Equal(t, 1, stored.Stats.TotalBookings)
	assert.Equal(t, 200.0, stored.Stats.TotalSpent)

	_, total, err := f.st.Bookings.List(ctx, store.BookingFilter{User: &u.ID}, store.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	assert.Contains(t, f.notifier.names("user_"+u.ID.Hex()), realtime.EventBookingCreated)
	assert.Contains(t, f.notifier.names("role_admin"), realtime.EventBookingCreated)
}

func TestCreateBookingUsesDiscountedPrice(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, 500)
	item := f.lunch(t, 100, 10)
	item.DiscountedPrice = 80
	require.NoError(t, f.st.Menu.Update(context.Background(), item))

	b, err := f.bookings.CreateBooking(context.Background(), u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 200.0, b.TotalAmount)
	assert.Equal(t, 40.0, b.Discount)
	assert.Equal(t, 160.0, b.FinalAmount)
	assert.Equal(t, 340.0, f.balance(t, u.ID))
}

func TestCreateBookingInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 50)
	item := f.lunch(t, 100, 10)

	_, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	require.ErrorIs(t, err, models.ErrInsufficientBalance)

	assert.Equal(t, 50.0, f.balance(t, u.ID))
	assert.Equal(t, 10, f.remaining(t, item.ID))
	_, total, err := f.st.Bookings.List(ctx, store.BookingFilter{}, store.Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateBookingRejectsClosedOrUnavailableItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 500)
	item := f.lunch(t, 100, 10)

	_, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 11})
	assert.ErrorIs(t, err, models.ErrInsufficientQuantity)

	f.now = time.Date(2025, 3, 10, 12, 5, 0, 0, time.Local)
	_, err = f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	assert.ErrorIs(t, err, models.ErrUnavailable)

	f.now = testNow
	_, err = f.menu.SetAvailability(ctx, item.ID, false)
	require.NoError(t, err)
	_, err = f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	assert.ErrorIs(t, err, models.ErrUnavailable)

	_, err = f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: primitive.NewObjectID().Hex(), Quantity: 1})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, 500.0, f.balance(t, u.ID))
}

// failingMenu lets the availability check pass and then loses the race
// for the last portions.
type failingMenu struct {
	store.MenuRepository
}

func (failingMenu) ReduceQuantity(context.Context, primitive.ObjectID, int) error {
	return errors.Join(models.ErrInsufficientQuantity, errors.New("sold out meanwhile"))
}

func TestCreateBookingCompensatesOnQuantityFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 300)
	item := f.lunch(t, 100, 10)
	f.st.Menu = failingMenu{f.st.Menu}
	f.build()

	_, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	require.ErrorIs(t, err, models.ErrInsufficientQuantity)

	assert.Equal(t, 300.0, f.balance(t, u.ID))
	stored, err := f.st.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, stored.Wallet.Transactions, 3)
	assert.Equal(t, models.Debit, stored.Wallet.Transactions[1].Type)
	assert.Equal(t, models.Credit, stored.Wallet.Transactions[2].Type)
	assert.Zero(t, stored.Stats.TotalBookings)

	list, _, err := f.st.Bookings.List(ctx, store.BookingFilter{}, store.Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.BookingCancelled, list[0].Status)
	assert.Equal(t, models.PaymentRefunded, list[0].PaymentStatus)
}

func TestConcurrentBookingsForLastPortion(t *testing.T) {
	f := newFixture(t)
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

	succeeded, soldOut := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, models.ErrInsufficientQuantity):
			soldOut++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, soldOut)
	assert.Equal(t, 0, f.remaining(t, item.ID))
	assert.Equal(t, 100.0, f.balance(t, users[0].ID)+f.balance(t, users[1].ID))
}

func TestAdminCancelRefundsPaidBookingOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 100)
	item := f.lunch(t, 100, 5)

	b, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	require.NoError(t, err)
	require.Equal(t, 0.0, f.balance(t, u.ID))

	cancelled, err := f.bookings.UpdateBookingStatus(ctx, b.ID, StatusInput{Status: models.BookingCancelled, Reason: "kitchen closed"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentRefunded, cancelled.PaymentStatus)
	assert.Equal(t, "kitchen closed", cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, 100.0, f.balance(t, u.ID))
	assert.Equal(t, 5, f.remaining(t, item.ID))

	_, err = f.bookings.UpdateBookingStatus(ctx, b.ID, StatusInput{Status: models.BookingCancelled})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, 100.0, f.balance(t, u.ID))

	assert.Contains(t, f.notifier.names("user_"+u.ID.Hex()), realtime.EventBookingUpdated)
	notes, _, err := f.notifications.List(ctx, u.ID, models.RoleStudent, store.Page{})
	require.NoError(t, err)
	assert.NotEmpty(t, notes)
}

func TestUpdateBookingStatusStampsTimes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 100)
	item := f.lunch(t, 50, 5)
	b, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	require.NoError(t, err)

	b, err = f.bookings.UpdateBookingStatus(ctx, b.ID, StatusInput{Status: models.BookingConfirmed})
	require.NoError(t, err)
	require.NotNil(t, b.EstimatedPickupTime)
	assert.Equal(t, f.now.Add(PickupWindow), *b.EstimatedPickupTime)

	b, err = f.bookings.UpdateBookingStatus(ctx, b.ID, StatusInput{Status: models.BookingPrepared})
	require.NoError(t, err)
	assert.NotNil(t, b.PreparationEndTime)

	b, err = f.bookings.UpdateBookingStatus(ctx, b.ID, StatusInput{Status: models.BookingServed})
	require.NoError(t, err)
	assert.NotNil(t, b.ActualPickupTime)

	// no ordering guard between non-terminal states
	b, err = f.bookings.UpdateBookingStatus(ctx, b.ID, StatusInput{Status: models.BookingPending})
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, b.Status)

	_, err = f.bookings.UpdateBookingStatus(ctx, b.ID, StatusInput{Status: "eaten"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCancelBookingByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 200)
	other := f.user(t, 0)
	item := f.lunch(t, 100, 5)

	b, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	require.NoError(t, err)

	_, err = f.bookings.CancelBooking(ctx, other.ID, b.ID, "")
	assert.ErrorIs(t, err, models.ErrNotFound)

	cancelled, err := f.bookings.CancelBooking(ctx, u.ID, b.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Cancelled by user", cancelled.CancellationReason)
	assert.Equal(t, 200.0, f.balance(t, u.ID))

	served, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	require.NoError(t, err)
	_, err = f.bookings.UpdateBookingStatus(ctx, served.ID, StatusInput{Status: models.BookingServed})
	require.NoError(t, err)
	_, err = f.bookings.CancelBooking(ctx, u.ID, served.ID, "changed my mind")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestVerifyBookingAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 100)
	item := f.lunch(t, 40, 5)
	b, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	require.NoError(t, err)

	found, err := f.bookings.VerifyBooking(ctx, b.BookingID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)

	_, err = f.bookings.Get(ctx, b.ID, primitive.NewObjectID(), false)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.bookings.Get(ctx, b.ID, primitive.NewObjectID(), true)
	assert.NoError(t, err)
}

func TestTerminalBookingCannotBeReopened(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.lunch(t, 100, 5)
	a, b := f.user(t, 100), f.user(t, 100)

	first, err := f.bookings.CreateBooking(ctx, a.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	require.NoError(t, err)
	_, err = f.bookings.CreateBooking(ctx, b.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	require.NoError(t, err)
	require.Equal(t, 3, f.remaining(t, item.ID))

	_, err = f.bookings.UpdateBookingStatus(ctx, first.ID, StatusInput{Status: models.BookingCancelled})
	require.NoError(t, err)
	require.Equal(t, 4, f.remaining(t, item.ID))

	for _, target := range []models.BookingStatus{models.BookingConfirmed, models.BookingServed, models.BookingPending} {
		_, err = f.bookings.UpdateBookingStatus(ctx, first.ID, StatusInput{Status: target})
		assert.ErrorIs(t, err, models.ErrValidation, "cancelled -> %s", target)
	}
	_, err = f.bookings.UpdateBookingStatus(ctx, first.ID, StatusInput{Status: models.BookingCancelled})
	assert.ErrorIs(t, err, models.ErrValidation)

	stored, err := f.st.Bookings.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, stored.Status)
	assert.Equal(t, models.PaymentRefunded, stored.PaymentStatus)
	assert.Equal(t, 4, f.remaining(t, item.ID), "the other booking still holds its portion")
	assert.Equal(t, 100.0, f.balance(t, a.ID))
}

func TestNoShowAndCompletedAreFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 200)
	item := f.lunch(t, 100, 5)

	for _, final := range []models.BookingStatus{models.BookingNoShow, models.BookingCompleted} {
		bk, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
		require.NoError(t, err)
		_, err = f.bookings.UpdateBookingStatus(ctx, bk.ID, StatusInput{Status: final})
		require.NoError(t, err)

		_, err = f.bookings.UpdateBookingStatus(ctx, bk.ID, StatusInput{Status: models.BookingConfirmed})
		assert.ErrorIs(t, err, models.ErrValidation, "%s -> confirmed", final)
	}
	assert.Equal(t, 3, f.remaining(t, item.ID))
}

func TestCancellationReversesUserStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 300)
	item := f.lunch(t, 100, 5)

	kept, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	require.NoError(t, err)
	dropped, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 2})
	require.NoError(t, err)

	_, err = f.bookings.CancelBooking(ctx, u.ID, dropped.ID, "")
	require.NoError(t, err)

	stored, err := f.st.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Stats.TotalBookings)
	assert.Equal(t, kept.FinalAmount, stored.Stats.TotalSpent)
}
