package services

import (
	"context"
	"testing"
	"time"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/realtime"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/UmangSachdeva/MessMate/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	auth := NewAuthService(f.st.Users, tokens, f.log, f.clock)

	res, err := auth.Register(ctx, RegisterInput{Name: "Ravi", Email: "Ravi@Hostel.test", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "ravi@hostel.test", res.User.Email)
	assert.Equal(t, models.RoleStudent, res.User.Role)
	assert.NotEqual(t, "hunter22", res.User.Password)

	claims, err := tokens.VerifyToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.Hex(), claims.UserID)

	_, err = auth.Register(ctx, RegisterInput{Name: "Ravi", Email: "ravi@hostel.test", Password: "another1"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = auth.Register(ctx, RegisterInput{Name: "Eve", Email: "eve@hostel.test", Password: "secret1", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = auth.Login(ctx, LoginInput{Email: "ravi@hostel.test", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = auth.Login(ctx, LoginInput{Email: "nobody@hostel.test", Password: "x"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	logged, err := auth.Login(ctx, LoginInput{Email: "RAVI@hostel.test", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, logged.User.ID)

	require.NoError(t, f.st.Users.SetActive(ctx, res.User.ID, false))
	_, err = auth.Login(ctx, LoginInput{Email: "ravi@hostel.test", Password: "hunter22"})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestTopUpCreditsWallet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 0)

	res, err := f.payments.TopUp(ctx, u.ID, TopUpInput{Amount: 250, Method: "upi", Reference: "UPI-991"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, res.Payment.Status)
	assert.Equal(t, 250.0, res.Wallet.Balance)
	assert.Equal(t, 250.0, f.balance(t, u.ID))

	stored, err := f.st.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, stored.Wallet.Transactions, 1)
	assert.Equal(t, res.Payment.ID.Hex(), stored.Wallet.Transactions[0].TransactionID)

	history, total, err := f.payments.History(ctx, u.ID, store.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "UPI-991", history[0].Reference)

	room := "user_" + u.ID.Hex()
	assert.Contains(t, f.notifier.names(room), realtime.EventPaymentCompleted)
	assert.Contains(t, f.notifier.names(room), realtime.EventWalletUpdated)

	_, err = f.payments.TopUp(ctx, u.ID, TopUpInput{Amount: 0})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestTopUpForUnknownUserRecordsFailedPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.payments.TopUp(ctx, primitive.NewObjectID(), TopUpInput{Amount: 10})
	require.ErrorIs(t, err, models.ErrNotFound)

	all, _, err := f.payments.List(ctx, store.Page{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.PaymentFailed, all[0].Status)
}

func TestWalletTransactionsPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 0)
	for i := 1; i <= 3; i++ {
		f.now = testNow.Add(time.Duration(i) * time.Minute)
		_, err := f.wallet.Credit(ctx, u.ID, float64(i*10), "top-up", "")
		require.NoError(t, err)
	}
	_, err := f.wallet.Debit(ctx, u.ID, 100, "too much", "")
	require.ErrorIs(t, err, models.ErrInsufficientBalance)

	txns, total, err := f.wallet.Transactions(ctx, u.ID, "", store.Page{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, txns, 2)
	assert.Equal(t, 30.0, txns[0].Amount)

	txns, _, err = f.wallet.Transactions(ctx, u.ID, "", store.Page{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, 10.0, txns[0].Amount)

	_, total, err = f.wallet.Transactions(ctx, u.ID, models.Debit, store.Page{})
	require.NoError(t, err)
	assert.Zero(t, total)

	summary, err := f.wallet.Balance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, summary.Balance)
}

func TestMenuUpdateMovesRemainingQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 500)
	item := f.lunch(t, 100, 10)
	assert.Equal(t, 10, item.CurrentQuantity)

	_, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 3})
	require.NoError(t, err)

	in := MenuInput{
		Name:        "Veg Thali",
		Date:        testNow.Format("2006-01-02"),
		MealType:    models.Lunch,
		Items:       []string{"dal", "rice"},
		Price:       100,
		MaxQuantity: 15,
	}
	updated, err := f.menu.Update(ctx, item.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.CurrentQuantity)

	in.MaxQuantity = 5
	updated, err = f.menu.Update(ctx, item.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurrentQuantity)

	in.DiscountedPrice = 120
	_, err = f.menu.Update(ctx, item.ID, in)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestMenuToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := f.lunch(t, 100, 10)
	_, err := f.menu.Create(ctx, MenuInput{
		Name:        "Tomorrow's Biryani",
		Date:        testNow.AddDate(0, 0, 1).Format("2006-01-02"),
		MealType:    models.Dinner,
		Items:       []string{"biryani"},
		Price:       120,
		MaxQuantity: 10,
	}, primitive.NewObjectID())
	require.NoError(t, err)

	items, err := f.menu.Today(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, today.ID, items[0].ID)

	_, err = f.menu.UploadImage(ctx, today.ID, "x.png", nil)
	assert.ErrorIs(t, err, models.ErrUnavailable)
}

func TestFeedbackRespondNotifiesAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 100)
	other := f.user(t, 0)
	item := f.lunch(t, 50, 5)
	b, err := f.bookings.CreateBooking(ctx, u.ID, BookingInput{MenuItem: item.ID.Hex(), Quantity: 1})
	require.NoError(t, err)

	_, err = f.feedback.Create(ctx, other.ID, FeedbackInput{Booking: b.ID.Hex(), Rating: 1, Category: "food"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	fb, err := f.feedback.Create(ctx, u.ID, FeedbackInput{Booking: b.ID.Hex(), Rating: 4, Category: "food", Comment: "dal was cold"})
	require.NoError(t, err)
	require.NotNil(t, fb.MenuItem)
	assert.Equal(t, item.ID, *fb.MenuItem)

	resolved, err := f.feedback.Respond(ctx, fb.ID, RespondInput{Response: "We fixed the warmer"})
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackResolved, resolved.Status)
	assert.NotNil(t, resolved.RespondedAt)

	mine, total, err := f.feedback.Mine(ctx, u.ID, store.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "We fixed the warmer", mine[0].AdminResponse)

	assert.Contains(t, f.notifier.names("user_"+u.ID.Hex()), realtime.EventNotificationNew)
}

func TestNotificationsBroadcastAndRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, 0)

	_, err := f.notifications.Broadcast(ctx, BroadcastInput{Title: "Holiday", Message: "Mess closed Sunday"})
	require.NoError(t, err)
	_, err = f.notifications.Broadcast(ctx, BroadcastInput{Title: "Staff", Message: "Meeting", Role: models.RoleStaff})
	require.NoError(t, err)
	n, err := f.notifications.Notify(ctx, u.ID, "wallet", "Low balance", "Top up soon")
	require.NoError(t, err)

	list, total, err := f.notifications.List(ctx, u.ID, models.RoleStudent, store.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	require.NoError(t, f.notifications.MarkRead(ctx, n.ID, u.ID))
	assert.ErrorIs(t, f.notifications.MarkRead(ctx, n.ID, primitive.NewObjectID()), models.ErrNotFound)

	count, err := f.notifications.MarkAllRead(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.Contains(t, f.notifier.names("*"), realtime.EventAdminBroadcast)
	assert.Contains(t, f.notifier.names("role_staff"), realtime.EventAdminBroadcast)
}
