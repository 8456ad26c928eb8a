package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/UmangSachdeva/MessMate/store/memstore"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type event struct {
	room string
	name string
	data interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []event
}

func (n *recordingNotifier) add(room, name string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event{room: room, name: name, data: data})
}

func (n *recordingNotifier) EmitToUser(userID, name string, data interface{}) {
	n.add("user_"+userID, name, data)
}

func (n *recordingNotifier) EmitToRole(role models.Role, name string, data interface{}) {
	n.add("role_"+string(role), name, data)
}

func (n *recordingNotifier) Broadcast(name string, data interface{}) { n.add("*", name, data) }

func (n *recordingNotifier) names(room string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, e := range n.events {
		if e.room == room {
			out = append(out, e.name)
		}
	}
	return out
}

// testNow is 09:00 on a lunch day; lunch bookings close at 12:00.
var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

type fixture struct {
	st       *store.Store
	notifier *recordingNotifier
	now      time.Time
	log      *logrus.Entry

	wallet        *WalletService
	payments      *PaymentService
	menu          *MenuService
	notifications *NotificationService
	bookings      *BookingService
	inventory     *InventoryService
	feedback      *FeedbackService
	analytics     *AnalyticsService
	reports       *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, memstore.New())
}

// newFixtureOn wires the services over st, so scenarios can run against
// either backend.
func newFixtureOn(t *testing.T, st *store.Store) *fixture {
	t.Helper()
	f := &fixture{st: st, notifier: &recordingNotifier{}, now: testNow}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	f.log = logrus.NewEntry(logger)
	f.build()
	return f
}

func (f *fixture) clock() time.Time { return f.now }

// build wires the services over f.st; call it again after swapping a repository.
func (f *fixture) build() {
	f.wallet = NewWalletService(f.st.Users, f.notifier, f.log, f.clock)
	f.payments = NewPaymentService(f.st.Payments, f.wallet, f.notifier, f.log, f.clock)
	f.menu = NewMenuService(f.st.Menu, nil, f.log, f.clock)
	f.notifications = NewNotificationService(f.st.Notifications, f.notifier, f.log, f.clock)
	f.bookings = NewBookingService(BookingDeps{
		Users:         f.st.Users,
		Menu:          f.st.Menu,
		Bookings:      f.st.Bookings,
		Wallet:        f.wallet,
		Notifications: f.notifications,
		Notifier:      f.notifier,
		Cutoff:        30 * time.Minute,
		Log:           f.log,
		Now:           f.clock,
	})
	f.inventory = NewInventoryService(f.st.Inventory, f.notifier, f.log, f.clock)
	f.feedback = NewFeedbackService(f.st.Feedback, f.st.Bookings, f.notifications, f.log, f.clock)
	f.analytics = NewAnalyticsService(f.st.Analytics, f.log, f.clock)
	f.reports = NewReportService(f.st.Bookings, f.analytics, f.log, f.clock)
}

func (f *fixture) user(t *testing.T, balance float64) *models.User {
	t.Helper()
	ctx := context.Background()
	u := &models.User{
		Name:      "Asha",
		Email:     primitive.NewObjectID().Hex() + "@hostel.test",
		Role:      models.RoleStudent,
		IsActive:  true,
		CreatedAt: f.now,
	}
	require.NoError(t, f.st.Users.Create(ctx, u))
	if balance > 0 {
		_, err := f.wallet.Credit(ctx, u.ID, balance, "seed", "seed")
		require.NoError(t, err)
	}
	return u
}

func (f *fixture) lunch(t *testing.T, price float64, quantity int) *models.MenuItem {
	t.Helper()
	item, err := f.menu.Create(context.Background(), MenuInput{
		Name:        "Veg Thali",
		Date:        f.now.Format("2006-01-02"),
		MealType:    models.Lunch,
		Items:       []string{"dal", "rice", "roti"},
		Price:       price,
		MaxQuantity: quantity,
	}, primitive.NewObjectID())
	require.NoError(t, err)
	return item
}

func (f *fixture) balance(t *testing.T, id primitive.ObjectID) float64 {
	t.Helper()
	u, err := f.st.Users.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.InDelta(t, u.Wallet.LedgerBalance(), u.Wallet.Balance, 1e-9, "ledger out of sync")
	return u.Wallet.Balance
}

func (f *fixture) remaining(t *testing.T, id primitive.ObjectID) int {
	t.Helper()
	m, err := f.st.Menu.FindByID(context.Background(), id)
	require.NoError(t, err)
	return m.CurrentQuantity
}
