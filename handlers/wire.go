package handlers

import (
	"time"

	"github.com/UmangSachdeva/MessMate/mediastore"
	"github.com/UmangSachdeva/MessMate/services"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/UmangSachdeva/MessMate/utils"
	"github.com/sirupsen/logrus"
)

type Wiring struct {
	Store    *store.Store
	Tokens   *utils.TokenIssuer
	Media    mediastore.Store // nil disables uploads
	Notifier services.Notifier
	Cutoff   time.Duration
	Log      *logrus.Entry
	Now      services.Clock
}

// NewServices builds every service over one store.
func NewServices(w Wiring) Services {
	st := w.Store
	wallet := services.NewWalletService(st.Users, w.Notifier, w.Log, w.Now)
	notes := services.NewNotificationService(st.Notifications, w.Notifier, w.Log, w.Now)
	analytics := services.NewAnalyticsService(st.Analytics, w.Log, w.Now)

	return Services{
		Auth:     services.NewAuthService(st.Users, w.Tokens, w.Log, w.Now),
		Users:    services.NewUserService(st.Users, w.Media, w.Log),
		Wallet:   wallet,
		Payments: services.NewPaymentService(st.Payments, wallet, w.Notifier, w.Log, w.Now),
		Menu:     services.NewMenuService(st.Menu, w.Media, w.Log, w.Now),
		Bookings: services.NewBookingService(services.BookingDeps{
			Users:         st.Users,
			Menu:          st.Menu,
			Bookings:      st.Bookings,
			Wallet:        wallet,
			Notifications: notes,
			Notifier:      w.Notifier,
			Cutoff:        w.Cutoff,
			Log:           w.Log,
			Now:           w.Now,
		}),
		Inventory:     services.NewInventoryService(st.Inventory, w.Notifier, w.Log, w.Now),
		Feedback:      services.NewFeedbackService(st.Feedback, st.Bookings, notes, w.Log, w.Now),
		Notifications: notes,
		Analytics:     analytics,
		Reports:       services.NewReportService(st.Bookings, analytics, w.Log, w.Now),
	}
}
