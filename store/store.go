// Package store declares the repositories the services persist through.
// mongostore implements them over MongoDB and memstore keeps everything in
// process memory for tests and local runs.
package store

import (
	"context"
	"time"

	"github.com/UmangSachdeva/MessMate/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page selects a window of a sorted result set. Page is 1-based.
type Page struct {
	Page  int64
	Limit int64
}

func (p Page) Skip() int64 {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// DateRange bounds a query by creation or booking date; zero values are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

type UserFilter struct {
	Search string
	Role   models.Role
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter UserFilter, page Page) ([]models.User, int64, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	// CreditWallet appends txn and raises the balance in one document write.
	CreditWallet(ctx context.Context, id primitive.ObjectID, txn models.WalletTransaction) (*models.Wallet, error)
	// DebitWallet lowers the balance only if it covers txn.Amount, otherwise
	// it returns models.ErrInsufficientBalance and changes nothing.
	DebitWallet(ctx context.Context, id primitive.ObjectID, txn models.WalletTransaction) (*models.Wallet, error)
	IncrementStats(ctx context.Context, id primitive.ObjectID, bookings int, spent float64) error
}

type MenuFilter struct {
	Date          time.Time
	MealType      models.MealType
	AvailableOnly bool
}

type MenuRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error)
	List(ctx context.Context, filter MenuFilter, page Page) ([]models.MenuItem, int64, error)
	// Update writes every field except currentQuantity, which only
	// ReduceQuantity and RestoreQuantity change.
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ReduceQuantity decrements currentQuantity only while it stays >= 0,
	// otherwise models.ErrInsufficientQuantity.
	ReduceQuantity(ctx context.Context, id primitive.ObjectID, quantity int) error
	RestoreQuantity(ctx context.Context, id primitive.ObjectID, quantity int) error
}

type BookingFilter struct {
	User     *primitive.ObjectID
	Status   models.BookingStatus
	MealType models.MealType
	Range    DateRange
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	FindByBookingID(ctx context.Context, bookingID string) (*models.Booking, error)
	List(ctx context.Context, filter BookingFilter, page Page) ([]models.Booking, int64, error)
	Update(ctx context.Context, booking *models.Booking) error
	// UpdateStatusFrom replaces booking only while its stored status is
	// still from, so two concurrent transitions cannot both apply.
	UpdateStatusFrom(ctx context.Context, booking *models.Booking, from models.BookingStatus) error
}

type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error)
	List(ctx context.Context, category string, page Page) ([]models.InventoryItem, int64, error)
	// Save persists item if its stored version equals item.Version and
	// bumps the version; a stale version yields models.ErrConflict.
	Save(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	WithOpenAlerts(ctx context.Context) ([]models.InventoryItem, error)
}

type FeedbackFilter struct {
	User     *primitive.ObjectID
	Status   models.FeedbackStatus
	Category string
}

type FeedbackRepository interface {
	Create(ctx context.Context, fb *models.Feedback) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Feedback, error)
	List(ctx context.Context, filter FeedbackFilter, page Page) ([]models.Feedback, int64, error)
	Update(ctx context.Context, fb *models.Feedback) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	List(ctx context.Context, user *primitive.ObjectID, page Page) ([]models.Payment, int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	// ListFor returns notifications addressed to the user or to their role.
	ListFor(ctx context.Context, user primitive.ObjectID, role models.Role, page Page) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, id, user primitive.ObjectID) error
	MarkAllRead(ctx context.Context, user primitive.ObjectID) (int64, error)
}

// AnalyticsRepository runs the read-only aggregations behind the admin
// dashboard and reports.
type AnalyticsRepository interface {
	RevenueByDay(ctx context.Context, r DateRange) ([]models.DailyAmount, error)
	BookingsByStatus(ctx context.Context, r DateRange) ([]models.StatusCount, error)
	MealTypeBreakdown(ctx context.Context, r DateRange) ([]models.MealTypeStat, error)
	TopMenuItems(ctx context.Context, r DateRange, limit int) ([]models.TopItem, error)
	UserGrowth(ctx context.Context, r DateRange) ([]models.DailyAmount, error)
	FeedbackSummary(ctx context.Context, r DateRange) (models.FeedbackSummary, error)
	TopUpsByDay(ctx context.Context, r DateRange) ([]models.DailyAmount, error)
}

// Store groups every repository of one backend.
type Store struct {
	Users         UserRepository
	Menu          MenuRepository
	Bookings      BookingRepository
	Inventory     InventoryRepository
	Feedback      FeedbackRepository
	Payments      PaymentRepository
	Notifications NotificationRepository
	Analytics     AnalyticsRepository
}
