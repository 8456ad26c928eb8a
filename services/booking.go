package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/UmangSachdeva/MessMate/metrics"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/realtime"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PickupWindow is added to the confirmation time to estimate pickup.
const PickupWindow = 30 * time.Minute

type BookingService struct {
	users    store.UserRepository
	menu     store.MenuRepository
	bookings store.BookingRepository
	wallet   *WalletService
	notes    *NotificationService
	notifier Notifier
	cutoff   time.Duration
	log      *logrus.Entry
	now      Clock
}

type BookingDeps struct {
	Users         store.UserRepository
	Menu          store.MenuRepository
	Bookings      store.BookingRepository
	Wallet        *WalletService
	Notifications *NotificationService
	Notifier      Notifier
	Cutoff        time.Duration
	Log           *logrus.Entry
	Now           Clock
}

func NewBookingService(d BookingDeps) *BookingService {
	return &BookingService{
		users:    d.Users,
		menu:     d.Menu,
		bookings: d.Bookings,
		wallet:   d.Wallet,
		notes:    d.Notifications,
		notifier: notifierOrNop(d.Notifier),
		cutoff:   d.Cutoff,
		log:      d.Log.WithField("component", "bookings"),
		now:      clockOrNow(d.Now),
	}
}

type BookingInput struct {
	MenuItem            string `json:"menuItem" validate:"required,len=24,hexadecimal"`
	Quantity            int    `json:"quantity" validate:"required,gte=1,lte=10"`
	SpecialInstructions string `json:"specialInstructions" validate:"max=200"`
}

type StatusInput struct {
	Status models.BookingStatus `json:"status" validate:"required"`
	Reason string               `json:"reason" validate:"max=200"`
}

type CancelInput struct {
	Reason string `json:"reason" validate:"max=200"`
}

func newBookingID() string {
	return "BK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// qrDataURL encodes the booking id as a PNG QR code data URL.
func qrDataURL(bookingID string) (string, error) {
	png, err := qrcode.Encode(bookingID, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, models.ErrInsufficientQuantity):
		return "insufficient_quantity"
	case errors.Is(err, models.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, models.ErrValidation):
		return "invalid"
	default:
		return "failed"
	}
}

// CreateBooking reserves quantity of a menu item and pays for it from the
// wallet. Once the booking is stored, any failing step undoes the earlier
// ones in reverse order and leaves the booking cancelled. Updating user
// stats and attaching the QR code are best effort.
func (s *BookingService) CreateBooking(ctx context.Context, userID primitive.ObjectID, in BookingInput) (booking *models.Booking, err error) {
	defer func() {
		if err != nil {
			metrics.BookingsTotal.WithLabelValues(outcome(err)).Inc()
		}
	}()

	menuID, err := ParseID(in.MenuItem)
	if err != nil {
		return nil, err
	}
	item, err := s.menu.FindByID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := item.CheckAvailability(in.Quantity, now, s.cutoff); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", models.ErrForbidden)
	}

	price := item.EffectivePrice()
	total := item.Price * float64(in.Quantity)
	final := price * float64(in.Quantity)
	if user.Wallet.Balance < final {
		return nil, fmt.Errorf("%w: balance %.2f, required %.2f", models.ErrInsufficientBalance, user.Wallet.Balance, final)
	}

	booking = &models.Booking{
		BookingID:           newBookingID(),
		User:                userID,
		MenuItem:            item.ID,
		MenuItemName:        item.Name,
		Quantity:            in.Quantity,
		MealType:            item.MealType,
		BookingDate:         item.Date,
		ItemPrice:           price,
		TotalAmount:         total,
		Discount:            total - final,
		FinalAmount:         final,
		Status:              models.BookingPending,
		PaymentStatus:       models.PaymentPending,
		SpecialInstructions: in.SpecialInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	log := s.log.WithFields(logrus.Fields{"booking": booking.BookingID, "user": userID.Hex()})

	if _, err := s.wallet.Debit(ctx, userID, final, fmt.Sprintf("Meal booking %s", booking.BookingID), booking.BookingID); err != nil {
		s.rollback(ctx, booking, false, false, err)
		return nil, err
	}
	booking.PaymentStatus = models.PaymentPaid

	if err := s.menu.ReduceQuantity(ctx, item.ID, in.Quantity); err != nil {
		s.rollback(ctx, booking, true, false, err)
		return nil, err
	}

	booking.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, booking); err != nil {
		s.rollback(ctx, booking, true, true, err)
		return nil, err
	}

	if err := s.users.IncrementStats(ctx, userID, 1, final); err != nil {
		log.WithError(err).Warn("Failed to update user stats")
	}
	if qr, err := qrDataURL(booking.BookingID); err != nil {
		log.WithError(err).Warn("Failed to generate QR code")
	} else {
		booking.QRCode = qr
		if err := s.bookings.Update(ctx, booking); err != nil {
			log.WithError(err).Warn("Failed to store QR code")
		}
	}

	metrics.BookingsTotal.WithLabelValues("created").Inc()
	log.WithField("amount", final).Info("Booking created")
	s.notifier.EmitToUser(userID.Hex(), realtime.EventBookingCreated, booking)
	s.notifier.EmitToRole(models.RoleAdmin, realtime.EventBookingCreated, booking)
	return booking, nil
}

// rollback undoes a partially applied booking. It runs detached from the
// request context so a client disconnect cannot stop it halfway.
func (s *BookingService) rollback(ctx context.Context, b *models.Booking, debited, reduced bool, cause error) {
	ctx = context.WithoutCancel(ctx)
	log := s.log.WithFields(logrus.Fields{"booking": b.BookingID, "user": b.User.Hex()}).WithField("cause", cause.Error())

	if reduced {
		if err := s.menu.RestoreQuantity(ctx, b.MenuItem, b.Quantity); err != nil {
			log.WithError(err).Error("Rollback: failed to restore quantity")
		}
	}
	b.PaymentStatus = models.PaymentFailed
	if debited {
		if _, err := s.wallet.Credit(ctx, b.User, b.FinalAmount, fmt.Sprintf("Refund for failed booking %s", b.BookingID), b.BookingID); err != nil {
			log.WithError(err).Error("Rollback: failed to refund wallet")
		} else {
			b.PaymentStatus = models.PaymentRefunded
		}
	}

	at := s.now()
	b.Status = models.BookingCancelled
	b.CancellationReason = "booking failed: " + cause.Error()
	b.CancelledAt = &at
	b.UpdatedAt = at
	if err := s.bookings.Update(ctx, b); err != nil {
		log.WithError(err).Error("Rollback: failed to mark booking cancelled")
	}
	log.Warn("Booking rolled back")
}

// UpdateBookingStatus moves a booking to status. Non-terminal moves are not
// ordered; cancelling refunds a paid booking and returns its quantity.
// Terminal bookings cannot be reopened: their quantity and payment are
// already settled.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, in StatusInput) (*models.Booking, error) {
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, in.Status)
	}
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, fmt.Errorf("%w: booking is already %s", models.ErrValidation, b.Status)
	}
	if in.Status == models.BookingCancelled {
		return s.cancel(ctx, b, in.Reason)
	}

	from := b.Status
	now := s.now()
	switch in.Status {
	case models.BookingConfirmed:
		pickup := now.Add(PickupWindow)
		b.EstimatedPickupTime = &pickup
	case models.BookingPrepared:
		b.PreparationEndTime = &now
	case models.BookingServed, models.BookingCompleted:
		b.ActualPickupTime = &now
	}
	b.Status = in.Status
	b.UpdatedAt = now
	if err := s.bookings.UpdateStatusFrom(ctx, b, from); err != nil {
		return nil, err
	}

	s.announce(ctx, b, fmt.Sprintf("Your booking %s is now %s.", b.BookingID, b.Status))
	return b, nil
}

// CancelBooking lets the owner cancel while the booking is pending or confirmed.
func (s *BookingService) CancelBooking(ctx context.Context, userID, id primitive.ObjectID, reason string) (*models.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.User != userID {
		return nil, fmt.Errorf("%w: booking %s", models.ErrNotFound, id.Hex())
	}
	if b.Status != models.BookingPending && b.Status != models.BookingConfirmed {
		return nil, fmt.Errorf("%w: a %s booking cannot be cancelled", models.ErrValidation, b.Status)
	}
	if reason == "" {
		reason = "Cancelled by user"
	}
	return s.cancel(ctx, b, reason)
}

// cancel claims the booking with a conditional status write before moving
// any money, so a second cancel of the same booking fails instead of
// refunding twice.
func (s *BookingService) cancel(ctx context.Context, b *models.Booking, reason string) (*models.Booking, error) {
	if b.Status.Terminal() {
		return nil, fmt.Errorf("%w: booking is already %s", models.ErrValidation, b.Status)
	}

	before := *b
	now := s.now()
	refund := b.PaymentStatus == models.PaymentPaid
	b.Status = models.BookingCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	b.UpdatedAt = now
	if refund {
		b.PaymentStatus = models.PaymentRefunded
	}
	if err := s.bookings.UpdateStatusFrom(ctx, b, before.Status); err != nil {
		return nil, err
	}

	if refund {
		desc := fmt.Sprintf("Refund for cancelled booking %s", b.BookingID)
		if _, err := s.wallet.Credit(ctx, b.User, b.FinalAmount, desc, b.BookingID); err != nil {
			// put the booking back so the cancellation can be retried
			if rerr := s.bookings.UpdateStatusFrom(context.WithoutCancel(ctx), &before, models.BookingCancelled); rerr != nil {
				s.log.WithError(rerr).WithField("booking", b.BookingID).Error("Failed to revert cancellation after refund error")
			}
			return nil, fmt.Errorf("refund booking %s: %w", b.BookingID, err)
		}
		if err := s.users.IncrementStats(ctx, b.User, -1, -b.FinalAmount); err != nil {
			s.log.WithError(err).WithField("booking", b.BookingID).Warn("Failed to update user stats")
		}
	}
	// before.Status is non-terminal here, so the booking still holds its portion.
	if err := s.menu.RestoreQuantity(ctx, b.MenuItem, b.Quantity); err != nil {
		s.log.WithError(err).WithField("booking", b.BookingID).Warn("Failed to restore menu quantity")
	}

	metrics.BookingsTotal.WithLabelValues("cancelled").Inc()
	s.log.WithFields(logrus.Fields{"booking": b.BookingID, "refunded": refund}).Info("Booking cancelled")
	msg := fmt.Sprintf("Your booking %s was cancelled.", b.BookingID)
	if refund {
		msg = fmt.Sprintf("Your booking %s was cancelled and %.2f was refunded to your wallet.", b.BookingID, b.FinalAmount)
	}
	s.announce(ctx, b, msg)
	return b, nil
}

func (s *BookingService) announce(ctx context.Context, b *models.Booking, message string) {
	s.notifier.EmitToUser(b.User.Hex(), realtime.EventBookingUpdated, b)
	if s.notes == nil {
		return
	}
	if _, err := s.notes.Notify(ctx, b.User, "booking", "Booking update", message); err != nil {
		s.log.WithError(err).WithField("booking", b.BookingID).Warn("Failed to store notification")
	}
}

// Get returns a booking to its owner or to an admin.
func (s *BookingService) Get(ctx context.Context, id, requester primitive.ObjectID, isAdmin bool) (*models.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.User != requester {
		return nil, fmt.Errorf("%w: booking %s", models.ErrNotFound, id.Hex())
	}
	return b, nil
}

// VerifyBooking resolves the booking id scanned from a QR code.
func (s *BookingService) VerifyBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.bookings.FindByBookingID(ctx, bookingID)
}

func (s *BookingService) MyBookings(ctx context.Context, userID primitive.ObjectID, filter store.BookingFilter, page store.Page) ([]models.Booking, int64, error) {
	filter.User = &userID
	return s.bookings.List(ctx, filter, page)
}

func (s *BookingService) List(ctx context.Context, filter store.BookingFilter, page store.Page) ([]models.Booking, int64, error) {
	return s.bookings.List(ctx, filter, page)
}
