package services

import (
	"context"
	"fmt"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/realtime"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxTopUp = 10000

type PaymentService struct {
	payments store.PaymentRepository
	wallet   *WalletService
	notifier Notifier
	log      *logrus.Entry
	now      Clock
}

func NewPaymentService(payments store.PaymentRepository, wallet *WalletService, notifier Notifier, log *logrus.Entry, now Clock) *PaymentService {
	return &PaymentService{
		payments: payments,
		wallet:   wallet,
		notifier: notifierOrNop(notifier),
		log:      log.WithField("component", "payments"),
		now:      clockOrNow(now),
	}
}

type TopUpInput struct {
	Amount    float64 `json:"amount" validate:"required,gt=0,lte=10000"`
	Method    string  `json:"method" validate:"omitempty,oneof=upi card netbanking cash wallet"`
	Reference string  `json:"reference" validate:"omitempty,max=100"`
}

type TopUpResult struct {
	Payment *models.Payment `json:"payment"`
	Wallet  *models.Wallet  `json:"wallet"`
}

// TopUp records a payment captured elsewhere and credits the wallet with the
// payment id as the ledger transaction id. A failed credit is still recorded
// as a failed payment.
func (s *PaymentService) TopUp(ctx context.Context, userID primitive.ObjectID, in TopUpInput) (TopUpResult, error) {
	if in.Amount <= 0 || in.Amount > maxTopUp {
		return TopUpResult{}, fmt.Errorf("%w: amount must be between 0 and %d", models.ErrValidation, maxTopUp)
	}
	if in.Method == "" {
		in.Method = "upi"
	}

	payment := &models.Payment{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Amount:    in.Amount,
		Method:    in.Method,
		Reference: in.Reference,
		Purpose:   models.PurposeWalletTopUp,
		Status:    models.PaymentPaid,
		CreatedAt: s.now(),
	}

	wallet, creditErr := s.wallet.Credit(ctx, userID, in.Amount, fmt.Sprintf("Wallet top-up via %s", in.Method), payment.ID.Hex())
	if creditErr != nil {
		payment.Status = models.PaymentFailed
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		if creditErr == nil {
			// The money is in the wallet; only the receipt is missing.
			s.log.WithError(err).WithField("payment", payment.ID.Hex()).Error("Failed to record payment")
		}
		return TopUpResult{}, fmt.Errorf("record payment: %w", err)
	}
	if creditErr != nil {
		return TopUpResult{}, creditErr
	}

	s.notifier.EmitToUser(userID.Hex(), realtime.EventPaymentCompleted, payment)
	return TopUpResult{Payment: payment, Wallet: wallet}, nil
}

func (s *PaymentService) History(ctx context.Context, userID primitive.ObjectID, page store.Page) ([]models.Payment, int64, error) {
	return s.payments.List(ctx, &userID, page)
}

func (s *PaymentService) List(ctx context.Context, page store.Page) ([]models.Payment, int64, error) {
	return s.payments.List(ctx, nil, page)
}
