package services

import (
	"context"
	"sort"

	"github.com/UmangSachdeva/MessMate/metrics"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/realtime"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WalletService owns every balance change so each one is counted, logged
// and pushed to the owner.
type WalletService struct {
	users    store.UserRepository
	notifier Notifier
	log      *logrus.Entry
	now      Clock
}

func NewWalletService(users store.UserRepository, notifier Notifier, log *logrus.Entry, now Clock) *WalletService {
	return &WalletService{
		users:    users,
		notifier: notifierOrNop(notifier),
		log:      log.WithField("component", "wallet"),
		now:      clockOrNow(now),
	}
}

type WalletSummary struct {
	Balance            float64                    `json:"balance"`
	RecentTransactions []models.WalletTransaction `json:"recentTransactions"`
}

func (s *WalletService) Balance(ctx context.Context, userID primitive.ObjectID) (WalletSummary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return WalletSummary{}, err
	}
	recent := newestFirst(user.Wallet.Transactions)
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return WalletSummary{Balance: user.Wallet.Balance, RecentTransactions: recent}, nil
}

// Transactions pages through the ledger newest first.
func (s *WalletService) Transactions(ctx context.Context, userID primitive.ObjectID, txnType models.TransactionType, page store.Page) ([]models.WalletTransaction, int64, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	all := newestFirst(user.Wallet.Transactions)
	if txnType != "" {
		filtered := all[:0]
		for _, t := range all {
			if t.Type == txnType {
				filtered = append(filtered, t)
			}
		}
		all = filtered
	}

	total := int64(len(all))
	start := page.Skip()
	if start > total {
		start = total
	}
	end := total
	if page.Limit > 0 && start+page.Limit < total {
		end = start + page.Limit
	}
	return all[start:end], total, nil
}

func (s *WalletService) Credit(ctx context.Context, userID primitive.ObjectID, amount float64, description, txnID string) (*models.Wallet, error) {
	txn, err := models.NewCredit(amount, description, txnID, s.now())
	if err != nil {
		return nil, err
	}
	wallet, err := s.users.CreditWallet(ctx, userID, txn)
	if err != nil {
		return nil, err
	}
	s.record(userID, txn, wallet)
	return wallet, nil
}

// Debit fails with models.ErrInsufficientBalance without touching the wallet.
func (s *WalletService) Debit(ctx context.Context, userID primitive.ObjectID, amount float64, description, txnID string) (*models.Wallet, error) {
	txn, err := models.NewDebit(amount, description, txnID, s.now())
	if err != nil {
		return nil, err
	}
	wallet, err := s.users.DebitWallet(ctx, userID, txn)
	if err != nil {
		return nil, err
	}
	s.record(userID, txn, wallet)
	return wallet, nil
}

func (s *WalletService) record(userID primitive.ObjectID, txn models.WalletTransaction, wallet *models.Wallet) {
	metrics.WalletTransactions.WithLabelValues(string(txn.Type)).Inc()
	metrics.WalletAmount.WithLabelValues(string(txn.Type)).Observe(txn.Amount)

	s.log.WithFields(logrus.Fields{
		"user":    userID.Hex(),
		"type":    txn.Type,
		"amount":  txn.Amount,
		"txn":     txn.TransactionID,
		"balance": wallet.Balance,
	}).Info("Wallet updated")

	s.notifier.EmitToUser(userID.Hex(), realtime.EventWalletUpdated, map[string]interface{}{
		"balance":     wallet.Balance,
		"transaction": txn,
	})
}

func newestFirst(txns []models.WalletTransaction) []models.WalletTransaction {
	out := append([]models.WalletTransaction(nil), txns...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
