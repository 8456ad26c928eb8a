package models

import (
	"fmt"
	"time"
)

type TransactionType string

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

// WalletTransaction is one append-only ledger entry.
type WalletTransaction struct {
	Type          TransactionType `json:"type" bson:"type"`
	Amount        float64         `json:"amount" bson:"amount"`
	Description   string          `json:"description" bson:"description"`
	TransactionID string          `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Date          time.Time       `json:"date" bson:"date"`
}

// Wallet keeps Balance equal to the sum of credits minus the sum of debits
// in Transactions. Mutate it only through AddMoney and DeductMoney.
type Wallet struct {
	Balance      float64             `json:"balance" bson:"balance"`
	Transactions []WalletTransaction `json:"transactions" bson:"transactions"`
}

// NewCredit builds a credit entry after validating the amount.
func NewCredit(amount float64, description, transactionID string, at time.Time) (WalletTransaction, error) {
	if amount <= 0 {
		return WalletTransaction{}, fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}
	return WalletTransaction{
		Type:          Credit,
		Amount:        amount,
		Description:   description,
		TransactionID: transactionID,
		Date:          at,
	}, nil
}

// NewDebit builds a debit entry after validating the amount.
func NewDebit(amount float64, description, transactionID string, at time.Time) (WalletTransaction, error) {
	txn, err := NewCredit(amount, description, transactionID, at)
	if err != nil {
		return txn, err
	}
	txn.Type = Debit
	return txn, nil
}

func (w *Wallet) AddMoney(amount float64, description, transactionID string, at time.Time) (WalletTransaction, error) {
	txn, err := NewCredit(amount, description, transactionID, at)
	if err != nil {
		return txn, err
	}
	w.Balance += amount
	w.Transactions = append(w.Transactions, txn)
	return txn, nil
}

// DeductMoney fails with ErrInsufficientBalance and leaves the wallet
// untouched when amount exceeds the balance.
func (w *Wallet) DeductMoney(amount float64, description, transactionID string, at time.Time) (WalletTransaction, error) {
	txn, err := NewDebit(amount, description, transactionID, at)
	if err != nil {
		return txn, err
	}
	if w.Balance < amount {
		return WalletTransaction{}, fmt.Errorf("%w: balance %.2f, required %.2f", ErrInsufficientBalance, w.Balance, amount)
	}
	w.Balance -= amount
	w.Transactions = append(w.Transactions, txn)
	return txn, nil
}

// LedgerBalance recomputes the balance from the transaction log.
func (w *Wallet) LedgerBalance() float64 {
	var total float64
	for _, txn := range w.Transactions {
		switch txn.Type {
		case Credit:
			total += txn.Amount
		case Debit:
			total -= txn.Amount
		}
	}
	return total
}
