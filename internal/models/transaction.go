package models

import (
	"errors"
	"time"
)

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
)

// TransactionType distinguishes money moving into or out of the bankroll
type TransactionType string

var (
	ErrInvalidTransactionType = errors.New("transaction type must be deposit or withdrawal")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
)

// Transaction is a cash movement that is not tied to a session
type Transaction struct {
	ID     string          `gorm:"primaryKey" json:"id"`
	Type   TransactionType `gorm:"not null" json:"type"`
	Amount int             `gorm:"not null" json:"amount"`
	Date   time.Time       `gorm:"index;not null" json:"date"`
	Notes  string          `json:"notes,omitempty"`
}

// Validate checks that the transaction can be stored
func (t Transaction) Validate() error {
	switch t.Type {
	case Deposit, Withdrawal:
	default:
		return ErrInvalidTransactionType
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// Signed returns the amount with withdrawals negative
func (t Transaction) Signed() int {
	if t.Type == Withdrawal {
		return -t.Amount
	}
	return t.Amount
}
