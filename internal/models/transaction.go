package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Transaction types
const (
	TransactionTypeDeposit      = "DEPOSIT"
	TransactionTypeWithdraw     = "WITHDRAW"
	TransactionTypeTransfer     = "TRANSFER"
	TransactionTypeGiftSent     = "GIFT_SENT"
	TransactionTypeGiftReceived = "GIFT_RECEIVED"
	TransactionTypeSubscription = "SUBSCRIPTION"
	TransactionTypeCommission   = "COMMISSION"
	TransactionTypeRefund       = "REFUND"
	TransactionTypePenalty      = "PENALTY"
	TransactionTypeBonus        = "BONUS"
)

// Transaction statuses
const (
	TransactionStatusPending    = "PENDING"
	TransactionStatusProcessing = "PROCESSING"
	TransactionStatusCompleted  = "COMPLETED"
	TransactionStatusFailed     = "FAILED"
	TransactionStatusCancelled  = "CANCELLED"
	TransactionStatusRefunded   = "REFUNDED"
)

// Transaction is one money-movement event on a user's ledger. Amount is a
// positive magnitude in minor currency units; direction is implied by Type.
// A transfer writes exactly one row, on the sender's ledger, with
// CounterpartyID pointing at the recipient.
type Transaction struct {
	ID             uint   `gorm:"primarykey"`
	Reference      string `gorm:"uniqueIndex;not null"`
	UserID         uint   `gorm:"index;not null"`
	CounterpartyID *uint  `gorm:"index"`
	Type           string `gorm:"index;not null"`
	Amount         int64  `gorm:"not null"`
	Currency       string `gorm:"default:'USD'"`
	Description    string

	PaymentMethodType string        `gorm:"index"`
	PaymentMethod     PaymentMethod `gorm:"type:jsonb"`

	Status       string `gorm:"index;not null;default:'PENDING'"`
	ReviewedByID *uint
	ReviewedAt   *time.Time
	AdminNotes   string

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// PaymentMethod holds the structured detail of the instrument behind a
// deposit or withdrawal.
type PaymentMethod struct {
	Provider      string `json:"provider,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	BankCode      string `json:"bank_code,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	CardLast4     string `json:"card_last4,omitempty"`
}

// Value implements the driver.Valuer interface.
func (m PaymentMethod) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface.
func (m *PaymentMethod) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// NewTransactionReference generates a globally unique, human-auditable
// reference for a new ledger entry.
func NewTransactionReference() string {
	return fmt.Sprintf("TXN-%s", uuid.NewString())
}

// IsTerminalStatus reports whether a status ends the transaction lifecycle.
// REFUNDED is terminal; COMPLETED can still move to REFUNDED.
func IsTerminalStatus(status string) bool {
	switch status {
	case TransactionStatusFailed, TransactionStatusCancelled, TransactionStatusRefunded:
		return true
	}
	return false
}

// CanTransition reports whether a transaction status change is legal.
// PENDING -> PROCESSING -> {COMPLETED, FAILED}; PENDING may resolve directly
// to COMPLETED or FAILED via moderation; COMPLETED may later become
// REFUNDED; any non-terminal state may be CANCELLED. No path re-enters
// PENDING or PROCESSING.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case TransactionStatusPending:
		switch to {
		case TransactionStatusProcessing, TransactionStatusCompleted,
			TransactionStatusFailed, TransactionStatusCancelled:
			return true
		}
	case TransactionStatusProcessing:
		switch to {
		case TransactionStatusCompleted, TransactionStatusFailed,
			TransactionStatusCancelled:
			return true
		}
	case TransactionStatusCompleted:
		return to == TransactionStatusRefunded
	}
	return false
}

// IsModeratable reports whether an admin may still approve or reject the
// transaction.
func (t *Transaction) IsModeratable() bool {
	return t.Status == TransactionStatusPending || t.Status == TransactionStatusProcessing
}
