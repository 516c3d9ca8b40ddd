package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Wallet is the per-user balance record. All amounts are stored in minor
// currency units (cents) to avoid floating point rounding.
//
// Balance is the total attributable to the owner. AvailableBalance is the
// subset immediately spendable. PendingBalance holds funds earmarked for an
// in-flight withdrawal awaiting moderation. FrozenBalance is a security hold
// kept outside circulation; no current operation mutates it.
type Wallet struct {
	ID               uint   `gorm:"primarykey"`
	UserID           uint   `gorm:"uniqueIndex;not null"`
	Balance          int64  `gorm:"not null;default:0"`
	AvailableBalance int64  `gorm:"not null;default:0"`
	PendingBalance   int64  `gorm:"not null;default:0"`
	FrozenBalance    int64  `gorm:"not null;default:0"`
	Currency         string `gorm:"default:'USD'"`

	// Withdrawal limits. Nil means unbounded.
	MinWithdrawAmount    int64 `gorm:"not null;default:0"`
	MaxWithdrawAmount    *int64
	DailyWithdrawLimit   *int64
	MonthlyWithdrawLimit *int64

	WithdrawalSettings WithdrawalSettings `gorm:"type:jsonb"`
	Security           WalletSecurity     `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WithdrawalSettings holds per-wallet payout preferences. Fields are
// pointers so an update request can distinguish "not provided" from
// "set to zero value"; updates are merged field by field, never replaced
// wholesale.
type WithdrawalSettings struct {
	PreferredMethod *string `json:"preferred_method,omitempty"`
	PayoutAccount   *string `json:"payout_account,omitempty"`
	PayoutBank      *string `json:"payout_bank,omitempty"`
	AutoWithdraw    *bool   `json:"auto_withdraw,omitempty"`
	NotifyOnPayout  *bool   `json:"notify_on_payout,omitempty"`
}

// Merge applies the non-nil fields of other on top of s.
func (s *WithdrawalSettings) Merge(other WithdrawalSettings) {
	if other.PreferredMethod != nil {
		s.PreferredMethod = other.PreferredMethod
	}
	if other.PayoutAccount != nil {
		s.PayoutAccount = other.PayoutAccount
	}
	if other.PayoutBank != nil {
		s.PayoutBank = other.PayoutBank
	}
	if other.AutoWithdraw != nil {
		s.AutoWithdraw = other.AutoWithdraw
	}
	if other.NotifyOnPayout != nil {
		s.NotifyOnPayout = other.NotifyOnPayout
	}
}

// Value implements the driver.Valuer interface.
func (s WithdrawalSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface.
func (s *WithdrawalSettings) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// WalletSecurity carries the wallet security flags. IsLocked blocks all
// withdrawals and deposits until an admin clears it.
type WalletSecurity struct {
	IsLocked             bool   `json:"is_locked"`
	LockReason           string `json:"lock_reason,omitempty"`
	RequiresVerification bool   `json:"requires_verification"`
	VerificationLevel    int    `json:"verification_level"`
}

// Value implements the driver.Valuer interface.
func (s WalletSecurity) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface.
func (s *WalletSecurity) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// BalanceDelta describes an atomic adjustment to a wallet's balance fields.
// Each delta may be negative; applying a delta must never take
// AvailableBalance, PendingBalance or FrozenBalance below zero.
type BalanceDelta struct {
	Balance   int64
	Available int64
	Pending   int64
	Frozen    int64
}

// ErrBalanceNegative is returned when applying a delta would take a
// balance field below zero.
var ErrBalanceNegative = errors.New("balance field would go negative")

// Apply adds the delta to the wallet in place, refusing any change that
// would leave a field negative. The wallet is untouched on error.
func (w *Wallet) Apply(d BalanceDelta) error {
	if w.AvailableBalance+d.Available < 0 ||
		w.PendingBalance+d.Pending < 0 ||
		w.FrozenBalance+d.Frozen < 0 {
		return ErrBalanceNegative
	}
	w.Balance += d.Balance
	w.AvailableBalance += d.Available
	w.PendingBalance += d.Pending
	w.FrozenBalance += d.Frozen
	return nil
}
