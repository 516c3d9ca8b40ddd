// Package limits evaluates per-operation and rolling-window withdrawal
// constraints. Checks run against the wallet row the caller has already
// locked, so a passing check cannot be invalidated by a concurrent
// withdrawal before the paired balance mutation commits.
package limits

import (
	"context"
	"errors"
	"time"

	"starlive/internal/models"
	"starlive/internal/repositories"
)

var (
	ErrBelowMinimum                 = errors.New("amount below minimum withdrawal")
	ErrAboveMaximum                 = errors.New("amount above maximum withdrawal")
	ErrInsufficientAvailableBalance = errors.New("insufficient available balance")
	ErrWalletLocked                 = errors.New("wallet is locked")
	ErrDailyLimitExceeded           = errors.New("daily withdrawal limit exceeded")
	ErrMonthlyLimitExceeded         = errors.New("monthly withdrawal limit exceeded")
)

// Policy evaluates withdrawal constraints for a wallet.
type Policy struct{}

// NewPolicy creates a limit policy.
func NewPolicy() *Policy { return &Policy{} }

// CheckWithdrawal validates a single withdrawal request against the
// wallet's own limits and state.
func (p *Policy) CheckWithdrawal(w *models.Wallet, amount int64) error {
	if w.Security.IsLocked {
		return ErrWalletLocked
	}
	if amount < w.MinWithdrawAmount {
		return ErrBelowMinimum
	}
	if w.MaxWithdrawAmount != nil && amount > *w.MaxWithdrawAmount {
		return ErrAboveMaximum
	}
	if w.AvailableBalance < amount {
		return ErrInsufficientAvailableBalance
	}
	return nil
}

// CheckRollingLimits validates the request against the wallet's daily and
// monthly withdrawal limits. The running totals count every withdrawal that
// is not dead (PENDING, PROCESSING, COMPLETED) within the current calendar
// day and month at server-local boundaries; in-flight requests must count,
// otherwise two requests issued the same day could jointly exceed the limit.
//
// Call this through the same repository instance that holds the wallet row
// lock so the total cannot move between check and debit.
func (p *Policy) CheckRollingLimits(ctx context.Context, repo repositories.LedgerRepository, w *models.Wallet, amount int64, now time.Time) error {
	if w.DailyWithdrawLimit != nil {
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		total, err := repo.SumWithdrawalsBetween(ctx, w.UserID, startOfDay, startOfDay.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		if total+amount > *w.DailyWithdrawLimit {
			return ErrDailyLimitExceeded
		}
	}

	if w.MonthlyWithdrawLimit != nil {
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		total, err := repo.SumWithdrawalsBetween(ctx, w.UserID, startOfMonth, startOfMonth.AddDate(0, 1, 0))
		if err != nil {
			return err
		}
		if total+amount > *w.MonthlyWithdrawLimit {
			return ErrMonthlyLimitExceeded
		}
	}

	return nil
}
