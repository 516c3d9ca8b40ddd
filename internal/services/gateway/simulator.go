// Package gateway contains the payment gateway simulator. It stands in
// for a real payment processor: a scheduled deposit resolves to success or
// failure after a fixed delay, with a success probability that depends on
// the payment method. Real settlement with banking or card networks is
// deliberately out of scope.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"starlive/internal/models"
	"starlive/internal/repositories"
	"starlive/internal/services/wallet"
)

// Default per-method settlement success probabilities.
var defaultSuccessRates = map[string]float64{
	"card":          0.95,
	"bank_transfer": 0.90,
	"mobile_money":  0.85,
}

const defaultSuccessRate = 0.80

// Config tunes the simulator.
type Config struct {
	// Delay between Schedule and resolution.
	Delay time.Duration
	// SuccessRates overrides the per-method probabilities.
	SuccessRates map[string]float64
}

// Simulator resolves pending deposits asynchronously. Resolution is an
// atomic, idempotent state transition: a transaction that was moderated
// while the timer ran is left alone.
type Simulator struct {
	repo    repositories.LedgerRepository
	wallets wallet.Service
	config  Config
	randFn  func() float64
}

// NewSimulator creates a payment gateway simulator.
func NewSimulator(repo repositories.LedgerRepository, wallets wallet.Service, config Config) *Simulator {
	if repo == nil {
		panic("repo is required")
	}
	if wallets == nil {
		panic("wallets is required")
	}
	if config.Delay == 0 {
		config.Delay = 3 * time.Second
	}
	if config.SuccessRates == nil {
		config.SuccessRates = defaultSuccessRates
	}
	return &Simulator{
		repo:    repo,
		wallets: wallets,
		config:  config,
		randFn:  rand.Float64,
	}
}

// Schedule queues the transaction for resolution after the configured
// delay. Implements settlement.GatewayResolver.
func (s *Simulator) Schedule(transactionID uint, paymentMethodType string) {
	time.AfterFunc(s.config.Delay, func() {
		if err := s.Resolve(context.Background(), transactionID, paymentMethodType); err != nil {
			log.Printf("gateway: failed to resolve transaction %d: %v", transactionID, err)
		}
	})
}

// Resolve flips a still-pending deposit to COMPLETED or FAILED and applies
// the matching wallet credit on success. Calling it on a transaction that
// has already left PENDING is a no-op, not an error.
func (s *Simulator) Resolve(ctx context.Context, transactionID uint, paymentMethodType string) error {
	var owner uint
	err := s.repo.ExecuteInTransaction(func(r repositories.LedgerRepository) error {
		tx, err := r.GetTransactionForUpdate(ctx, transactionID)
		if err != nil {
			if errors.Is(err, repositories.ErrTransactionNotFound) {
				return nil
			}
			return err
		}
		// A moderator may have settled the transaction while the timer ran.
		if tx.Status != models.TransactionStatusPending {
			return nil
		}
		if tx.Type != models.TransactionTypeDeposit {
			return nil
		}

		if s.randFn() < s.successRate(paymentMethodType) {
			if _, err := wallet.ApplyDelta(ctx, r, tx.UserID, models.BalanceDelta{
				Balance:   tx.Amount,
				Available: tx.Amount,
			}); err != nil {
				return err
			}
			tx.Status = models.TransactionStatusCompleted
			owner = tx.UserID
		} else {
			tx.Status = models.TransactionStatusFailed
			tx.AdminNotes = fmt.Sprintf("payment declined by %s provider", s.methodLabel(paymentMethodType))
		}
		return r.UpdateTransaction(ctx, tx)
	})
	if err != nil {
		return err
	}

	if owner != 0 {
		s.wallets.InvalidateCache(ctx, owner)
	}
	return nil
}

func (s *Simulator) successRate(method string) float64 {
	if rate, ok := s.config.SuccessRates[method]; ok {
		return rate
	}
	return defaultSuccessRate
}

func (s *Simulator) methodLabel(method string) string {
	if method == "" {
		return "payment"
	}
	return method
}
