// Package wallet implements the wallet store: per-user balance records
// with limits and security flags, a read cache in front of them, and the
// atomic balance-delta primitive every settlement operation is built on.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"starlive/internal/models"
	"starlive/internal/repositories"
)

// Service is the wallet store surface exposed to settlement and the HTTP
// layer.
type Service interface {
	// GetOrCreate returns the user's wallet, creating a zeroed one with the
	// default currency on first access.
	GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error)

	// UpdateSettings shallow-merges withdrawal settings and adjusts the
	// daily/monthly withdrawal limits.
	UpdateSettings(ctx context.Context, userID uint, update SettingsUpdate) (*models.Wallet, error)

	// InvalidateCache drops the cached view after an out-of-band mutation.
	InvalidateCache(ctx context.Context, userID uint)

	// DefaultCurrency is the currency new wallets are created with.
	DefaultCurrency() string
}

type service struct {
	repo   repositories.LedgerRepository
	cache  repositories.CacheRepository
	config Config
}

// NewService creates a new wallet service.
func NewService(repo repositories.LedgerRepository, cache repositories.CacheRepository, config Config) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = "USD"
	}
	return &service{repo: repo, cache: cache, config: config}
}

func (s *service) GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error) {
	if w, err := s.cache.GetWallet(ctx, userID); err == nil {
		return w, nil
	}

	w, err := s.repo.GetWalletByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrWalletNotFound) {
		w = &models.Wallet{
			UserID:            userID,
			Currency:          s.config.DefaultCurrency,
			MinWithdrawAmount: s.config.MinWithdrawAmount,
		}
		if createErr := s.repo.CreateWallet(ctx, w); createErr != nil {
			// Lost a creation race; the other writer's row wins.
			if errors.Is(createErr, repositories.ErrDuplicateWallet) {
				return s.repo.GetWalletByUserID(ctx, userID)
			}
			return nil, fmt.Errorf("failed to create wallet: %w", createErr)
		}
	} else if err != nil {
		return nil, err
	}

	// Cache is best effort; the database copy is authoritative.
	_ = s.cache.SetWallet(ctx, userID, w)
	return w, nil
}

func (s *service) UpdateSettings(ctx context.Context, userID uint, update SettingsUpdate) (*models.Wallet, error) {
	var updated *models.Wallet
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		w, err := tx.GetWalletForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrWalletNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		if update.WithdrawalSettings != nil {
			w.WithdrawalSettings.Merge(*update.WithdrawalSettings)
		}
		if update.DailyWithdrawLimit != nil {
			if *update.DailyWithdrawLimit <= 0 {
				w.DailyWithdrawLimit = nil
			} else {
				w.DailyWithdrawLimit = update.DailyWithdrawLimit
			}
		}
		if update.MonthlyWithdrawLimit != nil {
			if *update.MonthlyWithdrawLimit <= 0 {
				w.MonthlyWithdrawLimit = nil
			} else {
				w.MonthlyWithdrawLimit = update.MonthlyWithdrawLimit
			}
		}

		if err := tx.UpdateWallet(ctx, w); err != nil {
			return err
		}
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateCache(ctx, userID)
	return updated, nil
}

func (s *service) InvalidateCache(ctx context.Context, userID uint) {
	_ = s.cache.DeleteWallet(ctx, userID)
}

func (s *service) DefaultCurrency() string {
	return s.config.DefaultCurrency
}

// ApplyDelta atomically adjusts a wallet's balance fields inside the
// caller's unit of work. The wallet row is locked for the duration of the
// surrounding transaction, and no field may go negative; callers get
// ErrInsufficientFunds and an untouched wallet otherwise.
func ApplyDelta(ctx context.Context, repo repositories.LedgerRepository, userID uint, delta models.BalanceDelta) (*models.Wallet, error) {
	w, err := repo.GetWalletForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	if err := w.Apply(delta); err != nil {
		return nil, ErrInsufficientFunds
	}
	if err := repo.UpdateWallet(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}
