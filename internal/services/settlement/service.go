// Package settlement implements the money-movement operations of the
// ledger: deposits, withdrawals, peer-to-peer transfers and administrative
// moderation. Every operation that touches a wallet runs its checks and its
// balance mutation in one unit of work with the wallet rows locked, so no
// partial state survives a failure and no limit check can go stale between
// validation and commit.
package settlement

import (
	"context"
	"errors"
	"log"
	"time"

	"starlive/internal/models"
	"starlive/internal/repositories"
	"starlive/internal/services/limits"
	"starlive/internal/services/wallet"
)

// Service is the settlement engine surface exposed to the HTTP layer.
type Service interface {
	Deposit(ctx context.Context, req DepositRequest) (*Result, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*Result, error)
	Transfer(ctx context.Context, req TransferRequest) (*Result, error)
	Moderate(ctx context.Context, req ModerateRequest) (*models.Transaction, error)
}

type service struct {
	repo     repositories.LedgerRepository
	users    repositories.UserRepository
	wallets  wallet.Service
	policy   *limits.Policy
	gateway  GatewayResolver
	notifier Notifier
	now      func() time.Time
}

// NewService creates a new settlement service.
func NewService(
	repo repositories.LedgerRepository,
	users repositories.UserRepository,
	wallets wallet.Service,
	policy *limits.Policy,
	gateway GatewayResolver,
	notifier Notifier,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if users == nil {
		panic("users is required")
	}
	if wallets == nil {
		panic("wallets is required")
	}
	if policy == nil {
		policy = limits.NewPolicy()
	}
	return &service{
		repo:     repo,
		users:    users,
		wallets:  wallets,
		policy:   policy,
		gateway:  gateway,
		notifier: notifier,
		now:      time.Now,
	}
}

// Deposit records a PENDING deposit on the user's ledger and hands it to
// the payment gateway. The wallet is only credited once the gateway or an
// admin completes the transaction.
func (s *service) Deposit(ctx context.Context, req DepositRequest) (*Result, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	w, err := s.wallets.GetOrCreate(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if w.Security.IsLocked {
		return nil, limits.ErrWalletLocked
	}
	if req.Currency != "" && req.Currency != w.Currency {
		return nil, ErrCurrencyMismatch
	}

	tx := &models.Transaction{
		Reference:         models.NewTransactionReference(),
		UserID:            req.UserID,
		Type:              models.TransactionTypeDeposit,
		Amount:            req.Amount,
		Currency:          w.Currency,
		Description:       req.Description,
		PaymentMethodType: req.PaymentMethodType,
		PaymentMethod:     req.PaymentMethod,
		Status:            models.TransactionStatusPending,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	if s.gateway != nil {
		s.gateway.Schedule(tx.ID, req.PaymentMethodType)
	}

	return &Result{Transaction: tx, Wallet: w}, nil
}

// Withdraw earmarks funds for payout: limit checks, the move from
// available to pending and the PENDING ledger entry all commit together
// with the wallet row locked.
func (s *service) Withdraw(ctx context.Context, req WithdrawRequest) (*Result, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	// Make sure the wallet row exists before trying to lock it.
	if _, err := s.wallets.GetOrCreate(ctx, req.UserID); err != nil {
		return nil, err
	}

	var (
		tx *models.Transaction
		w  *models.Wallet
	)
	err := s.repo.ExecuteInTransaction(func(r repositories.LedgerRepository) error {
		var err error
		w, err = r.GetWalletForUpdate(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrWalletNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		if err := s.policy.CheckWithdrawal(w, req.Amount); err != nil {
			return err
		}
		if err := s.policy.CheckRollingLimits(ctx, r, w, req.Amount, s.now()); err != nil {
			return err
		}

		if err := w.Apply(models.BalanceDelta{Available: -req.Amount, Pending: req.Amount}); err != nil {
			return limits.ErrInsufficientAvailableBalance
		}
		if err := r.UpdateWallet(ctx, w); err != nil {
			return err
		}

		tx = &models.Transaction{
			Reference:         models.NewTransactionReference(),
			UserID:            req.UserID,
			Type:              models.TransactionTypeWithdraw,
			Amount:            req.Amount,
			Currency:          w.Currency,
			Description:       req.Description,
			PaymentMethodType: req.PaymentMethodType,
			PaymentMethod:     req.PaymentMethod,
			Status:            models.TransactionStatusPending,
		}
		return r.CreateTransaction(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.wallets.InvalidateCache(ctx, req.UserID)
	s.notify(ctx, req.UserID, tx)
	return &Result{Transaction: tx, Wallet: w}, nil
}

// Transfer moves funds between two wallets in a single unit of work. Both
// wallet rows are locked in ascending user id order so two opposing
// transfers between the same pair cannot deadlock. The recipient's wallet
// is created on the fly; the recipient user must exist.
func (s *service) Transfer(ctx context.Context, req TransferRequest) (*Result, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.FromUserID == req.ToUserID {
		return nil, ErrSelfTransfer
	}

	if _, err := s.repo.GetWalletByUserID(ctx, req.FromUserID); err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	exists, err := s.users.Exists(ctx, req.ToUserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRecipientNotFound
	}

	var (
		tx     *models.Transaction
		sender *models.Wallet
	)
	err = s.repo.ExecuteInTransaction(func(r repositories.LedgerRepository) error {
		first, second := req.FromUserID, req.ToUserID
		if second < first {
			first, second = second, first
		}

		lockedFirst, err := s.lockOrCreateWallet(ctx, r, first)
		if err != nil {
			return err
		}
		lockedSecond, err := s.lockOrCreateWallet(ctx, r, second)
		if err != nil {
			return err
		}

		sender = lockedFirst
		recipient := lockedSecond
		if sender.UserID != req.FromUserID {
			sender, recipient = recipient, sender
		}

		if err := sender.Apply(models.BalanceDelta{Balance: -req.Amount, Available: -req.Amount}); err != nil {
			return limits.ErrInsufficientAvailableBalance
		}
		if err := recipient.Apply(models.BalanceDelta{Balance: req.Amount, Available: req.Amount}); err != nil {
			return err
		}
		if err := r.UpdateWallet(ctx, sender); err != nil {
			return err
		}
		if err := r.UpdateWallet(ctx, recipient); err != nil {
			return err
		}

		toID := req.ToUserID
		tx = &models.Transaction{
			Reference:      models.NewTransactionReference(),
			UserID:         req.FromUserID,
			CounterpartyID: &toID,
			Type:           models.TransactionTypeTransfer,
			Amount:         req.Amount,
			Currency:       sender.Currency,
			Description:    req.Description,
			Status:         models.TransactionStatusCompleted,
		}
		return r.CreateTransaction(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.wallets.InvalidateCache(ctx, req.FromUserID)
	s.wallets.InvalidateCache(ctx, req.ToUserID)
	s.notify(ctx, req.FromUserID, tx)
	s.notify(ctx, req.ToUserID, tx)
	return &Result{Transaction: tx, Wallet: sender}, nil
}

// lockOrCreateWallet locks the wallet row inside the current transaction,
// creating a zeroed wallet first if the user has none yet.
func (s *service) lockOrCreateWallet(ctx context.Context, r repositories.LedgerRepository, userID uint) (*models.Wallet, error) {
	w, err := r.GetWalletForUpdate(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, repositories.ErrWalletNotFound) {
		return nil, err
	}

	w = &models.Wallet{UserID: userID, Currency: s.wallets.DefaultCurrency()}
	if err := r.CreateWallet(ctx, w); err != nil {
		if errors.Is(err, repositories.ErrDuplicateWallet) {
			return r.GetWalletForUpdate(ctx, userID)
		}
		return nil, err
	}
	return w, nil
}

func (s *service) notify(ctx context.Context, userID uint, tx *models.Transaction) {
	if s.notifier == nil || tx == nil {
		return
	}
	if err := s.notifier.NotifyTransaction(ctx, userID, tx); err != nil {
		log.Printf("failed to notify user %d about %s: %v", userID, tx.Reference, err)
	}
}
