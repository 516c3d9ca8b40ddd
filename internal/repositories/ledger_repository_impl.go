package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"starlive/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a gorm-backed LedgerRepository.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *ledgerRepository) GetWalletForUpdate(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *ledgerRepository) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateWallet
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *ledgerRepository) UpdateWallet(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Save(wallet).Error; err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

func (r *ledgerRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetTransactionByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *ledgerRepository) GetTransactionForUpdate(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&tx, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction: %w", err)
	}
	return &tx, nil
}

func (r *ledgerRepository) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Save(tx).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) SumWithdrawalsBetween(ctx context.Context, userID uint, start, end time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND status IN ? AND created_at >= ? AND created_at < ?",
			userID, models.TransactionTypeWithdraw,
			[]string{
				models.TransactionStatusPending,
				models.TransactionStatusProcessing,
				models.TransactionStatusCompleted,
			},
			start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum withdrawals: %w", err)
	}
	return total, nil
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, q TransactionQuery) ([]models.Transaction, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Transaction{})

	if q.UserID != nil {
		db = db.Where("user_id = ?", *q.UserID)
	}
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.PaymentMethodType != "" {
		db = db.Where("payment_method_type = ?", q.PaymentMethodType)
	}
	if q.From != nil {
		db = db.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("created_at < ?", *q.To)
	}
	if q.MinAmount != nil {
		db = db.Where("amount >= ?", *q.MinAmount)
	}
	if q.MaxAmount != nil {
		db = db.Where("amount <= ?", *q.MaxAmount)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var txs []models.Transaction
	err := db.Order("created_at DESC").Limit(q.Limit).Offset(q.Offset).Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}

func (r *ledgerRepository) ListPendingTransactions(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("status IN ?", []string{
			models.TransactionStatusPending,
			models.TransactionStatusProcessing,
		})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pending transactions: %w", err)
	}

	var txs []models.Transaction
	err := db.Order("created_at ASC").Limit(limit).Offset(offset).Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	return txs, total, nil
}

func (r *ledgerRepository) GetTransactionTotalsByType(ctx context.Context, userID uint, start, end time.Time) ([]TypeTotal, error) {
	var totals []TypeTotal
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			userID, models.TransactionStatusCompleted, start, end).
		Select("type, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Group("type").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transaction totals: %w", err)
	}
	return totals, nil
}

// periodFormats maps a bucket name to the to_char format used to label it.
var periodFormats = map[string]string{
	"day":   "YYYY-MM-DD",
	"month": "YYYY-MM",
	"year":  "YYYY",
}

func (r *ledgerRepository) SumByTypesPerPeriod(ctx context.Context, types []string, bucket string, periods int) ([]PeriodTotal, error) {
	format, ok := periodFormats[bucket]
	if !ok {
		return nil, fmt.Errorf("unknown period bucket %q", bucket)
	}

	var totals []PeriodTotal
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("type IN ? AND status = ?", types, models.TransactionStatusCompleted).
		Select("to_char(date_trunc(?, created_at), ?) as period, COUNT(*) as count, COALESCE(SUM(amount), 0) as total",
			bucket, format).
		Group("period").
		Order("period DESC").
		Limit(periods).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	return totals, nil
}

func (r *ledgerRepository) ExecuteInTransaction(fn func(LedgerRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: tx})
	})
}
