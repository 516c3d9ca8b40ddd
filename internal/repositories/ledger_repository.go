package repositories

import (
	"context"
	"errors"
	"time"

	"starlive/internal/models"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateWallet     = errors.New("wallet already exists")
)

// TransactionQuery filters and paginates ledger reads.
type TransactionQuery struct {
	UserID            *uint
	Type              string
	Status            string
	PaymentMethodType string
	From              *time.Time
	To                *time.Time
	MinAmount         *int64
	MaxAmount         *int64
	Limit             int
	Offset            int
}

// TypeTotal is an aggregation row for transaction stats.
type TypeTotal struct {
	Type  string
	Count int64
	Total int64
}

// PeriodTotal is an aggregation row for revenue reporting.
type PeriodTotal struct {
	Period string
	Count  int64
	Total  int64
}

// LedgerRepository is the data access surface for wallets and their
// transaction ledgers. Every wallet-mutating settlement operation runs
// against a transaction-scoped instance obtained through
// ExecuteInTransaction, so paired wallet and ledger writes commit or roll
// back together.
type LedgerRepository interface {
	// Wallet operations
	GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	// GetWalletForUpdate locks the wallet row for the duration of the
	// surrounding transaction. Only meaningful inside ExecuteInTransaction.
	GetWalletForUpdate(ctx context.Context, userID uint) (*models.Wallet, error)
	CreateWallet(ctx context.Context, wallet *models.Wallet) error
	UpdateWallet(ctx context.Context, wallet *models.Wallet) error

	// Transaction operations
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransactionByID(ctx context.Context, id uint) (*models.Transaction, error)
	// GetTransactionForUpdate locks the transaction row; used by moderation
	// and the gateway callback so the two cannot race each other.
	GetTransactionForUpdate(ctx context.Context, id uint) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// SumWithdrawalsBetween totals withdrawal amounts for the user created
	// within [start, end) that still count against rolling limits
	// (PENDING, PROCESSING and COMPLETED).
	SumWithdrawalsBetween(ctx context.Context, userID uint, start, end time.Time) (int64, error)

	// Reporting reads
	ListTransactions(ctx context.Context, q TransactionQuery) ([]models.Transaction, int64, error)
	ListPendingTransactions(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error)
	GetTransactionTotalsByType(ctx context.Context, userID uint, start, end time.Time) ([]TypeTotal, error)
	SumByTypesPerPeriod(ctx context.Context, types []string, bucket string, periods int) ([]PeriodTotal, error)

	// ExecuteInTransaction runs fn against a repository bound to a single
	// database transaction. Returning an error rolls everything back.
	ExecuteInTransaction(fn func(LedgerRepository) error) error
}
