package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"starlive/internal/models"
	"starlive/internal/repositories"
	"starlive/internal/services/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLedger is a minimal in-memory ledger for resolution tests. The
// embedded interface panics on anything the simulator should not call.
type memLedger struct {
	repositories.LedgerRepository
	wallets map[uint]*models.Wallet
	txs     map[uint]*models.Transaction
}

func newMemLedger() *memLedger {
	return &memLedger{
		wallets: make(map[uint]*models.Wallet),
		txs:     make(map[uint]*models.Transaction),
	}
}

func (m *memLedger) ExecuteInTransaction(fn func(repositories.LedgerRepository) error) error {
	return fn(m)
}

func (m *memLedger) GetWalletByUserID(_ context.Context, userID uint) (*models.Wallet, error) {
	w, ok := m.wallets[userID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memLedger) GetWalletForUpdate(ctx context.Context, userID uint) (*models.Wallet, error) {
	return m.GetWalletByUserID(ctx, userID)
}

func (m *memLedger) UpdateWallet(_ context.Context, w *models.Wallet) error {
	cp := *w
	m.wallets[w.UserID] = &cp
	return nil
}

func (m *memLedger) GetTransactionForUpdate(_ context.Context, id uint) (*models.Transaction, error) {
	tx, ok := m.txs[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *memLedger) UpdateTransaction(_ context.Context, tx *models.Transaction) error {
	cp := *tx
	m.txs[tx.ID] = &cp
	return nil
}

type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, error) { return nil, errMiss }
func (noCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (noCache) Delete(context.Context, string) error                      { return nil }
func (noCache) GetWallet(context.Context, uint) (*models.Wallet, error)  { return nil, errMiss }
func (noCache) SetWallet(context.Context, uint, *models.Wallet) error    { return nil }
func (noCache) DeleteWallet(context.Context, uint) error                 { return nil }

var errMiss = errors.New("cache miss")

func newSimulator(repo *memLedger, roll float64) *Simulator {
	wallets := wallet.NewService(repo, noCache{}, wallet.Config{DefaultCurrency: "USD"})
	sim := NewSimulator(repo, wallets, Config{Delay: time.Millisecond})
	sim.randFn = func() float64 { return roll }
	return sim
}

func TestResolve(t *testing.T) {
	t.Run("success credits the wallet and completes the deposit", func(t *testing.T) {
		repo := newMemLedger()
		repo.wallets[1] = &models.Wallet{UserID: 1, Currency: "USD"}
		repo.txs[10] = &models.Transaction{
			ID: 10, UserID: 1, Type: models.TransactionTypeDeposit,
			Amount: 5000, Status: models.TransactionStatusPending,
		}
		sim := newSimulator(repo, 0.0)

		require.NoError(t, sim.Resolve(context.Background(), 10, "card"))

		assert.Equal(t, models.TransactionStatusCompleted, repo.txs[10].Status)
		assert.Equal(t, int64(5000), repo.wallets[1].Balance)
		assert.Equal(t, int64(5000), repo.wallets[1].AvailableBalance)
	})

	t.Run("failure marks the deposit failed without touching the wallet", func(t *testing.T) {
		repo := newMemLedger()
		repo.wallets[1] = &models.Wallet{UserID: 1, Currency: "USD"}
		repo.txs[10] = &models.Transaction{
			ID: 10, UserID: 1, Type: models.TransactionTypeDeposit,
			Amount: 5000, Status: models.TransactionStatusPending,
		}
		sim := newSimulator(repo, 0.999)

		require.NoError(t, sim.Resolve(context.Background(), 10, "card"))

		assert.Equal(t, models.TransactionStatusFailed, repo.txs[10].Status)
		assert.Equal(t, "payment declined by card provider", repo.txs[10].AdminNotes)
		assert.Zero(t, repo.wallets[1].Balance)
	})

	t.Run("already settled transactions are left alone", func(t *testing.T) {
		repo := newMemLedger()
		repo.wallets[1] = &models.Wallet{UserID: 1, Balance: 100, AvailableBalance: 100}
		repo.txs[10] = &models.Transaction{
			ID: 10, UserID: 1, Type: models.TransactionTypeDeposit,
			Amount: 5000, Status: models.TransactionStatusFailed,
			AdminNotes: "rejected by moderator",
		}
		sim := newSimulator(repo, 0.0)

		require.NoError(t, sim.Resolve(context.Background(), 10, "card"))

		assert.Equal(t, models.TransactionStatusFailed, repo.txs[10].Status)
		assert.Equal(t, "rejected by moderator", repo.txs[10].AdminNotes)
		assert.Equal(t, int64(100), repo.wallets[1].Balance)
	})

	t.Run("unknown transaction is not an error", func(t *testing.T) {
		repo := newMemLedger()
		sim := newSimulator(repo, 0.0)
		assert.NoError(t, sim.Resolve(context.Background(), 404, "card"))
	})
}

func TestSuccessRate(t *testing.T) {
	repo := newMemLedger()
	sim := newSimulator(repo, 0.0)

	assert.InDelta(t, 0.95, sim.successRate("card"), 1e-9)
	assert.InDelta(t, 0.90, sim.successRate("bank_transfer"), 1e-9)
	assert.InDelta(t, 0.85, sim.successRate("mobile_money"), 1e-9)
	assert.InDelta(t, 0.80, sim.successRate("carrier_pigeon"), 1e-9)
}
