package settlement

import (
	"context"
	"strings"
	"sync"
	"time"

	"starlive/internal/models"
	"starlive/internal/repositories"
)

// ledgerData is the shared in-memory state behind fakeLedger.
type ledgerData struct {
	wallets  map[uint]models.Wallet
	txs      map[uint]models.Transaction
	nextWID  uint
	nextTxID uint
}

func newLedgerData() *ledgerData {
	return &ledgerData{
		wallets: make(map[uint]models.Wallet),
		txs:     make(map[uint]models.Transaction),
	}
}

func (d *ledgerData) clone() *ledgerData {
	cp := newLedgerData()
	cp.nextWID = d.nextWID
	cp.nextTxID = d.nextTxID
	for k, v := range d.wallets {
		cp.wallets[k] = v
	}
	for k, v := range d.txs {
		cp.txs[k] = v
	}
	return cp
}

// fakeLedger is an in-memory LedgerRepository. ExecuteInTransaction holds
// a single mutex for the whole unit of work and rolls the state back on
// error, mirroring the serialization and atomicity the real database
// transaction provides.
type fakeLedger struct {
	mu   *sync.Mutex
	data *ledgerData
	inTx bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{mu: &sync.Mutex{}, data: newLedgerData()}
}

func (f *fakeLedger) lock() func() {
	if f.inTx {
		return func() {}
	}
	f.mu.Lock()
	return f.mu.Unlock
}

func (f *fakeLedger) ExecuteInTransaction(fn func(repositories.LedgerRepository) error) error {
	if f.inTx {
		return fn(f)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := f.data.clone()
	if err := fn(&fakeLedger{mu: f.mu, data: f.data, inTx: true}); err != nil {
		*f.data = *snapshot
		return err
	}
	return nil
}

func (f *fakeLedger) GetWalletByUserID(_ context.Context, userID uint) (*models.Wallet, error) {
	defer f.lock()()
	w, ok := f.data.wallets[userID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := w
	return &cp, nil
}

func (f *fakeLedger) GetWalletForUpdate(ctx context.Context, userID uint) (*models.Wallet, error) {
	return f.GetWalletByUserID(ctx, userID)
}

func (f *fakeLedger) CreateWallet(_ context.Context, wallet *models.Wallet) error {
	defer f.lock()()
	if _, ok := f.data.wallets[wallet.UserID]; ok {
		return repositories.ErrDuplicateWallet
	}
	f.data.nextWID++
	wallet.ID = f.data.nextWID
	f.data.wallets[wallet.UserID] = *wallet
	return nil
}

func (f *fakeLedger) UpdateWallet(_ context.Context, wallet *models.Wallet) error {
	defer f.lock()()
	f.data.wallets[wallet.UserID] = *wallet
	return nil
}

func (f *fakeLedger) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	defer f.lock()()
	f.data.nextTxID++
	tx.ID = f.data.nextTxID
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	f.data.txs[tx.ID] = *tx
	return nil
}

func (f *fakeLedger) GetTransactionByID(_ context.Context, id uint) (*models.Transaction, error) {
	defer f.lock()()
	tx, ok := f.data.txs[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	cp := tx
	return &cp, nil
}

func (f *fakeLedger) GetTransactionForUpdate(ctx context.Context, id uint) (*models.Transaction, error) {
	return f.GetTransactionByID(ctx, id)
}

func (f *fakeLedger) UpdateTransaction(_ context.Context, tx *models.Transaction) error {
	defer f.lock()()
	f.data.txs[tx.ID] = *tx
	return nil
}

func (f *fakeLedger) SumWithdrawalsBetween(_ context.Context, userID uint, start, end time.Time) (int64, error) {
	defer f.lock()()
	var total int64
	for _, tx := range f.data.txs {
		if tx.UserID != userID || tx.Type != models.TransactionTypeWithdraw {
			continue
		}
		switch tx.Status {
		case models.TransactionStatusPending, models.TransactionStatusProcessing, models.TransactionStatusCompleted:
		default:
			continue
		}
		if tx.CreatedAt.Before(start) || !tx.CreatedAt.Before(end) {
			continue
		}
		total += tx.Amount
	}
	return total, nil
}

func (f *fakeLedger) ListTransactions(_ context.Context, q repositories.TransactionQuery) ([]models.Transaction, int64, error) {
	defer f.lock()()
	var out []models.Transaction
	for _, tx := range f.data.txs {
		if q.UserID != nil && tx.UserID != *q.UserID {
			continue
		}
		if q.Type != "" && tx.Type != q.Type {
			continue
		}
		if q.Status != "" && tx.Status != q.Status {
			continue
		}
		out = append(out, tx)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLedger) ListPendingTransactions(_ context.Context, limit, offset int) ([]models.Transaction, int64, error) {
	defer f.lock()()
	var out []models.Transaction
	for _, tx := range f.data.txs {
		if tx.IsModeratable() {
			out = append(out, tx)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeLedger) GetTransactionTotalsByType(_ context.Context, userID uint, start, end time.Time) ([]repositories.TypeTotal, error) {
	defer f.lock()()
	byType := make(map[string]*repositories.TypeTotal)
	for _, tx := range f.data.txs {
		if tx.UserID != userID || tx.Status != models.TransactionStatusCompleted {
			continue
		}
		if tx.CreatedAt.Before(start) || !tx.CreatedAt.Before(end) {
			continue
		}
		t, ok := byType[tx.Type]
		if !ok {
			t = &repositories.TypeTotal{Type: tx.Type}
			byType[tx.Type] = t
		}
		t.Count++
		t.Total += tx.Amount
	}
	var out []repositories.TypeTotal
	for _, t := range byType {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeLedger) SumByTypesPerPeriod(_ context.Context, types []string, bucket string, periods int) ([]repositories.PeriodTotal, error) {
	return nil, nil
}

// transactionsByType returns the stored ledger entries of a type, for
// assertions.
func (f *fakeLedger) transactionsByType(txType string) []models.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, tx := range f.data.txs {
		if tx.Type == txType {
			out = append(out, tx)
		}
	}
	return out
}

// fakeUsers is an in-memory user directory.
type fakeUsers struct {
	users map[uint]*models.User
}

func newFakeUsers(ids ...uint) *fakeUsers {
	f := &fakeUsers{users: make(map[uint]*models.User)}
	for _, id := range ids {
		f.users[id] = &models.User{ID: id}
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

// missCache is a CacheRepository that never hits.
type missCache struct{}

func (missCache) Get(context.Context, string) ([]byte, error) {
	return nil, errNoCache
}
func (missCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (missCache) Delete(context.Context, string) error                          { return nil }
func (missCache) GetWallet(context.Context, uint) (*models.Wallet, error) {
	return nil, errNoCache
}
func (missCache) SetWallet(context.Context, uint, *models.Wallet) error { return nil }
func (missCache) DeleteWallet(context.Context, uint) error              { return nil }

var errNoCache = errNotCached{}

type errNotCached struct{}

func (errNotCached) Error() string { return "not cached" }

// recordingNotifier captures notifications.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) NotifyTransaction(_ context.Context, userID uint, tx *models.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, strings.Join([]string{tx.Type, tx.Status}, ":"))
	return nil
}

// recordingGateway captures scheduled resolutions without running them.
type recordingGateway struct {
	mu        sync.Mutex
	scheduled []uint
}

func (g *recordingGateway) Schedule(transactionID uint, _ string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scheduled = append(g.scheduled, transactionID)
}
