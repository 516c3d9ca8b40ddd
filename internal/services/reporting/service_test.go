package reporting

import (
	"context"
	"testing"
	"time"

	"starlive/internal/models"
	"starlive/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLedger struct {
	repositories.LedgerRepository

	listQuery  repositories.TransactionQuery
	totals     []repositories.TypeTotal
	totalsFrom time.Time
	totalsTo   time.Time

	revenueTypes  []string
	revenueBucket string
	revenueCount  int
}

func (s *stubLedger) ListTransactions(_ context.Context, q repositories.TransactionQuery) ([]models.Transaction, int64, error) {
	s.listQuery = q
	return nil, 0, nil
}

func (s *stubLedger) GetTransactionTotalsByType(_ context.Context, _ uint, start, end time.Time) ([]repositories.TypeTotal, error) {
	s.totalsFrom, s.totalsTo = start, end
	return s.totals, nil
}

func (s *stubLedger) ListPendingTransactions(_ context.Context, limit, offset int) ([]models.Transaction, int64, error) {
	return nil, 0, nil
}

func (s *stubLedger) SumByTypesPerPeriod(_ context.Context, types []string, bucket string, periods int) ([]repositories.PeriodTotal, error) {
	s.revenueTypes = types
	s.revenueBucket = bucket
	s.revenueCount = periods
	return nil, nil
}

func newTestService(repo *stubLedger, now time.Time) Service {
	svc := NewService(repo).(*service)
	svc.now = func() time.Time { return now }
	return svc
}

func TestListTransactions(t *testing.T) {
	repo := &stubLedger{}
	svc := NewService(repo)

	_, _, err := svc.ListTransactions(context.Background(), repositories.TransactionQuery{})
	require.NoError(t, err)
	assert.Equal(t, 10, repo.listQuery.Limit)

	_, _, err = svc.ListTransactions(context.Background(), repositories.TransactionQuery{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.listQuery.Limit)

	_, _, err = svc.ListTransactions(context.Background(), repositories.TransactionQuery{Limit: 25})
	require.NoError(t, err)
	assert.Equal(t, 25, repo.listQuery.Limit)
}

func TestGetStats(t *testing.T) {
	now := time.Date(2025, time.June, 18, 9, 0, 0, 0, time.UTC)

	t.Run("splits totals into inbound and outbound", func(t *testing.T) {
		repo := &stubLedger{totals: []repositories.TypeTotal{
			{Type: models.TransactionTypeDeposit, Count: 2, Total: 1000},
			{Type: models.TransactionTypeGiftReceived, Count: 5, Total: 250},
			{Type: models.TransactionTypeWithdraw, Count: 1, Total: 400},
			{Type: models.TransactionTypeGiftSent, Count: 3, Total: 150},
		}}
		svc := newTestService(repo, now)

		stats, err := svc.GetStats(context.Background(), 1, PeriodMonthly)
		require.NoError(t, err)

		assert.Equal(t, int64(1250), stats.TotalIn)
		assert.Equal(t, int64(550), stats.TotalOut)
		assert.Equal(t, int64(700), stats.Net)
		assert.Len(t, stats.ByType, 4)
	})

	t.Run("period windows", func(t *testing.T) {
		tests := []struct {
			period     string
			start, end time.Time
		}{
			{PeriodDaily, time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC), time.Date(2025, time.June, 19, 0, 0, 0, 0, time.UTC)},
			{PeriodMonthly, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)},
			{PeriodYearly, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)},
		}
		for _, tt := range tests {
			repo := &stubLedger{}
			svc := newTestService(repo, now)

			stats, err := svc.GetStats(context.Background(), 1, tt.period)
			require.NoError(t, err, tt.period)
			assert.Equal(t, tt.start, stats.Start, tt.period)
			assert.Equal(t, tt.end, stats.End, tt.period)
			assert.Equal(t, tt.start, repo.totalsFrom, tt.period)
			assert.Equal(t, tt.end, repo.totalsTo, tt.period)
		}
	})

	t.Run("unknown period", func(t *testing.T) {
		svc := newTestService(&stubLedger{}, now)
		_, err := svc.GetStats(context.Background(), 1, "quarterly")
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestRevenueByPeriod(t *testing.T) {
	repo := &stubLedger{}
	svc := NewService(repo)

	_, err := svc.RevenueByPeriod(context.Background(), PeriodMonthly, 0)
	require.NoError(t, err)
	assert.Equal(t, "month", repo.revenueBucket)
	assert.Equal(t, 12, repo.revenueCount)
	assert.ElementsMatch(t, []string{
		models.TransactionTypeCommission,
		models.TransactionTypeSubscription,
		models.TransactionTypePenalty,
	}, repo.revenueTypes)

	_, err = svc.RevenueByPeriod(context.Background(), "weekly", 4)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
