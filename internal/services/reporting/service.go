// Package reporting provides read-only aggregation over the transaction
// ledger: filtered history, per-period stats, the moderation queue and
// platform revenue. Nothing here mutates state, so reads tolerate the
// weaker isolation of plain queries.
package reporting

import (
	"context"
	"errors"
	"time"

	"starlive/internal/models"
	"starlive/internal/repositories"
)

var ErrInvalidPeriod = errors.New("invalid period")

// Reporting periods
const (
	PeriodDaily   = "daily"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// revenueTypes are the transaction types that count as platform revenue.
var revenueTypes = []string{
	models.TransactionTypeCommission,
	models.TransactionTypeSubscription,
	models.TransactionTypePenalty,
}

// inboundTypes credit the ledger owner; every other type is outbound.
var inboundTypes = map[string]bool{
	models.TransactionTypeDeposit:      true,
	models.TransactionTypeGiftReceived: true,
	models.TransactionTypeRefund:       true,
	models.TransactionTypeBonus:        true,
}

// Stats aggregates a user's completed transactions for the current period.
type Stats struct {
	Period   string                  `json:"period"`
	Start    time.Time               `json:"start"`
	End      time.Time               `json:"end"`
	ByType   []repositories.TypeTotal `json:"by_type"`
	TotalIn  int64                   `json:"total_in"`
	TotalOut int64                   `json:"total_out"`
	Net      int64                   `json:"net"`
}

// Service is the reporting surface.
type Service interface {
	ListTransactions(ctx context.Context, q repositories.TransactionQuery) ([]models.Transaction, int64, error)
	GetStats(ctx context.Context, userID uint, period string) (*Stats, error)
	PendingQueue(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error)
	RevenueByPeriod(ctx context.Context, period string, periods int) ([]repositories.PeriodTotal, error)
}

type service struct {
	repo repositories.LedgerRepository
	now  func() time.Time
}

// NewService creates a reporting service.
func NewService(repo repositories.LedgerRepository) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo, now: time.Now}
}

func (s *service) ListTransactions(ctx context.Context, q repositories.TransactionQuery) ([]models.Transaction, int64, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return s.repo.ListTransactions(ctx, q)
}

func (s *service) GetStats(ctx context.Context, userID uint, period string) (*Stats, error) {
	now := s.now()
	var start, end time.Time
	switch period {
	case PeriodDaily:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 0, 1)
	case PeriodMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)
	case PeriodYearly:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(1, 0, 0)
	default:
		return nil, ErrInvalidPeriod
	}

	totals, err := s.repo.GetTransactionTotalsByType(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Period: period, Start: start, End: end, ByType: totals}
	for _, t := range totals {
		if inboundTypes[t.Type] {
			stats.TotalIn += t.Total
		} else {
			stats.TotalOut += t.Total
		}
	}
	stats.Net = stats.TotalIn - stats.TotalOut
	return stats, nil
}

func (s *service) PendingQueue(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListPendingTransactions(ctx, limit, offset)
}

func (s *service) RevenueByPeriod(ctx context.Context, period string, periods int) ([]repositories.PeriodTotal, error) {
	bucket, ok := map[string]string{
		PeriodDaily:   "day",
		PeriodMonthly: "month",
		PeriodYearly:  "year",
	}[period]
	if !ok {
		return nil, ErrInvalidPeriod
	}
	if periods <= 0 {
		periods = 12
	}
	return s.repo.SumByTypesPerPeriod(ctx, revenueTypes, bucket, periods)
}
