package repositories

import (
	"context"
	"time"

	"starlive/internal/models"
)

// CacheRepository is the read cache in front of the wallet store. Cached
// views only ever serve reads; every wallet mutation invalidates the entry,
// so reporting may see a briefly stale view but settlement never does.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error

	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	SetWallet(ctx context.Context, userID uint, wallet *models.Wallet) error
	DeleteWallet(ctx context.Context, userID uint) error
}

// DefaultExpiration is the cache TTL for wallet views.
const DefaultExpiration = 5 * time.Minute
