package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"starlive/internal/models"

	"github.com/redis/go-redis/v9"
)

const walletCacheKeyPrefix = "wallet:user:"

// RedisCacheRepository implements CacheRepository on top of Redis.
type RedisCacheRepository struct {
	client *redis.Client
}

// NewRedisCacheRepository creates a Redis-backed cache repository.
func NewRedisCacheRepository(client *redis.Client) CacheRepository {
	return &RedisCacheRepository{client: client}
}

func (r *RedisCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisCacheRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func walletCacheKey(userID uint) string {
	return fmt.Sprintf("%s%d", walletCacheKeyPrefix, userID)
}

func (r *RedisCacheRepository) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	data, err := r.Get(ctx, walletCacheKey(userID))
	if err != nil {
		return nil, err
	}
	var wallet models.Wallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *RedisCacheRepository) SetWallet(ctx context.Context, userID uint, wallet *models.Wallet) error {
	return r.Set(ctx, walletCacheKey(userID), wallet, DefaultExpiration)
}

func (r *RedisCacheRepository) DeleteWallet(ctx context.Context, userID uint) error {
	return r.Delete(ctx, walletCacheKey(userID))
}
