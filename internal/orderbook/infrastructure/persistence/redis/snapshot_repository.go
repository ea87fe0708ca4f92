package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wyfcoding/optionsdesk/internal/orderbook/domain"
)

// SnapshotRedisRepository 基于 Redis 的订单簿快照读模型仓储
type SnapshotRedisRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewSnapshotRedisRepository 创建快照仓储，ttl 控制快照的最长陈旧时间
func NewSnapshotRedisRepository(client redis.UniversalClient, ttl time.Duration) *SnapshotRedisRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SnapshotRedisRepository{
		client: client,
		prefix: "optionsdesk:orderbook:",
		ttl:    ttl,
	}
}

func (r *SnapshotRedisRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil {
		return nil
	}
	key := r.prefix + snapshot.MarketAddress
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal orderbook snapshot: %w", err)
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *SnapshotRedisRepository) Get(ctx context.Context, marketAddress string) (*domain.Snapshot, error) {
	key := r.prefix + marketAddress
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get orderbook snapshot from redis: %w", err)
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal orderbook snapshot: %w", err)
	}
	return &snapshot, nil
}
