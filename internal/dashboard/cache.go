package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// KVStore 抽象的 KV 存储（用于在单元测试中替换 Redis）
type KVStore interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// RedisKVStore 基于 go-redis 的 KV 实现
type RedisKVStore struct {
	client *redis.Client
}

func NewRedisKVStore(client *redis.Client) *RedisKVStore {
	return &RedisKVStore{client: client}
}

func (r *RedisKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// CachePublisher 把渲染后的视图 JSON 发布到 KV 存储（带 TTL）
// 供其他服务读取实时仪表盘状态；发布失败只记日志，不影响渲染路径
type CachePublisher struct {
	kv     KVStore
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachePublisher 创建视图缓存发布器
func NewCachePublisher(kv KVStore, key string, ttl time.Duration, logger *zap.Logger) *CachePublisher {
	return &CachePublisher{
		kv:     kv,
		key:    key,
		ttl:    ttl,
		logger: logger,
	}
}

// Publish 序列化视图并写入缓存
func (p *CachePublisher) Publish(ctx context.Context, view View) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal view: %w", err)
	}

	if err := p.kv.Set(ctx, p.key, string(data), p.ttl); err != nil {
		return fmt.Errorf("failed to publish view cache: %w", err)
	}

	return nil
}
