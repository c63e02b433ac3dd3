package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kochabx/apiclient/core/auth/bearer"
	"github.com/kochabx/apiclient/errors"
)

// TokenStore 以 Redis 字符串保存凭证，多个进程可共享同一令牌
type TokenStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ bearer.WritableStore = (*TokenStore)(nil)

// TokenStoreOption TokenStore 选项
type TokenStoreOption func(*TokenStore)

// WithTTL 设置写入的过期时间，0 表示永不过期
func WithTTL(ttl time.Duration) TokenStoreOption {
	return func(s *TokenStore) {
		s.ttl = ttl
	}
}

// NewTokenStore 创建 TokenStore，键名为 cfg.KeyPrefix + key
func NewTokenStore(c *Client, opts ...TokenStoreOption) *TokenStore {
	s := &TokenStore{
		client: c.client,
		prefix: c.config.KeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", bearer.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, errors.UnknownCode, "redis get %s", s.prefix+key)
	}
	return value, nil
}

func (s *TokenStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return bearer.ErrEmptyKey
	}
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.UnknownCode, "redis set %s", s.prefix+key)
	}
	return nil
}

func (s *TokenStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Wrap(err, errors.UnknownCode, "redis del %s", s.prefix+key)
	}
	return nil
}
