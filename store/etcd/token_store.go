package etcd

import (
	"context"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/kochabx/apiclient/core/auth/bearer"
	kiterrors "github.com/kochabx/apiclient/errors"
)

// TokenStore 以 etcd 键值保存凭证，每次操作受 RequestTimeout 限制
type TokenStore struct {
	client  *clientv3.Client
	prefix  string
	timeout time.Duration
	ttl     time.Duration
}

var _ bearer.WritableStore = (*TokenStore)(nil)

type TokenStoreOption func(*TokenStore)

// WithTTL 写入时绑定租约，到期后键被 etcd 删除，0 表示永不过期
func WithTTL(ttl time.Duration) TokenStoreOption {
	return func(s *TokenStore) {
		s.ttl = ttl
	}
}

// NewTokenStore 创建 TokenStore，键名为 cfg.KeyPrefix + key
func NewTokenStore(c *Client, opts ...TokenStoreOption) *TokenStore {
	s := &TokenStore{
		client:  c.Client,
		prefix:  c.config.KeyPrefix,
		timeout: c.config.RequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Get(ctx, s.prefix+key)
	if err != nil {
		return "", kiterrors.Wrap(err, kiterrors.UnknownCode, "etcd get %s", s.prefix+key)
	}
	if len(resp.Kvs) == 0 {
		return "", bearer.ErrNotFound
	}
	return string(resp.Kvs[0].Value), nil
}

func (s *TokenStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return bearer.ErrEmptyKey
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var opts []clientv3.OpOption
	if s.ttl > 0 {
		// etcd 租约以秒为单位，不足一秒按一秒计
		seconds := int64((s.ttl + time.Second - 1) / time.Second)
		lease, err := s.client.Grant(ctx, seconds)
		if err != nil {
			return kiterrors.Wrap(err, kiterrors.UnknownCode, "etcd grant lease for %s", s.prefix+key)
		}
		opts = append(opts, clientv3.WithLease(lease.ID))
	}

	if _, err := s.client.Put(ctx, s.prefix+key, value, opts...); err != nil {
		return kiterrors.Wrap(err, kiterrors.UnknownCode, "etcd put %s", s.prefix+key)
	}
	return nil
}

func (s *TokenStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.client.Delete(ctx, s.prefix+key); err != nil {
		return kiterrors.Wrap(err, kiterrors.UnknownCode, "etcd delete %s", s.prefix+key)
	}
	return nil
}
