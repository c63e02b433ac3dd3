package etcd

import (
	"context"
	"errors"

	clientv3 "go.etcd.io/etcd/client/v3"

	kiterrors "github.com/kochabx/apiclient/errors"
)

var (
	ErrNotConnected = errors.New("etcd: client not connected")
	ErrNoEndpoints  = errors.New("etcd: no endpoints")
)

// Client etcd 客户端，用作跨进程共享的令牌存储后端
type Client struct {
	*clientv3.Client
	config *Config
}

// New 按配置连接 etcd 并检查第一个端点的状态
func New(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.init(); err != nil {
		return nil, err
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:            cfg.Endpoints,
		Username:             cfg.Username,
		Password:             cfg.Password,
		DialTimeout:          cfg.DialTimeout,
		DialKeepAliveTime:    cfg.KeepAliveTime,
		DialKeepAliveTimeout: cfg.KeepAliveTimeout,
		MaxCallSendMsgSize:   cfg.MaxSendMsgSize,
		MaxCallRecvMsgSize:   cfg.MaxRecvMsgSize,
	})
	if err != nil {
		return nil, kiterrors.Wrap(err, kiterrors.UnknownCode, "connect etcd %v", cfg.Endpoints)
	}

	c := &Client{Client: cli, config: cfg}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, kiterrors.Wrap(err, kiterrors.Unavailable, "ping etcd %v", cfg.Endpoints)
	}
	return c, nil
}

// Ping 在 RequestTimeout 内查询第一个端点的状态
func (c *Client) Ping(ctx context.Context) error {
	if c.Client == nil {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	_, err := c.Status(ctx, c.config.Endpoints[0])
	return err
}

// TokenStore 以 cfg.KeyPrefix 为前缀的令牌存储
func (c *Client) TokenStore(opts ...TokenStoreOption) *TokenStore {
	return NewTokenStore(c, opts...)
}

// Close 可重复调用
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}
	err := c.Client.Close()
	c.Client = nil
	return err
}
