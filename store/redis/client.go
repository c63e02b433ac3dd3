package redis

import (
	"context"
	"errors"
	"runtime"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	kiterrors "github.com/kochabx/apiclient/errors"
	"github.com/kochabx/apiclient/log"
)

var (
	ErrInvalidConfig  = errors.New("redis: invalid configuration")
	ErrEmptyAddrs     = errors.New("redis: addrs cannot be empty")
	ErrInvalidTimeout = errors.New("redis: invalid timeout value")
)

// Mode 部署模式，由 Config 推断
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeCluster  Mode = "cluster"
	ModeSentinel Mode = "sentinel"
)

// Client 持有 redis.UniversalClient，用作跨进程共享的令牌存储后端
type Client struct {
	client redis.UniversalClient
	config *Config
	logger *log.Logger
}

// New 按配置创建客户端并 Ping，失败时连接已被关闭
func New(ctx context.Context, cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, kiterrors.Wrap(err, kiterrors.UnknownCode, "apply redis defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	c := &Client{
		client: redis.NewUniversalClient(universalOptions(cfg)),
		config: cfg,
		logger: o.logger,
	}
	if c.logger == nil {
		c.logger = log.G
	}

	if err := c.instrument(o); err != nil {
		_ = c.client.Close()
		return nil, err
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.client.Close()
		return nil, kiterrors.Wrap(err, kiterrors.Unavailable, "ping redis %v", cfg.Addrs)
	}

	c.logger.Debug().Str("mode", string(cfg.Mode())).Strs("addrs", cfg.Addrs).Msg("redis connected")
	return c, nil
}

func universalOptions(cfg *Config) *redis.UniversalOptions {
	poolSize := cfg.PoolSize
	if poolSize == 0 {
		poolSize = 10 * runtime.GOMAXPROCS(0)
	}

	return &redis.UniversalOptions{
		Addrs:           cfg.Addrs,
		MasterName:      cfg.MasterName,
		Username:        cfg.Username,
		Password:        cfg.Password,
		DB:              cfg.DB,
		Protocol:        cfg.Protocol,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		PoolSize:        poolSize,
		MinIdleConns:    cfg.MinIdleConns,
		ConnMaxIdleTime: cfg.MaxIdleTime,
		PoolTimeout:     cfg.PoolTimeout,
		MaxRetries:      cfg.MaxRetries,
		TLSConfig:       cfg.TLSConfig,
	}
}

// instrument 按选项挂载 hook，调试 hook 最后挂载以便看到其它 hook 的耗时
func (c *Client) instrument(o *clientOptions) error {
	for _, hook := range o.hooks {
		c.client.AddHook(hook)
	}
	if o.enableTracing {
		if err := redisotel.InstrumentTracing(c.client, o.tracingOpts...); err != nil {
			return kiterrors.Wrap(err, kiterrors.UnknownCode, "instrument redis tracing")
		}
	}
	if o.enableMetrics {
		if err := redisotel.InstrumentMetrics(c.client, o.metricsOpts...); err != nil {
			return kiterrors.Wrap(err, kiterrors.UnknownCode, "instrument redis metrics")
		}
	}
	if o.enableDebug {
		c.client.AddHook(NewDebugHook(c.logger, o.slowQueryThresh))
	}
	return nil
}

// UniversalClient 返回底层客户端
func (c *Client) UniversalClient() redis.UniversalClient {
	return c.client
}

// TokenStore 以 cfg.KeyPrefix 为前缀的令牌存储
func (c *Client) TokenStore(opts ...TokenStoreOption) *TokenStore {
	return NewTokenStore(c, opts...)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.client.Close()
}
