package redis

import (
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/kochabx/apiclient/log"
)

type Option func(*clientOptions)

type clientOptions struct {
	hooks  []redis.Hook
	logger *log.Logger

	enableTracing bool
	tracingOpts   []redisotel.TracingOption
	enableMetrics bool
	metricsOpts   []redisotel.MetricsOption

	enableDebug     bool
	slowQueryThresh time.Duration
}

func WithHooks(hooks ...redis.Hook) Option {
	return func(o *clientOptions) {
		o.hooks = append(o.hooks, hooks...)
	}
}

// WithTracing 通过 redisotel 为每条命令创建 span
func WithTracing(opts ...redisotel.TracingOption) Option {
	return func(o *clientOptions) {
		o.enableTracing = true
		o.tracingOpts = opts
	}
}

// WithMetrics 通过 redisotel 上报连接池和命令耗时指标
func WithMetrics(opts ...redisotel.MetricsOption) Option {
	return func(o *clientOptions) {
		o.enableMetrics = true
		o.metricsOpts = opts
	}
}

// WithDebug 以 debug 级别记录命令名和键，耗时超过 slow 的命令以 warn 级别记录
func WithDebug(slow ...time.Duration) Option {
	return func(o *clientOptions) {
		o.enableDebug = true
		if len(slow) > 0 {
			o.slowQueryThresh = slow[0]
		}
	}
}

// WithLogger 默认 log.G
func WithLogger(logger *log.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) *clientOptions {
	o := &clientOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}
