package redis

import (
	"context"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kochabx/apiclient/log"
)

// DebugHook 调试钩子（日志记录 + 慢查询检测）
//
// 只记录命令名和键，不记录参数，令牌值不会进入日志。
type DebugHook struct {
	logger          *log.Logger
	slowQueryThresh time.Duration // 0 表示不检测慢查询
}

// NewDebugHook 创建调试 Hook
func NewDebugHook(logger *log.Logger, slowQueryThresh time.Duration) *DebugHook {
	return &DebugHook{
		logger:          logger,
		slowQueryThresh: slowQueryThresh,
	}
}

func (h *DebugHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		duration := time.Since(start)

		if err != nil {
			h.logger.Error().Str("network", network).Str("addr", addr).Dur("duration", duration).Err(err).Msg("redis dial failed")
		} else {
			h.logger.Debug().Str("network", network).Str("addr", addr).Dur("duration", duration).Msg("redis dial success")
		}
		return conn, err
	}
}

func (h *DebugHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		duration := time.Since(start)

		var event *zerolog.Event
		switch {
		case h.slowQueryThresh > 0 && duration > h.slowQueryThresh:
			event = h.logger.Warn().Dur("threshold", h.slowQueryThresh)
		case err != nil && err != redis.Nil:
			event = h.logger.Warn().Err(err)
		default:
			event = h.logger.Debug()
		}
		event.Str("cmd", cmd.FullName()).Str("key", commandKey(cmd)).Dur("duration", duration).Msg("redis command")
		return err
	}
}

func (h *DebugHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		duration := time.Since(start)

		var event *zerolog.Event
		switch {
		case h.slowQueryThresh > 0 && duration > h.slowQueryThresh:
			event = h.logger.Warn().Dur("threshold", h.slowQueryThresh)
		case err != nil:
			event = h.logger.Warn().Err(err)
		default:
			event = h.logger.Debug()
		}
		event.Int("commands", len(cmds)).Dur("duration", duration).Msg("redis pipeline")
		return err
	}
}

// commandKey 返回命令的第一个参数（通常是键）
func commandKey(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) < 2 {
		return ""
	}
	key, _ := args[1].(string)
	return key
}
