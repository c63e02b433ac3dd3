package redis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/apiclient/log"
)

type countingHook struct {
	calls atomic.Int32
}

func (h *countingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *countingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.calls.Add(1)
		return next(ctx, cmd)
	}
}

func (h *countingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestApplyOptions(t *testing.T) {
	hook := &countingHook{}
	o := applyOptions([]Option{WithHooks(hook), WithTracing(), nil, WithDebug(time.Second)})

	assert.Len(t, o.hooks, 1)
	assert.True(t, o.enableTracing)
	assert.False(t, o.enableMetrics)
	assert.True(t, o.enableDebug)
	assert.Equal(t, time.Second, o.slowQueryThresh)
}

// 命令失败时 hook 依然被调用，无需真实的 redis
func TestInstrument_HooksAndTracing(t *testing.T) {
	hook := &countingHook{}
	c := &Client{
		client: redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:       []string{"127.0.0.1:1"},
			DialTimeout: 100 * time.Millisecond,
			MaxRetries:  -1,
		}),
		logger: log.G,
	}
	t.Cleanup(func() { c.client.Close() })

	require.NoError(t, c.instrument(applyOptions([]Option{WithHooks(hook), WithTracing()})))

	err := c.client.Get(context.Background(), "token").Err()
	assert.Error(t, err)
	assert.Equal(t, int32(1), hook.calls.Load())
}
