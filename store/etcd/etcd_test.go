package etcd

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/apiclient/core/auth/bearer"
)

// getTestEndpoint 获取测试用的 etcd 端点
func getTestEndpoint() string {
	if endpoint := os.Getenv("ETCD_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	return "localhost:2379"
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	e, err := New(context.Background(), &Config{
		Endpoints:      []string{getTestEndpoint()},
		DialTimeout:    time.Second,
		RequestTimeout: time.Second,
		KeyPrefix:      "/apiclient/test/",
	})
	if err != nil {
		t.Skipf("Skipping test (etcd not available): %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestConfig_init(t *testing.T) {
	c := &Config{Endpoints: []string{"custom:2379"}, Password: "secret"}
	require.NoError(t, c.init())

	assert.Equal(t, []string{"custom:2379"}, c.Endpoints)
	assert.Equal(t, "secret", c.Password)
	assert.Equal(t, 5*time.Second, c.DialTimeout)
	assert.Equal(t, 30*time.Second, c.KeepAliveTime)
	assert.Equal(t, 3*time.Second, c.RequestTimeout)
	assert.Equal(t, 2097152, c.MaxSendMsgSize)
	assert.Equal(t, "/apiclient/", c.KeyPrefix)

	empty := &Config{}
	require.NoError(t, empty.init())
	assert.Equal(t, []string{"localhost:2379"}, empty.Endpoints)
}

func TestConfig_NoEndpoints(t *testing.T) {
	c := &Config{Endpoints: []string{}}
	assert.ErrorIs(t, c.init(), ErrNoEndpoints)
}

func TestPing_NotConnected(t *testing.T) {
	c := &Client{config: &Config{}}
	assert.ErrorIs(t, c.Ping(context.Background()), ErrNotConnected)
	assert.NoError(t, c.Close())
}

func TestTokenStore(t *testing.T) {
	e := newTestClient(t)
	store := e.TokenStore()
	ctx := context.Background()
	t.Cleanup(func() { store.Delete(ctx, "token") })

	_, err := store.Get(ctx, "token")
	assert.ErrorIs(t, err, bearer.ErrNotFound)

	require.NoError(t, store.Set(ctx, "token", "abc"))
	token, err := bearer.FromStore(store, "token").Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	resp, err := e.Client.Get(ctx, "/apiclient/test/token")
	require.NoError(t, err)
	require.Len(t, resp.Kvs, 1)

	require.NoError(t, store.Delete(ctx, "token"))
	_, err = store.Get(ctx, "token")
	assert.ErrorIs(t, err, bearer.ErrNotFound)
}

func TestTokenStore_TTL(t *testing.T) {
	e := newTestClient(t)
	store := e.TokenStore(WithTTL(1500 * time.Millisecond))
	ctx := context.Background()
	t.Cleanup(func() { store.Delete(ctx, "ttl") })

	require.NoError(t, store.Set(ctx, "ttl", "abc"))
	resp, err := e.Get(ctx, "/apiclient/test/ttl")
	require.NoError(t, err)
	require.Len(t, resp.Kvs, 1)
	assert.NotZero(t, resp.Kvs[0].Lease)
}
