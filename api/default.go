package api

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/kochabx/apiclient/core/auth/bearer"
	kithttp "github.com/kochabx/apiclient/core/net/http"
)

// ErrAlreadyInitialized 共享客户端已创建
var ErrAlreadyInitialized = errors.New("api: default client already initialized")

var (
	mu         sync.Mutex
	shared     atomic.Pointer[kithttp.Client]
	tokenStore = bearer.NewMemoryStore()
)

// Init 用 cfg 创建进程级共享客户端，只能成功调用一次，
// 且必须早于第一次 Default 调用。
func Init(cfg Config, opts ...Option) error {
	mu.Lock()
	defer mu.Unlock()

	if shared.Load() != nil {
		return ErrAlreadyInitialized
	}

	client, err := New(cfg, opts...)
	if err != nil {
		return err
	}
	shared.Store(client)
	return nil
}

// Default 返回进程级共享客户端；未调用 Init 时以 DefaultConfig 和 TokenStore 创建
func Default() *kithttp.Client {
	if client := shared.Load(); client != nil {
		return client
	}

	mu.Lock()
	defer mu.Unlock()

	if client := shared.Load(); client != nil {
		return client
	}
	client := build(DefaultConfig().clone(), &options{})
	shared.Store(client)
	return client
}

// TokenStore 返回进程级的令牌存储，未指定 store 的客户端从这里读取令牌
func TokenStore() *bearer.MemoryStore {
	return tokenStore
}
