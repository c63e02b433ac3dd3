package bearer

import (
	"context"

	"github.com/kochabx/apiclient/errors"
)

// TokenProvider 提供当前访问令牌
//
// 空字符串表示没有令牌，请求将不携带 Authorization 头。
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// ProviderFunc 函数适配器
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static 始终返回固定令牌
func Static(token string) TokenProvider {
	return ProviderFunc(func(context.Context) (string, error) {
		return token, nil
	})
}

// FromStore 每次调用时从 store 读取 key 对应的令牌，不做缓存
func FromStore(store Store, key string) TokenProvider {
	return ProviderFunc(func(ctx context.Context) (string, error) {
		token, err := store.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", errors.Wrap(err, errors.UnknownCode, "read token %q", key)
		}
		return token, nil
	})
}
