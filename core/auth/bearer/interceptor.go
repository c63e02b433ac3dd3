package bearer

import (
	"net/http"

	kithttp "github.com/kochabx/apiclient/core/net/http"
)

// Scheme Authorization 头的认证方案
const Scheme = "Bearer"

// Interceptor 返回请求拦截器：URL 命中排除列表时跳过；
// 否则读取令牌，非空则设置 "Authorization: Bearer <token>"。
//
// 令牌在每次请求时读取。provider 的错误会中断请求并原样返回。
func Interceptor(provider TokenProvider, excluded ExcludedPaths) kithttp.RequestInterceptor {
	excluded = NewExcludedPaths(excluded...)

	return func(req *http.Request) error {
		if excluded.Match(kithttp.RequestURL(req)) {
			return nil
		}

		token, err := provider.Token(req.Context())
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set(kithttp.HeaderAuthorization, Scheme+" "+token)
		}
		return nil
	}
}
