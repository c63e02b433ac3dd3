package api

import (
	"net/http"

	kithttp "github.com/kochabx/apiclient/core/net/http"
	"github.com/kochabx/apiclient/log"
)

// 错误处理时输出的日志消息
const (
	MessageServerError = "Server error. Please try again later"
	MessageTimeout     = "Request timeout. Please try again."
)

// ErrorHandler 响应拦截器：按错误类型触发副作用，错误本身总是原样返回
//
//   - 401：跳转到登录页
//   - 500：记录服务端错误
//   - 无响应且超时：记录超时
type ErrorHandler struct {
	loginPath  string
	redirector Redirector
	logger     *log.Logger
}

// NewErrorHandler 创建 ErrorHandler，redirector 与 logger 为空时使用默认实现
func NewErrorHandler(loginPath string, redirector Redirector, logger *log.Logger) *ErrorHandler {
	if logger == nil {
		logger = log.G
	}
	if redirector == nil {
		redirector = LogRedirector{Logger: logger}
	}
	return &ErrorHandler{
		loginPath:  loginPath,
		redirector: redirector,
		logger:     logger,
	}
}

// Intercept 实现 kithttp.ResponseInterceptor
func (h *ErrorHandler) Intercept(resp *http.Response, err error) (*http.Response, error) {
	if err == nil {
		return resp, nil
	}

	if re, ok := kithttp.AsResponseError(err); ok {
		switch re.StatusCode() {
		case http.StatusUnauthorized:
			h.redirector.Redirect(h.loginPath)
		case http.StatusInternalServerError:
			event := h.logger.Error().Int("status", re.StatusCode())
			if re.Request != nil {
				event = event.Str("method", re.Request.Method).Str("path", re.Request.URL.Path)
			}
			event.Msg(MessageServerError)
		}
		return resp, err
	}

	if kithttp.IsTimeout(err) {
		h.logger.Error().Err(err).Msg(MessageTimeout)
	}
	return resp, err
}

// Interceptor 返回可注册到客户端的响应拦截器
func (h *ErrorHandler) Interceptor() kithttp.ResponseInterceptor {
	return h.Intercept
}
