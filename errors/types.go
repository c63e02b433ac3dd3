package errors

import "net/http"

// 错误码沿用 HTTP 状态码
const (
	UnknownCode     = http.StatusInternalServerError
	InvalidArgument = http.StatusBadRequest
	NotFoundCode    = http.StatusNotFound
	Unavailable     = http.StatusServiceUnavailable
)

// Code 返回 err 链中第一个 *Error 的错误码，err 为 nil 时返回 0，其它错误返回 UnknownCode
func Code(err error) int {
	if err == nil {
		return 0
	}
	var ge *Error
	if As(err, &ge) {
		return ge.Code
	}
	return UnknownCode
}

// IsCode 报告 err 链中的 *Error 是否带有指定错误码
func IsCode(err error, code int) bool {
	return err != nil && Code(err) == code
}

// BadRequest 参数或配置不合法
func BadRequest(format string, args ...any) *Error {
	return New(InvalidArgument, format, args...)
}

// NotFound 资源不存在
func NotFound(format string, args ...any) *Error {
	return New(NotFoundCode, format, args...)
}

// ServiceUnavailable 依赖的外部服务不可用
func ServiceUnavailable(format string, args ...any) *Error {
	return New(Unavailable, format, args...)
}

// Internal 内部错误
func Internal(format string, args ...any) *Error {
	return New(UnknownCode, format, args...)
}
