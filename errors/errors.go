package errors

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Error 带错误码、消息、元数据和原因链的结构化错误
//
// Error 不可变，WithMetadata 和 WithCause 均返回新实例。
type Error struct {
	Status
	cause error
}

// Status 可序列化的错误状态
type Status struct {
	Code     int               `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Error 返回 "code=.., message=..[, metadata={k=v, ..}][, cause=..]"，元数据按键排序
func (e *Error) Error() string {
	var msg strings.Builder
	msg.WriteString("code=")
	msg.WriteString(strconv.Itoa(e.Code))
	msg.WriteString(", message=")
	msg.WriteString(e.Message)

	if len(e.Metadata) > 0 {
		msg.WriteString(", metadata={")
		for i, k := range slices.Sorted(maps.Keys(e.Metadata)) {
			if i > 0 {
				msg.WriteString(", ")
			}
			msg.WriteString(k)
			msg.WriteByte('=')
			msg.WriteString(e.Metadata[k])
		}
		msg.WriteByte('}')
	}

	if e.cause != nil {
		msg.WriteString(", cause=")
		msg.WriteString(e.cause.Error())
	}
	return msg.String()
}

// Unwrap 返回原因
func (e *Error) Unwrap() error {
	return e.cause
}

// Is 错误码和消息都相同时视为同一错误
func (e *Error) Is(err error) bool {
	var ge *Error
	if As(err, &ge) {
		return e.Code == ge.Code && e.Message == ge.Message
	}
	return false
}

// WithMetadata 返回合并了元数据的新错误
func (e *Error) WithMetadata(m map[string]string) *Error {
	if len(m) == 0 {
		return e
	}

	err := e.clone()
	if err.Metadata == nil {
		err.Metadata = make(map[string]string, len(m))
	}
	maps.Copy(err.Metadata, m)
	return err
}

// WithCause 返回带原因的新错误
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}

	err := e.clone()
	err.cause = cause
	return err
}

func (e *Error) clone() *Error {
	return &Error{
		Status: Status{
			Code:     e.Code,
			Message:  e.Message,
			Metadata: maps.Clone(e.Metadata),
		},
		cause: e.cause,
	}
}

// New 创建错误，args 为空时 format 原样作为消息
func New(code int, format string, args ...any) *Error {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	return &Error{
		Status: Status{
			Code:    code,
			Message: message,
		},
	}
}

// Wrap 为 err 附加上下文，err 为 nil 时返回 nil
//
// 返回值是 *Error，不要把 nil 的 Wrap 结果直接作为 error 接口返回。
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return New(code, format, args...).WithCause(err)
}

// FromError 将任意错误转换为 *Error，链中已有 *Error 时返回最外层的那个
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var ge *Error
	if As(err, &ge) {
		return ge
	}
	return New(UnknownCode, "%v", err).WithCause(err)
}
