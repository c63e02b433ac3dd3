package bearer

import "errors"

var (
	// ErrNotFound 存储中不存在该键
	ErrNotFound = errors.New("bearer: key not found")

	// ErrEmptyKey 键为空
	ErrEmptyKey = errors.New("bearer: empty key")
)
