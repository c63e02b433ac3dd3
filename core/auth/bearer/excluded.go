package bearer

import (
	"slices"
	"strings"
)

// ExcludedPaths 不需要携带令牌的 URL 片段
//
// 匹配规则是子串包含：URL 中出现任一片段即视为排除，
// 因此 "/login" 同样会排除 "/api/login" 和 "/login?next=/home"。
type ExcludedPaths []string

// DefaultExcludedPaths 返回默认的排除列表
func DefaultExcludedPaths() ExcludedPaths {
	return ExcludedPaths{"/login", "/register", "/status", "/activate", "/health"}
}

// NewExcludedPaths 复制 paths，并忽略空片段（空串会匹配任意 URL）
func NewExcludedPaths(paths ...string) ExcludedPaths {
	excluded := make(ExcludedPaths, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			excluded = append(excluded, p)
		}
	}
	return slices.Clip(excluded)
}

// Match 判断 url 是否包含任一排除片段
func (e ExcludedPaths) Match(url string) bool {
	for _, p := range e {
		if p != "" && strings.Contains(url, p) {
			return true
		}
	}
	return false
}
