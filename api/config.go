package api

import (
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/kochabx/apiclient/core/tag"
	"github.com/kochabx/apiclient/core/validator"
	"github.com/kochabx/apiclient/errors"
)

// Config API 客户端配置
type Config struct {
	// BaseURL 相对路径请求拼接的基础地址
	BaseURL string `json:"base_url" mapstructure:"base_url" default:"http://localhost:8080" validate:"required,url"`

	// Headers 每个请求都携带的默认请求头
	Headers map[string]string `json:"headers" mapstructure:"headers" default:"Content-Type:application/json,Accept:application/json"`

	// ExcludedPaths URL 包含其中任一片段时不携带令牌
	ExcludedPaths []string `json:"excluded_paths" mapstructure:"excluded_paths" default:"/login,/register,/status,/activate,/health" validate:"dive,required"`

	// TokenKey 令牌在存储中的键
	TokenKey string `json:"token_key" mapstructure:"token_key" default:"token" validate:"required"`

	// LoginPath 收到 401 后跳转的路径
	LoginPath string `json:"login_path" mapstructure:"login_path" default:"/login" validate:"required,urlpath"`

	// Timeout 单个请求的超时时间，零值取默认的 30s
	Timeout time.Duration `json:"timeout" mapstructure:"timeout" default:"30s" validate:"gte=0"`
}

// DefaultConfig 返回全部取默认值的配置
func DefaultConfig() Config {
	var c Config
	_ = tag.ApplyDefaults(&c) // 标签值为常量，TestDefaultConfig 覆盖
	return c
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validator.Validate.Struct(c); err != nil {
		return errors.Wrap(err, errors.InvalidArgument, "invalid api config")
	}
	return nil
}

// clone 深拷贝，构造后的客户端不受调用方后续修改影响
func (c Config) clone() Config {
	c.ExcludedPaths = slices.Clone(c.ExcludedPaths)

	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	c.Headers = headers
	return c
}

// headers 返回规范化的默认请求头副本
func (c *Config) headers() map[string]string {
	return maps.Clone(c.Headers)
}
