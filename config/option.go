package config

import (
	"github.com/spf13/viper"

	"github.com/kochabx/apiclient/core/validator"
)

type Option func(*Config)

// WithViper 使用外部的 viper 实例，需要与 loader 使用同一个实例
func WithViper(v *viper.Viper) Option {
	return func(c *Config) {
		c.viper = v
	}
}

// WithValidator 设置默认 loader 使用的校验器
func WithValidator(v validator.Validator) Option {
	return func(c *Config) {
		c.validate = v
	}
}

func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.loader = loader
	}
}

// WithWatch 是否允许 Watch 监听配置变化，默认允许
func WithWatch(enable bool) Option {
	return func(c *Config) {
		c.watch = enable
	}
}

// WithOnChange 注册重载成功后的回调，可多次调用
func WithOnChange(fn func()) Option {
	return func(c *Config) {
		c.onChange = append(c.onChange, fn)
	}
}
