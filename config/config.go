package config

import (
	"reflect"
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/apiclient/core/validator"
	"github.com/kochabx/apiclient/errors"
	"github.com/kochabx/apiclient/log"
)

// Config 将配置源加载到 target，target 必须是结构体指针
//
// 每次加载都解码到一个新的零值中，成功后才整体替换 target，
// 因此失败的重载不会留下半更新的配置，文件中删除的键也会回到默认值。
type Config struct {
	mu       sync.RWMutex
	viper    *viper.Viper
	validate validator.Validator
	target   any
	loader   Loader
	watch    bool
	onChange []func()
}

// New 创建 Config，未指定 loader 时在当前目录查找 config.yaml
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Validate,
		target:   target,
		watch:    true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader("config.yaml", []string{"."}, c.viper, c.validate)
	}
	return c
}

// Load 加载配置并替换 target
func (c *Config) Load() error {
	dst := reflect.ValueOf(c.target)
	if dst.Kind() != reflect.Pointer || dst.IsNil() {
		return errors.BadRequest("config target must be a non-nil pointer, got %T", c.target)
	}

	fresh := reflect.New(dst.Type().Elem())
	if err := c.loader.Load(fresh.Interface()); err != nil {
		return err
	}

	c.mu.Lock()
	dst.Elem().Set(fresh.Elem())
	c.mu.Unlock()
	return nil
}

// Reload 重新加载，成功后依次调用 WithOnChange 注册的回调
func (c *Config) Reload() error {
	if err := c.Load(); err != nil {
		return err
	}
	for _, fn := range c.onChange {
		fn()
	}
	return nil
}

// Read 在读锁内执行 fn，读取 target 时不会与重载交错
func (c *Config) Read(fn func()) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn()
}

// Watch 监听配置文件变化并自动重载，WithWatch(false) 时不做任何事
func (c *Config) Watch() error {
	if !c.watch {
		return nil
	}

	return c.loader.Watch(func() {
		if err := c.Reload(); err != nil {
			log.Error().Err(err).Msg("config reload failed, keeping previous values")
			return
		}
		log.Info().Msg("config reloaded")
	})
}

// GetViper 返回底层 viper 实例
func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
