package api

import (
	"context"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/kochabx/apiclient/config"
	"github.com/kochabx/apiclient/core/auth/bearer"
	kithttp "github.com/kochabx/apiclient/core/net/http"
	"github.com/kochabx/apiclient/core/validator"
	"github.com/kochabx/apiclient/errors"
	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/store/etcd"
	"github.com/kochabx/apiclient/store/redis"
)

// EnvPrefix 环境变量前缀，例如 APICLIENT_API_BASE_URL 覆盖 api.base_url
const EnvPrefix = "APICLIENT"

// 令牌存储类型
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreEtcd   = "etcd"
)

// Settings 配置文件结构
//
//	api:
//	  base_url: https://api.example.com
//	log:
//	  level: info
//	store:
//	  type: file
//	  file: /var/lib/app/auth.json
type Settings struct {
	API   Config      `json:"api" mapstructure:"api"`
	Log   log.Config  `json:"log" mapstructure:"log"`
	Store StoreConfig `json:"store" mapstructure:"store"`
}

// StoreConfig 令牌存储配置
type StoreConfig struct {
	Type  string       `json:"type" mapstructure:"type" default:"memory" validate:"oneof=memory file redis etcd"`
	File  string       `json:"file" mapstructure:"file" default:"auth.json"`
	Redis redis.Config `json:"redis" mapstructure:"redis"`
	Etcd  etcd.Config  `json:"etcd" mapstructure:"etcd"`
}

// LoadConfig 从 paths 中查找名为 name 的配置文件（如 "config.yaml"）并加载，
// 未指定 paths 时在当前目录查找。环境变量以 EnvPrefix 为前缀覆盖文件中的值。
func LoadConfig(name string, paths ...string) (*Settings, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	s := new(Settings)
	v := viper.New()
	loader := config.NewFileLoader(name, paths, v, validator.Validate, config.WithEnvPrefix(EnvPrefix))
	if err := config.New(s, config.WithViper(v), config.WithLoader(loader), config.WithWatch(false)).Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Logger 按 Log 配置创建日志记录器
func (s *Settings) Logger() (*log.Logger, error) {
	return log.NewFromConfig(s.Log)
}

// OpenStore 按 Store 配置打开令牌存储，返回的 close 用于释放连接
func (s *Settings) OpenStore(ctx context.Context) (bearer.Store, func() error, error) {
	noop := func() error { return nil }

	switch s.Store.Type {
	case "", StoreMemory:
		return TokenStore(), noop, nil
	case StoreFile:
		return bearer.NewFileStore(filepath.Clean(s.Store.File)), noop, nil
	case StoreRedis:
		client, err := redis.New(ctx, &s.Store.Redis)
		if err != nil {
			return nil, nil, err
		}
		return client.TokenStore(), client.Close, nil
	case StoreEtcd:
		client, err := etcd.New(ctx, &s.Store.Etcd)
		if err != nil {
			return nil, nil, err
		}
		return client.TokenStore(), client.Close, nil
	default:
		return nil, nil, errors.BadRequest("unsupported token store %q", s.Store.Type)
	}
}

// Client 由 Settings.Open 创建的客户端，Close 释放令牌存储连接与日志文件
type Client struct {
	*kithttp.Client
	close func() error
}

func (c *Client) Close() error {
	return c.close()
}

// Open 根据 Settings 创建客户端，令牌存储、日志均取自配置，opts 可覆盖
func (s *Settings) Open(ctx context.Context, opts ...Option) (*Client, error) {
	logger, err := s.Logger()
	if err != nil {
		return nil, err
	}
	store, closeStore, err := s.OpenStore(ctx)
	if err != nil {
		return nil, err
	}

	opts = append([]Option{WithLogger(logger), WithStore(store)}, opts...)
	client, err := New(s.API, opts...)
	if err != nil {
		_ = closeStore()
		_ = logger.Close()
		return nil, err
	}
	return &Client{Client: client, close: func() error {
		return errors.Join(closeStore(), logger.Close())
	}}, nil
}
