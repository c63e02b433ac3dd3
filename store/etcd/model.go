package etcd

import (
	"time"

	"github.com/kochabx/apiclient/core/tag"
)

// Config ETCD 配置
type Config struct {
	Endpoints        []string      `json:"endpoints" mapstructure:"endpoints" default:"localhost:2379"`
	Username         string        `json:"username" mapstructure:"username"`
	Password         string        `json:"password" mapstructure:"password"`
	DialTimeout      time.Duration `json:"dial_timeout" mapstructure:"dial_timeout" default:"5s"`
	KeepAliveTime    time.Duration `json:"keep_alive_time" mapstructure:"keep_alive_time" default:"30s"`
	KeepAliveTimeout time.Duration `json:"keep_alive_timeout" mapstructure:"keep_alive_timeout" default:"5s"`
	RequestTimeout   time.Duration `json:"request_timeout" mapstructure:"request_timeout" default:"3s"`
	MaxSendMsgSize   int           `json:"max_send_msg_size" mapstructure:"max_send_msg_size" default:"2097152"` // 2MB
	MaxRecvMsgSize   int           `json:"max_recv_msg_size" mapstructure:"max_recv_msg_size" default:"4194304"` // 4MB
	// KeyPrefix TokenStore 的键前缀
	KeyPrefix string `json:"key_prefix" mapstructure:"key_prefix" default:"/apiclient/"`
}

func (c *Config) init() error {
	if err := tag.ApplyDefaults(c); err != nil {
		return err
	}
	if len(c.Endpoints) == 0 {
		return ErrNoEndpoints
	}
	return nil
}
