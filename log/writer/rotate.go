package writer

import (
	"io"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kochabx/apiclient/errors"
)

// RotateMode 日志轮转模式，配置文件中写作 "time" 或 "size"
type RotateMode string

const (
	// RotateModeTime 按时间轮转（file-rotatelogs）
	RotateModeTime RotateMode = "time"
	// RotateModeSize 按大小轮转（lumberjack）
	RotateModeSize RotateMode = "size"
)

// timeRotateWriter 文件名带 %Y%m%d%H%M 后缀，并维护一个指向当前文件的软链接
func timeRotateWriter(c RotateConfig) (io.WriteCloser, error) {
	w, err := rotatelogs.New(
		c.path("%Y%m%d%H%M"),
		rotatelogs.WithLinkName(c.path("")),
		rotatelogs.WithMaxAge(c.Time.MaxAge),
		rotatelogs.WithRotationTime(c.Time.RotationTime),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "create time rotate writer %s", c.path(""))
	}
	return w, nil
}

func sizeRotateWriter(c RotateConfig) (io.WriteCloser, error) {
	return &lumberjack.Logger{
		Filename:   c.path(""),
		MaxSize:    c.Size.MaxSize,
		MaxBackups: c.Size.MaxBackups,
		MaxAge:     c.Size.MaxAge,
		Compress:   c.Size.Compress,
	}, nil
}

// TimeRotateConfig 按时间轮转配置
type TimeRotateConfig struct {
	MaxAge       time.Duration // 日志保留时间
	RotationTime time.Duration // 轮转间隔
}

// SizeRotateConfig 按大小轮转配置
type SizeRotateConfig struct {
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // 天
	Compress   bool
}
