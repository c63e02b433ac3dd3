package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/kochabx/apiclient/core/tag"
	"github.com/kochabx/apiclient/errors"
	"github.com/kochabx/apiclient/log/desensitize"
	"github.com/kochabx/apiclient/log/writer"
)

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	desensitizeHook *desensitize.Hook
	writer          io.Writer
	closer          io.Closer // 用于资源清理
}

// GetDesensitizeHook 获取脱敏钩子，未启用脱敏时为 nil
func (l *Logger) GetDesensitizeHook() *desensitize.Hook {
	return l.desensitizeHook
}

// Close 关闭日志记录器，释放资源
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func init() {
	// 初始化全局日志配置
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// NewWithWriter 创建输出到 w 的 Logger，w 接收 JSON 行
func NewWithWriter(w io.Writer, opts ...Option) *Logger {
	return newLogger(w, opts...)
}

// newLogger 统一的 Logger 构建方法
func newLogger(w io.Writer, opts ...Option) *Logger {
	logger := &Logger{
		writer: w,
		Logger: zerolog.New(w).With().Timestamp().Logger(),
	}

	// 应用所有选项
	for _, opt := range opts {
		opt(logger)
	}

	// 脱敏 writer 包在最外层，选项需要在新的 Logger 上重放
	if logger.desensitizeHook != nil {
		dw := desensitize.NewWriter(w, logger.desensitizeHook)
		logger.Logger = zerolog.New(dw).With().Timestamp().Logger()
		for _, opt := range opts {
			opt(logger)
		}
	}

	return logger
}

// New 创建新的 Logger 实例，输出到控制台
func New(opts ...Option) *Logger {
	return newLogger(writer.Console(nil), opts...)
}

// NewFile 创建文件输出的 Logger
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	// 应用默认配置
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "apply log file defaults")
	}

	w, err := writer.File(c.toWriterConfig())
	if err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "create log file writer")
	}

	logger := newLogger(w, opts...)
	logger.closer = w
	return logger, nil
}

// NewMulti 创建同时输出到文件和控制台的 Logger
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	// 应用默认配置
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "apply log file defaults")
	}

	fw, err := writer.File(c.toWriterConfig())
	if err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "create log file writer")
	}

	logger := newLogger(zerolog.MultiLevelWriter(fw, writer.Console(nil)), opts...)
	logger.closer = fw
	return logger, nil
}

// NewFromConfig 按 Config 创建 Logger
func NewFromConfig(c Config, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "apply log defaults")
	}

	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "parse log level %q", c.Level)
	}
	opts = append([]Option{WithLevel(level)}, opts...)
	if c.Desensitize == nil || *c.Desensitize {
		hook := desensitize.NewHook()
		hook.AddBuiltin(desensitize.BuiltinRules()...)
		opts = append(opts, WithDesensitize(hook))
	}

	switch c.Output {
	case OutputConsole:
		return New(opts...), nil
	case OutputFile:
		return NewFile(c.File, opts...)
	case OutputMulti:
		return NewMulti(c.File, opts...)
	default:
		return nil, errors.New(errors.UnknownCode, "unsupported log output %q", c.Output)
	}
}
