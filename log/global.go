package log

import (
	"github.com/rs/zerolog"
)

// G 全局日志实例，未注入 Logger 的组件都写入这里
var G = New()

// SetGlobalLogger 替换全局日志记录器并返回之前的实例，应在启动阶段调用
func SetGlobalLogger(logger *Logger) *Logger {
	prev := G
	G = logger
	return prev
}

// SetGlobalLevel 只调整 G 的级别，不影响其它 Logger
func SetGlobalLevel(level zerolog.Level) {
	G.Logger = G.Logger.Level(level)
}

func Debug() *zerolog.Event {
	return G.Debug()
}

func Info() *zerolog.Event {
	return G.Info()
}

func Warn() *zerolog.Event {
	return G.Warn()
}

// Error 带堆栈的 error 事件，堆栈仅对 pkg/errors 风格的错误生效
func Error() *zerolog.Event {
	return G.Error().Stack()
}

func Debugf(format string, args ...any) {
	G.Debug().Msgf(format, args...)
}

func Infof(format string, args ...any) {
	G.Info().Msgf(format, args...)
}

func Warnf(format string, args ...any) {
	G.Warn().Msgf(format, args...)
}

func Errorf(format string, args ...any) {
	G.Error().Stack().Msgf(format, args...)
}
