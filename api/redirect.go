package api

import "github.com/kochabx/apiclient/log"

// Redirector 由宿主应用提供的跳转能力，例如跳到登录页
type Redirector interface {
	Redirect(path string)
}

// RedirectFunc 函数适配器
type RedirectFunc func(path string)

func (f RedirectFunc) Redirect(path string) {
	f(path)
}

// LogRedirector 只记录跳转请求，用于没有界面的进程
type LogRedirector struct {
	Logger *log.Logger
}

func (r LogRedirector) Redirect(path string) {
	logger := r.Logger
	if logger == nil {
		logger = log.G
	}
	logger.Warn().Str("path", path).Msg("authentication required, redirecting")
}
