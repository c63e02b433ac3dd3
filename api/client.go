package api

import (
	"net/http"

	"github.com/kochabx/apiclient/core/auth/bearer"
	kithttp "github.com/kochabx/apiclient/core/net/http"
	"github.com/kochabx/apiclient/core/net/http/metrics"
	"github.com/kochabx/apiclient/core/tag"
	"github.com/kochabx/apiclient/errors"
	"github.com/kochabx/apiclient/log"
)

// Option 构造选项
type Option func(*options)

type options struct {
	store      bearer.Store
	provider   bearer.TokenProvider
	redirector Redirector
	logger     *log.Logger
	httpClient *http.Client
	metrics    *metrics.Prometheus
	requestID  string
}

// WithStore 从 store 读取令牌，键为 Config.TokenKey
func WithStore(store bearer.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithTokenProvider 直接指定令牌来源，优先于 WithStore
func WithTokenProvider(provider bearer.TokenProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithRedirector 设置 401 时的跳转实现
func WithRedirector(r Redirector) Option {
	return func(o *options) {
		o.redirector = r
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient 使用自定义的 http.Client，传入的实例不会被修改
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithMetrics 记录响应与错误计数
func WithMetrics(p *metrics.Prometheus) Option {
	return func(o *options) {
		o.metrics = p
	}
}

// WithRequestID 为每个请求生成关联 ID，header 为空时使用 X-Request-Id
func WithRequestID(header string) Option {
	return func(o *options) {
		if header == "" {
			header = kithttp.HeaderRequestID
		}
		o.requestID = header
	}
}

// New 按配置构造客户端
//
// 请求拦截器依次为：请求 ID（可选）、令牌注入。
// 响应拦截器依次为：指标（可选）、错误处理。
func New(cfg Config, opts ...Option) (*kithttp.Client, error) {
	if err := tag.ApplyDefaults(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "apply api config defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return build(cfg.clone(), o), nil
}

func build(cfg Config, o *options) *kithttp.Client {
	logger := o.logger
	if logger == nil {
		logger = log.G
	}

	provider := o.provider
	if provider == nil {
		store := o.store
		if store == nil {
			store = TokenStore()
		}
		provider = bearer.FromStore(store, cfg.TokenKey)
	}

	clientOpts := []kithttp.Option{
		kithttp.WithBaseURL(cfg.BaseURL),
		kithttp.WithDefaultHeaders(cfg.headers()),
		kithttp.WithTimeout(cfg.Timeout),
		kithttp.WithLogger(logger),
	}
	if o.httpClient != nil {
		c := *o.httpClient
		clientOpts = append(clientOpts, kithttp.WithClient(&c))
	}

	if o.requestID != "" {
		clientOpts = append(clientOpts, kithttp.WithRequestInterceptor(kithttp.RequestID(o.requestID)))
	}
	clientOpts = append(clientOpts, kithttp.WithRequestInterceptor(
		bearer.Interceptor(provider, bearer.NewExcludedPaths(cfg.ExcludedPaths...)),
	))

	if o.metrics != nil {
		clientOpts = append(clientOpts, kithttp.WithResponseInterceptor(o.metrics.Interceptor()))
	}
	clientOpts = append(clientOpts, kithttp.WithResponseInterceptor(
		NewErrorHandler(cfg.LoginPath, o.redirector, logger).Interceptor(),
	))

	logger.Debug().Str("base_url", cfg.BaseURL).Strs("excluded_paths", cfg.ExcludedPaths).Msg("api client created")
	return kithttp.New(clientOpts...)
}
