package metrics

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	kithttp "github.com/kochabx/apiclient/core/net/http"
	"github.com/kochabx/apiclient/errors"
)

// Error kinds recorded by the errors counter
const (
	KindResponse  = "response"
	KindTimeout   = "timeout"
	KindTransport = "transport"
	KindOther     = "other"
)

// Prometheus counts API client outcomes into its own registry
type Prometheus struct {
	registry  *prometheus.Registry
	responses *prometheus.CounterVec
	errors    *prometheus.CounterVec
}

// New creates the collectors under namespace and registers them
func New(namespace string) *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api_client",
			Name:      "responses_total",
			Help:      "Responses received from the backend API by method and status code.",
		}, []string{"method", "code"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api_client",
			Name:      "errors_total",
			Help:      "Failed backend API calls by kind.",
		}, []string{"kind"}),
	}

	p.registry.MustRegister(p.responses, p.errors)
	return p
}

func (p *Prometheus) WithGoCollectorRuntimeMetrics() {
	p.registry.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/.*")}),
	))
}

func (p *Prometheus) WithBuildInfoCollector() {
	p.registry.MustRegister(collectors.NewBuildInfoCollector())
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Interceptor returns a response interceptor that records every outcome and
// passes it on untouched.
func (p *Prometheus) Interceptor() kithttp.ResponseInterceptor {
	return func(resp *http.Response, err error) (*http.Response, error) {
		p.observe(resp, err)
		return resp, err
	}
}

func (p *Prometheus) observe(resp *http.Response, err error) {
	if err == nil {
		if resp != nil {
			p.responses.WithLabelValues(method(resp.Request), strconv.Itoa(resp.StatusCode)).Inc()
		}
		return
	}

	if re, ok := kithttp.AsResponseError(err); ok {
		p.responses.WithLabelValues(method(re.Request), strconv.Itoa(re.StatusCode())).Inc()
		p.errors.WithLabelValues(KindResponse).Inc()
		return
	}

	switch {
	case kithttp.IsTimeout(err):
		p.errors.WithLabelValues(KindTimeout).Inc()
	case isTransport(err):
		p.errors.WithLabelValues(KindTransport).Inc()
	default:
		p.errors.WithLabelValues(KindOther).Inc()
	}
}

func isTransport(err error) bool {
	var te *kithttp.TransportError
	return errors.As(err, &te)
}

func method(req *http.Request) string {
	if req == nil {
		return ""
	}
	return req.Method
}
