// Package core holds what the travelpayouts API clients share: how their
// resty clients are built and how a failed response is turned into an error.
package core

import (
	"fmt"
	"time"
	"tpsearch/lib/restyutil"
	"tpsearch/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout           = time.Second * 30
	DefaultRequestsPerSecond = 2
)

type ClientOptions struct {
	BaseUrl string
	// defaults to DefaultTimeout
	Timeout time.Duration
	// defaults to DefaultRequestsPerSecond, negative disables limiting
	RequestsPerSecond float64
	// span per request, no spans if nil
	Tracer trace.Tracer
	// request/response dumps, nothing is dumped if nil
	Output restyutil.InstrumentOutput
}

func NewHttpClient(opts ClientOptions) *resty.Client {
	client := resty.New()
	if opts.BaseUrl != "" {
		client.SetBaseURL(opts.BaseUrl)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	client.SetTimeout(timeout)

	rps := opts.RequestsPerSecond
	if rps == 0 {
		rps = DefaultRequestsPerSecond
	}
	if rps > 0 {
		// burst >= 1 so that a single request never waits
		limiter := rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	if opts.Tracer != nil {
		telemetry.InstrumentResty(client, opts.Tracer)
	}
	restyutil.InstrumentClient(client, opts.Output)

	return client
}

// StatusError is returned for any response with a status of 400 or above.
type StatusError struct {
	Code int
	Url  string
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// CheckStatus turns an unsuccessful response into a *StatusError.
func CheckStatus(res *resty.Response) error {
	if !res.IsError() {
		return nil
	}
	return &StatusError{
		Code: res.StatusCode(),
		Url:  res.Request.URL,
		Body: res.String(),
	}
}
