package aviasales

import (
	"tpsearch/lib/chrono"
	"tpsearch/lib/platforms/core"
	"tpsearch/lib/restyutil"
	"tpsearch/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseUrl = "http://api.travelpayouts.com"

var tracer = telemetry.Tracer("tpsearch.lib.platforms.aviasales")

type Client struct {
	http  *resty.Client
	clock chrono.API
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// defaults to chrono.StandardImpl
	Clock  chrono.API
	Output restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	clock := opts.Clock
	if clock == nil {
		clock = chrono.StandardImpl{}
	}

	http := core.NewHttpClient(core.ClientOptions{
		BaseUrl: baseUrl,
		Tracer:  telemetry.Tracer("tpsearch.lib.platforms.aviasales/http"),
		Output:  opts.Output,
	})
	http.SetHeader("Content-Type", "application/json")

	return &Client{http: http, clock: clock}
}
