package hotellook

import (
	"net/url"
	"strings"
	"tpsearch/lib/chrono"
	"tpsearch/lib/ipaddr"
	"tpsearch/lib/platforms/core"
	"tpsearch/lib/restyutil"
	"tpsearch/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseUrl = "http://engine.hotellook.com"

var tracer = telemetry.Tracer("tpsearch.lib.platforms.hotellook")

type Client struct {
	baseUrl    string
	ipEndpoint string
	http       *resty.Client
	clock      chrono.API
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// where the customer ip is looked up, defaults to ipaddr.IdentEndpoint
	IpEndpoint string
	// defaults to chrono.StandardImpl
	Clock  chrono.API
	Output restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	ipEndpoint := opts.IpEndpoint
	if ipEndpoint == "" {
		ipEndpoint = ipaddr.IdentEndpoint
	}
	clock := opts.Clock
	if clock == nil {
		clock = chrono.StandardImpl{}
	}

	http := core.NewHttpClient(core.ClientOptions{
		Tracer: telemetry.Tracer("tpsearch.lib.platforms.hotellook/http"),
		Output: opts.Output,
	})

	return &Client{
		baseUrl:    strings.TrimSuffix(baseUrl, "/"),
		ipEndpoint: ipEndpoint,
		http:       http,
		clock:      clock,
	}
}

type queryParam struct {
	name  string
	value string
}

// endpoint builds the full url of a request. The query is kept in the
// given order so the url in the request trail reads like the API docs.
func (c *Client) endpoint(path string, params []queryParam) string {
	var query strings.Builder
	for i, p := range params {
		if i > 0 {
			query.WriteByte('&')
		}
		query.WriteString(url.QueryEscape(p.name))
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(p.value))
	}
	return c.baseUrl + path + "?" + query.String()
}
