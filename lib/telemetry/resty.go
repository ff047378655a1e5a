package telemetry

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentResty opens a span for every request made through client.
// The signature query parameter travels in plain sight on these APIs, so
// request bodies and headers are recorded as is.
func InstrumentResty(client *resty.Client, tracer trace.Tracer) {
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		ctx, _ := tracer.Start(req.Context(), req.Method)
		req.SetContext(ctx)
		return nil
	})
	client.OnAfterResponse(onAfterResponse)
	client.OnError(onError)
}

func headerAttributes(out *[]attribute.KeyValue, prefix string, headers http.Header) {
	for header, values := range headers {
		if len(values) == 1 {
			*out = append(*out, attribute.String(
				fmt.Sprintf("%s/header: %s", prefix, header),
				values[0],
			))
			continue
		}
		for i, v := range values {
			*out = append(*out, attribute.String(
				fmt.Sprintf("%s/header: %s (%d)", prefix, header, i),
				v,
			))
		}
	}
}

func requestBodyAttribute(req *http.Request) attribute.KeyValue {
	if req.GetBody == nil {
		return attribute.String("request/body", "")
	}
	reader, err := req.GetBody()
	if err != nil {
		return attribute.String("request/body", fmt.Sprintf("failed to get request body: %s", err))
	}
	if reader == nil {
		return attribute.String("request/body", "")
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return attribute.String("request/body", fmt.Sprintf("failed to read request body: %s", err))
	}
	return attribute.String("request/body", string(body))
}

func onAfterResponse(_ *resty.Client, res *resty.Response) error {
	span := trace.SpanFromContext(res.Request.Context())
	defer span.End()

	// request attributes are set here since res.Request.RawRequest is nil in OnBeforeRequest
	span.SetName(fmt.Sprintf("http %s", res.Request.Method))
	span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)

	var attrs []attribute.KeyValue
	headerAttributes(&attrs, "request", res.Request.Header)
	headerAttributes(&attrs, "response", res.Header())
	attrs = append(
		attrs,
		requestBodyAttribute(res.Request.RawRequest),
		attribute.String("response/body", res.String()),
	)
	span.SetAttributes(attrs...)

	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
	}
	return nil
}

func onError(req *resty.Request, err error) {
	span := trace.SpanFromContext(req.Context())
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetName(fmt.Sprintf("http %s", req.Method))

	var attrs []attribute.KeyValue
	headerAttributes(&attrs, "request", req.Header)
	span.SetAttributes(attrs...)

	if req.RawRequest == nil {
		return
	}
	span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
	span.SetAttributes(requestBodyAttribute(req.RawRequest))
}
