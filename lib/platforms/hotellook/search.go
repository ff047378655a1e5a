package hotellook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"tpsearch/lib/chrono"
	"tpsearch/lib/ipaddr"
	"tpsearch/lib/platforms/core"
	"tpsearch/lib/signature"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const StatusOk = "ok"

// APIError is an answer from the engine whose status is not "ok".
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %q: %s", e.Status, e.Message)
}

// InitSignature signs the search start: token, marker and then the values of
// the search parameters ordered by parameter name.
func InitSignature(cfg Config) signature.Signed {
	params := map[string]string{
		"lang":             cfg.Lang,
		"currency":         cfg.Currency,
		"wait_for_results": cfg.WaitForResults,
		"check_in":         cfg.CheckIn,
		"check_out":        cfg.CheckOut,
		"adults_count":     cfg.AdultsCount,
		"children_count":   cfg.ChildrenCount,
		"child_age":        cfg.ChildAge,
		"customer_ip":      cfg.CustomerIp,
		cfg.Location.Key:   cfg.Location.Value,
	}
	parts := append([]string{cfg.Token, cfg.Marker}, signature.ByName(params)...)
	return signature.Sign(parts...)
}

// ResultsSignature signs a results request:
// token:marker:limit:offset:rooms_count:search_id:sort_asc:sort_by
func ResultsSignature(cfg Config, searchId string) signature.Signed {
	return signature.Sign(
		cfg.Token,
		cfg.Marker,
		cfg.Page.Limit,
		cfg.Page.Offset,
		cfg.Page.RoomsCount,
		searchId,
		cfg.Page.SortAsc,
		cfg.Page.SortBy,
	)
}

type apiResponse struct {
	Status   string          `json:"status"`
	Message  string          `json:"message"`
	SearchId core.FlexString `json:"searchId"`
	Result   json.RawMessage `json:"result"`
}

type Start struct {
	Signature signature.Signed
	Url       string
	// the response as it was received
	Response json.RawMessage
	SearchId string
}

func (c *Client) startUrl(cfg Config, sig signature.Signed) string {
	return c.endpoint("/api/v2/search/start.json", []queryParam{
		{cfg.Location.Param, cfg.Location.Value},
		{"checkIn", cfg.CheckIn},
		{"checkOut", cfg.CheckOut},
		{"adultsCount", cfg.AdultsCount},
		{"customerIP", cfg.CustomerIp},
		{"lang", cfg.Lang},
		{"currency", cfg.Currency},
		{"waitForResult", cfg.WaitForResults},
		{"marker", cfg.Marker},
		{"signature", sig.MD5},
		{"childrenCount", cfg.ChildrenCount},
		{"childAge1", cfg.ChildAge},
	})
}

func (c *Client) resultsUrl(cfg Config, searchId string, sig signature.Signed) string {
	return c.endpoint("/api/v2/search/getResult.json", []queryParam{
		{"searchId", searchId},
		{"limit", cfg.Page.Limit},
		{"sortBy", cfg.Page.SortBy},
		{"sortAsc", cfg.Page.SortAsc},
		{"roomsCount", cfg.Page.RoomsCount},
		{"offset", cfg.Page.Offset},
		{"marker", cfg.Marker},
		{"signature", sig.MD5},
	})
}

// get fetches url and decodes the engine's answer. The body is returned
// even when the answer is an error so that it can be reported.
func (c *Client) get(ctx context.Context, url string) (apiResponse, []byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return apiResponse{}, nil, err
	}

	var body apiResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		statusErr := core.CheckStatus(res)
		if statusErr != nil {
			return apiResponse{}, res.Body(), statusErr
		}
		return apiResponse{}, res.Body(), fmt.Errorf("failed to parse json response: %w", err)
	}
	if body.Status != StatusOk {
		return body, res.Body(), &APIError{Status: body.Status, Message: body.Message}
	}
	err = core.CheckStatus(res)
	if err != nil {
		return body, res.Body(), err
	}
	return body, res.Body(), nil
}

// StartSearch starts a hotel search. cfg.CustomerIp must already be set.
// The returned Start carries whatever was known when an error occurred.
func (c *Client) StartSearch(ctx context.Context, cfg Config) (Start, error) {
	ctx, span := tracer.Start(ctx, "client:StartSearch")
	defer span.End()

	sig := InitSignature(cfg)
	start := Start{
		Signature: sig,
		Url:       c.startUrl(cfg, sig),
	}
	span.SetAttributes(
		attribute.String("location", cfg.Location.Key),
		attribute.String("signature", sig.MD5),
	)

	body, raw, err := c.get(ctx, start.Url)
	start.Response = raw
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to start search")
		return start, fmt.Errorf("start search: %w", err)
	}
	if body.SearchId == "" {
		span.SetStatus(codes.Error, "no searchId in response")
		return start, fmt.Errorf("start search: no searchId in response: %s", raw)
	}

	start.SearchId = string(body.SearchId)
	slog.DebugContext(ctx, "hotel search started", "search_id", start.SearchId)
	return start, nil
}

type Result struct {
	Signature signature.Signed
	Url       string
	Status    string
	// the "result" member of the response
	Result json.RawMessage
}

func (c *Client) Results(ctx context.Context, cfg Config, searchId string) (Result, error) {
	ctx, span := tracer.Start(ctx, "client:Results")
	defer span.End()
	span.SetAttributes(attribute.String("search_id", searchId))

	sig := ResultsSignature(cfg, searchId)
	result := Result{
		Signature: sig,
		Url:       c.resultsUrl(cfg, searchId, sig),
	}

	body, _, err := c.get(ctx, result.Url)
	result.Status = body.Status
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get results")
		return result, fmt.Errorf("get results: %w", err)
	}

	result.Result = body.Result
	if len(result.Result) == 0 {
		result.Result = json.RawMessage("null")
	}
	return result, nil
}

type SearchOptions struct {
	// called once per second while waiting for the results
	Progress func(elapsed int)
}

// Outcome is everything a search produced. Trail is filled in as far as
// the search got, also when it failed.
type Outcome struct {
	Trail    Trail
	SearchId string
	Result   json.RawMessage
}

// Search runs a whole hotel search: start it, wait cfg.Sleep seconds and
// fetch the results. When cfg.CustomerIp is empty the public ip is looked
// up, falling back to ipaddr.FallbackAddress.
func (c *Client) Search(ctx context.Context, cfg Config, opts SearchOptions) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()

	if cfg.CustomerIp == "" {
		cfg.CustomerIp = ipaddr.LookupOr(ctx, c.http, c.ipEndpoint, ipaddr.FallbackAddress)
	}

	var outcome Outcome
	start, err := c.StartSearch(ctx, cfg)
	outcome.Trail.recordStart(start)
	if err != nil {
		return outcome, err
	}
	outcome.SearchId = start.SearchId

	err = chrono.Countdown(ctx, c.clock, cfg.Sleep, opts.Progress)
	if err != nil {
		return outcome, err
	}

	result, err := c.Results(ctx, cfg, start.SearchId)
	outcome.Trail.recordResult(result)
	if err != nil {
		return outcome, err
	}
	outcome.Result = result.Result
	return outcome, nil
}

// AsAPIError finds the engine refusal in the chain of err, if there is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
