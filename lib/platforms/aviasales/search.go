package aviasales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"tpsearch/lib/platforms/core"
	"tpsearch/lib/signature"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrMissingParam = errors.New("missing search parameter")

// Credentials identify the affiliate making the search.
type Credentials struct {
	Token  string
	Marker string
	Host   string
}

type SearchParams struct {
	// the ip of the user the search is made for
	Ip          string `json:"ip"`
	Locale      string `json:"locale"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	Infants     int    `json:"infants"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DepartDate  string `json:"depart_date"`
	// empty for a one-way search
	ReturnDate string `json:"return_date"`
	TripClass  string `json:"trip_class"`
	Currency   string `json:"currency"`
}

func (p SearchParams) IsRoundTrip() bool {
	return p.ReturnDate != ""
}

// Validate checks that every parameter the signature is built from is set.
func (p SearchParams) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"ip", p.Ip},
		{"locale", p.Locale},
		{"origin", p.Origin},
		{"destination", p.Destination},
		{"depart_date", p.DepartDate},
		{"trip_class", p.TripClass},
		{"currency", p.Currency},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if p.Adults < 1 {
		missing = append(missing, "adults")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingParam, strings.Join(missing, ", "))
	}
	return nil
}

// Signature signs a search with the values in the order the API wants:
// token:currency:host:locale:marker:adults:children:infants:
// depart_date:destination:origin[:return_date:origin:destination]:trip_class:ip
func Signature(creds Credentials, p SearchParams) signature.Signed {
	parts := []string{
		creds.Token,
		p.Currency,
		creds.Host,
		p.Locale,
		creds.Marker,
		strconv.Itoa(p.Adults),
		strconv.Itoa(p.Children),
		strconv.Itoa(p.Infants),
		p.DepartDate,
		p.Destination,
		p.Origin,
	}
	if p.IsRoundTrip() {
		parts = append(parts, p.ReturnDate, p.Origin, p.Destination)
	}
	parts = append(parts, p.TripClass, p.Ip)
	return signature.Sign(parts...)
}

type passengers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

type segment struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

type searchRequest struct {
	Signature  string     `json:"signature"`
	Marker     string     `json:"marker"`
	Host       string     `json:"host"`
	UserIp     string     `json:"user_ip"`
	Locale     string     `json:"locale"`
	TripClass  string     `json:"trip_class"`
	Passengers passengers `json:"passengers"`
	Currency   string     `json:"currency"`
	Segments   []segment  `json:"segments"`
}

func newSearchRequest(creds Credentials, p SearchParams, sig signature.Signed) searchRequest {
	segments := []segment{{
		Origin:      p.Origin,
		Destination: p.Destination,
		Date:        p.DepartDate,
	}}
	if p.IsRoundTrip() {
		segments = append(segments, segment{
			Origin:      p.Destination,
			Destination: p.Origin,
			Date:        p.ReturnDate,
		})
	}
	return searchRequest{
		Signature: sig.MD5,
		Marker:    creds.Marker,
		Host:      creds.Host,
		UserIp:    p.Ip,
		Locale:    p.Locale,
		TripClass: p.TripClass,
		Passengers: passengers{
			Adults:   p.Adults,
			Children: p.Children,
			Infants:  p.Infants,
		},
		Currency: p.Currency,
		Segments: segments,
	}
}

type SearchStart struct {
	Signature signature.Signed
	SearchId  string
}

// StartSearch starts an asynchronous flight search, results are fetched
// afterwards with Results or PollResults.
func (c *Client) StartSearch(ctx context.Context, creds Credentials, p SearchParams) (SearchStart, error) {
	ctx, span := tracer.Start(ctx, "client:StartSearch")
	defer span.End()

	err := p.Validate()
	if err != nil {
		span.SetStatus(codes.Error, "invalid parameters")
		return SearchStart{}, err
	}

	sig := Signature(creds, p)
	span.SetAttributes(attribute.String("signature", sig.MD5))

	var body struct {
		SearchId string `json:"search_id"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(newSearchRequest(creds, p, sig)).
		Post("/v1/flight_search")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return SearchStart{}, fmt.Errorf("start search: %w", err)
	}
	err = core.CheckStatus(res)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return SearchStart{Signature: sig}, fmt.Errorf("start search: %w", err)
	}
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse json response")
		return SearchStart{Signature: sig}, fmt.Errorf("start search: %w", err)
	}
	if body.SearchId == "" {
		span.SetStatus(codes.Error, "no search_id in response")
		return SearchStart{Signature: sig}, fmt.Errorf("start search: no search_id in response: %s", res.String())
	}

	slog.DebugContext(ctx, "flight search started", "search_id", body.SearchId)
	return SearchStart{Signature: sig, SearchId: body.SearchId}, nil
}

// Results is the raw body returned by the results endpoint, it is usually
// an array of chunks, one chunk per gate that has answered so far.
type Results json.RawMessage

// Chunks splits the results into its chunks.
func (r Results) Chunks() ([]json.RawMessage, error) {
	var chunks []json.RawMessage
	err := json.Unmarshal(r, &chunks)
	if err != nil {
		return nil, fmt.Errorf("results are not an array of chunks: %w", err)
	}
	return chunks, nil
}

// isFinalChunk reports whether chunk is the marker the API sends once
// every gate has answered: an object holding nothing but the search_id.
func isFinalChunk(chunk json.RawMessage) bool {
	var fields map[string]json.RawMessage
	err := json.Unmarshal(chunk, &fields)
	if err != nil {
		return false
	}
	_, ok := fields["search_id"]
	return ok && len(fields) == 1
}

func (c *Client) Results(ctx context.Context, searchId string) (Results, error) {
	ctx, span := tracer.Start(ctx, "client:Results")
	defer span.End()
	span.SetAttributes(attribute.String("search_id", searchId))

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("uuid", searchId).
		Get("/v1/flight_search_results")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, fmt.Errorf("get results: %w", err)
	}
	err = core.CheckStatus(res)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("get results: %w", err)
	}
	return Results(res.Body()), nil
}

// WaitResults waits for delay and then fetches the results once.
func (c *Client) WaitResults(ctx context.Context, searchId string, delay time.Duration) (Results, error) {
	err := c.clock.Sleep(ctx, delay)
	if err != nil {
		return nil, err
	}
	return c.Results(ctx, searchId)
}

type PollOptions struct {
	// time to wait before every fetch
	Interval    time.Duration
	MaxAttempts int
	// called after every fetch
	OnAttempt func(attempt int, chunks int)
}

var ErrSearchIncomplete = errors.New("search did not complete")

// PollResults fetches the results until the final chunk arrives and
// returns every chunk received as one array, the final chunk included.
// When MaxAttempts is reached first, the chunks so far are returned with
// ErrSearchIncomplete.
func (c *Client) PollResults(ctx context.Context, searchId string, opts PollOptions) (Results, error) {
	ctx, span := tracer.Start(ctx, "client:PollResults")
	defer span.End()

	var collected []json.RawMessage
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		err := c.clock.Sleep(ctx, opts.Interval)
		if err != nil {
			return nil, err
		}

		results, err := c.Results(ctx, searchId)
		if err != nil {
			return nil, err
		}
		chunks, err := results.Chunks()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "unexpected results shape")
			return nil, err
		}

		done := false
		for _, chunk := range chunks {
			collected = append(collected, chunk)
			if isFinalChunk(chunk) {
				done = true
			}
		}
		if opts.OnAttempt != nil {
			opts.OnAttempt(attempt, len(collected))
		}
		if done {
			return marshalChunks(collected)
		}
	}

	span.SetStatus(codes.Error, ErrSearchIncomplete.Error())
	results, err := marshalChunks(collected)
	if err != nil {
		return nil, err
	}
	return results, fmt.Errorf("%w after %d attempts", ErrSearchIncomplete, opts.MaxAttempts)
}

func marshalChunks(chunks []json.RawMessage) (Results, error) {
	if chunks == nil {
		chunks = []json.RawMessage{}
	}
	out, err := json.Marshal(chunks)
	if err != nil {
		return nil, err
	}
	return Results(out), nil
}
