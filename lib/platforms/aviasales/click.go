package aviasales

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"tpsearch/lib/platforms/core"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const pixelBaseUrl = "http://yasen.aviasales.ru/adaptors/pixel_click.png"

type Click struct {
	ClickId string
	// where the user should be sent to buy the ticket
	Deeplink string
	// the url the click was resolved through
	TicketLink string
}

// Click resolves the term of a proposal into a deeplink to the gate's
// booking page.
func (c *Client) Click(ctx context.Context, searchId string, term Term) (Click, error) {
	ctx, span := tracer.Start(ctx, "client:Click")
	defer span.End()
	span.SetAttributes(
		attribute.String("search_id", searchId),
		attribute.String("gate_id", term.GateId),
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"search_id": searchId,
			"url_id":    term.UrlId,
		}).
		Get("/v1/flight_searches/{search_id}/clicks/{url_id}.json")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return Click{}, fmt.Errorf("click: %w", err)
	}
	ticketLink := res.Request.URL
	err = core.CheckStatus(res)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Click{TicketLink: ticketLink}, fmt.Errorf("click: %w", err)
	}

	var body struct {
		ClickId core.FlexString `json:"click_id"`
		Url     string          `json:"url"`
	}
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse json response")
		return Click{TicketLink: ticketLink}, fmt.Errorf("click: %w", err)
	}
	if body.ClickId == "" || body.Url == "" {
		span.SetStatus(codes.Error, "incomplete click response")
		return Click{TicketLink: ticketLink}, fmt.Errorf("click: incomplete response: %s", res.String())
	}

	return Click{
		ClickId:    string(body.ClickId),
		Deeplink:   body.Url,
		TicketLink: ticketLink,
	}, nil
}

// PixelUrl is the tracking pixel that has to be loaded alongside the
// deeplink for the click to be attributed.
func PixelUrl(clickId, gateId string) string {
	query := url.Values{}
	query.Set("click_id", clickId)
	query.Set("gate_id", gateId)
	return pixelBaseUrl + "?" + query.Encode()
}
