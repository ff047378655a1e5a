package aviasales

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"tpsearch/lib/platforms/core"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const testProposal = `{
	"sign": "e9b6d6a1",
	"terms": {
		"20": {"currency": "rub", "price": 7468, "url": 2000012},
		"4": {"currency": "rub", "price": 7590, "url": "400031"}
	},
	"xterms": {}
}`

func TestTerms(t *testing.T) {
	terms, err := Terms([]byte(testProposal))
	require.NoError(t, err)
	require.Equal(t, []Term{
		{GateId: "20", UrlId: "2000012"},
		{GateId: "4", UrlId: "400031"},
	}, terms)

	term, err := SelectTerm([]byte(testProposal), "")
	require.NoError(t, err)
	require.Equal(t, "20", term.GateId)

	term, err = SelectTerm([]byte(testProposal), "4")
	require.NoError(t, err)
	require.Equal(t, "400031", term.UrlId)

	_, err = SelectTerm([]byte(testProposal), "99")
	require.ErrorIs(t, err, ErrGateNotFound)
}

func TestTermsInvalid(t *testing.T) {
	_, err := Terms([]byte(`{"sign":"x"}`))
	require.ErrorIs(t, err, ErrNoTerms)

	_, err = Terms([]byte(`{"terms":{}}`))
	require.ErrorIs(t, err, ErrNoTerms)

	_, err = Terms([]byte(`{"terms":[]}`))
	require.ErrorContains(t, err, "expected an object")

	_, err = Terms([]byte(`{"terms":{"20":{"price":1}}}`))
	require.ErrorContains(t, err, "has no url")

	_, err = Terms([]byte(`not json`))
	require.Error(t, err)
}

func TestClick(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/flight_searches/c73e5180-c4a4-4936-a216-65ccf4146800/clicks/2000012.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"click_id":23784719347,"url":"https://gate.example.com/book?ref=abc&x=1","method":"GET","params":{}}`))
	}))

	click, err := client.Click(context.Background(), "c73e5180-c4a4-4936-a216-65ccf4146800", Term{GateId: "20", UrlId: "2000012"})
	require.NoError(t, err)
	require.Equal(t, "23784719347", click.ClickId)
	require.Equal(t, "https://gate.example.com/book?ref=abc&x=1", click.Deeplink)
	require.True(t, strings.HasSuffix(click.TicketLink, "/v1/flight_searches/c73e5180-c4a4-4936-a216-65ccf4146800/clicks/2000012.json"))

	_, err = client.Click(context.Background(), "c73e5180-c4a4-4936-a216-65ccf4146800", Term{GateId: "4", UrlId: "1"})
	var statusErr *core.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestPixelUrl(t *testing.T) {
	require.Equal(
		t,
		"http://yasen.aviasales.ru/adaptors/pixel_click.png?click_id=23784719347&gate_id=20",
		PixelUrl("23784719347", "20"),
	)
}

func TestRenderTicketPage(t *testing.T) {
	pixel := PixelUrl("23784719347", "20")
	deeplink := "https://gate.example.com/book?ref=abc&x=1"

	var out bytes.Buffer
	require.NoError(t, RenderTicketPage(&out, pixel, deeplink))
	require.True(t, strings.HasPrefix(out.String(), "<!doctype html>"))

	doc, err := goquery.NewDocumentFromReader(&out)
	require.NoError(t, err)

	require.Equal(t, "Ticket", doc.Find("title").Text())

	img := doc.Find("img#pixel")
	require.Equal(t, 1, img.Length())
	require.Equal(t, pixel, img.AttrOr("src", ""))
	require.Equal(t, "0", img.AttrOr("width", ""))
	require.Equal(t, "0", img.AttrOr("height", ""))

	link := doc.Find("a")
	require.Equal(t, deeplink, link.AttrOr("href", ""))
	require.Equal(t, "Ticket Link", link.Text())
}

func TestRenderTicketPageUnsafeLink(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RenderTicketPage(&out, PixelUrl("1", "2"), "javascript:alert(1)"))
	require.NotContains(t, out.String(), "javascript:")
}
