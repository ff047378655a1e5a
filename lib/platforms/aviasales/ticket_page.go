package aviasales

import (
	"html/template"
	"io"
)

var ticketPage = template.Must(template.New("ticket").Parse(`<!doctype html>
<html lang=en>
    <head>
        <meta charset=utf-8>
        <title>Ticket</title>
    </head>
    <body>
        <img width="0" height="0" id="pixel" src="{{ .PixelUrl }}"><a href="{{ .Deeplink }}">Ticket Link</a>
    </body>
</html>
`))

// RenderTicketPage writes a page that loads the tracking pixel and links to
// the deeplink.
func RenderTicketPage(w io.Writer, pixelUrl, deeplink string) error {
	return ticketPage.Execute(w, struct {
		PixelUrl string
		Deeplink string
	}{
		PixelUrl: pixelUrl,
		Deeplink: deeplink,
	})
}
