// Package ipaddr finds the public IP address of this machine through an
// "ident" style endpoint that answers with the caller's address as plain text.
package ipaddr

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"tpsearch/lib/platforms/core"

	"github.com/go-resty/resty/v2"
)

const (
	IdentEndpoint   = "https://ident.me"
	IdentV4Endpoint = "https://4.ident.me"

	// what the hotel search reports when the lookup fails
	FallbackAddress = "192.168.1.1"
)

func Lookup(ctx context.Context, client *resty.Client, endpoint string) (string, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return "", fmt.Errorf("lookup ip: %w", err)
	}
	err = core.CheckStatus(res)
	if err != nil {
		return "", fmt.Errorf("lookup ip: %w", err)
	}

	address := strings.TrimSpace(res.String())
	if net.ParseIP(address) == nil {
		return "", fmt.Errorf("lookup ip: %q is not an ip address", address)
	}
	return address, nil
}

// LookupOr is Lookup that falls back to the given address on any failure.
func LookupOr(ctx context.Context, client *resty.Client, endpoint, fallback string) string {
	address, err := Lookup(ctx, client, endpoint)
	if err != nil {
		slog.WarnContext(ctx, "falling back to default ip address", "fallback", fallback, "err", err)
		return fallback
	}
	return address
}
