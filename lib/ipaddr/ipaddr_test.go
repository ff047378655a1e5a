package ipaddr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"tpsearch/lib/platforms/core"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v4":
			w.Write([]byte("203.0.113.7\n"))
		case "/v6":
			w.Write([]byte("2001:db8::1"))
		case "/garbage":
			w.Write([]byte("<html>rate limited</html>"))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	client := core.NewHttpClient(core.ClientOptions{})
	ctx := context.Background()

	address, err := Lookup(ctx, client, srv.URL+"/v4")
	require.NoError(t, err)
	require.Equal(t, "203.0.113.7", address)

	address, err = Lookup(ctx, client, srv.URL+"/v6")
	require.NoError(t, err)
	require.Equal(t, "2001:db8::1", address)

	_, err = Lookup(ctx, client, srv.URL+"/garbage")
	require.Error(t, err)

	_, err = Lookup(ctx, client, srv.URL+"/down")
	var statusErr *core.StatusError
	require.ErrorAs(t, err, &statusErr)

	require.Equal(t, FallbackAddress, LookupOr(ctx, client, srv.URL+"/down", FallbackAddress))
	require.Equal(t, "203.0.113.7", LookupOr(ctx, client, srv.URL+"/v4", FallbackAddress))
}
