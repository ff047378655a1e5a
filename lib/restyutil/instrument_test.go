package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id, contents string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.messages == nil {
		o.messages = map[string]string{}
	}
	o.messages[id] = contents
}

func TestInstrumentClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	out := &memoryOutput{}
	client := resty.New().SetBaseURL(srv.URL)
	InstrumentClient(client, out)

	_, err := client.R().SetBody(`{"a":1}`).Post("/first")
	require.NoError(t, err)
	_, err = client.R().Get("/second?x=1")
	require.NoError(t, err)

	require.Len(t, out.messages, 2)

	first := out.messages["1"]
	require.Contains(t, first, "---- REQUEST ----\n\nPOST "+srv.URL+"/first")
	require.Contains(t, first, `{"a":1}`)
	require.Contains(t, first, "---- RESPONSE ----\n\n202 "+srv.URL+"/first")
	require.Contains(t, first, "X-Test: yes")
	require.Contains(t, first, `{"status":"ok"}`)

	second := out.messages["2"]
	require.Contains(t, second, "GET "+srv.URL+"/second?x=1")
	require.Contains(t, second, "<NO BODY>")
}

func TestInstrumentClientNilOutput(t *testing.T) {
	client := resty.New()
	InstrumentClient(client, nil)
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resty")
	require.NoError(t, os.MkdirAll(dir, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale"), []byte("old run"), 0600))

	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	out.Write("1", "message")

	_, err = os.Stat(filepath.Join(dir, "stale"))
	require.True(t, os.IsNotExist(err))

	contents, err := os.ReadFile(filepath.Join(dir, "1"))
	require.NoError(t, err)
	require.Equal(t, "message", string(contents))
}
