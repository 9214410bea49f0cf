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
	mu      sync.Mutex
	entries map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.entries == nil {
		o.entries = map[string]string{}
	}
	o.entries[id] = contents
}

func TestInstrumentClientWritesTranscripts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	output := &memoryOutput{}
	client := resty.New()
	InstrumentClient(client, nil, output)

	_, err := client.R().Get(server.URL)
	require.NoError(t, err)
	_, err = client.R().Get(server.URL)
	require.NoError(t, err)

	require.Len(t, output.entries, 2)
	first := output.entries["1"]
	require.Contains(t, first, "---- REQUEST ----")
	require.Contains(t, first, "GET "+server.URL)
	require.Contains(t, first, "---- RESPONSE ----")
	require.Contains(t, first, "<html><body>ok</body></html>")
}

func TestInstrumentClientNilOutputIsNoop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := resty.New()
	InstrumentClient(client, nil, nil)

	res, err := client.R().Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "transcripts")

	err := os.MkdirAll(dir, 0777)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "stale.txt"), []byte("old"), 0600)
	require.NoError(t, err)

	output := NewFilesystemOutput(dir)
	output.Write("7", "hello")

	contents, err := os.ReadFile(filepath.Join(dir, "7.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))

	_, err = os.Stat(filepath.Join(dir, "stale.txt"))
	require.True(t, os.IsNotExist(err))
}
