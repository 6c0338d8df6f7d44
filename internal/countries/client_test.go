package countries_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/countries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `[
	{"name":{"common":"United Kingdom"},"idd":{"root":"+4","suffixes":["4"]}},
	{"name":{"common":"Antarctica"},"idd":{}},
	{"name":{"common":"Canada"},"idd":{"root":"+1","suffixes":["204","226"]}},
	{"name":{"common":"Kosovo"},"idd":{"root":"+3","suffixes":[]}}
]`

func newServer(t *testing.T, hits *atomic.Int32, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_List(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits, http.StatusOK)

	client, err := countries.NewClient(config.CountriesConfig{URL: srv.URL, Timeout: time.Second, CacheTTL: time.Hour})
	require.NoError(t, err)
	defer client.Close()

	got, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []countries.Country{
		{Name: "Canada", Code: "+1204"},
		{Name: "Kosovo", Code: "+3"},
		{Name: "United Kingdom", Code: "+44"},
	}, got)

	_, err = client.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second call is served from cache")
}

func TestClient_NoCache(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits, http.StatusOK)

	client, err := countries.NewClient(config.CountriesConfig{URL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	defer client.Close()

	_, _ = client.List(context.Background())
	_, _ = client.List(context.Background())
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_ErrorStatus(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits, http.StatusBadGateway)

	client, err := countries.NewClient(config.CountriesConfig{URL: srv.URL, Timeout: time.Second, CacheTTL: time.Hour})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.List(context.Background())
	assert.Error(t, err)
}
