package client

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexieremia/burgersocial/infra/breakers"
	"github.com/alexieremia/burgersocial/internal/data/cache"
)

func get(t *testing.T, c *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestWrapperCachesGetBodies(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := &http.Client{Transport: NewWrapper(WrapperConfig{Name: "api", Cache: cache.NewMemory(0), CacheTTL: time.Minute}, nil)}

	resp, body := get(t, c, srv.URL+"/x")
	assert.Equal(t, `{"ok":true}`, body)
	assert.Empty(t, resp.Header.Get(CacheHeader))

	resp, body = get(t, c, srv.URL+"/x")
	assert.Equal(t, `{"ok":true}`, body)
	assert.Equal(t, "HIT", resp.Header.Get(CacheHeader))
	assert.Equal(t, int32(1), hits.Load())
}

func TestWrapperDoesNotCacheErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := &http.Client{Transport: NewWrapper(WrapperConfig{Name: "api", Cache: cache.NewMemory(0)}, nil)}
	resp, _ := get(t, c, srv.URL)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_, _ = get(t, c, srv.URL)
	assert.Equal(t, int32(2), hits.Load())
}

func TestWrapperBreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := breakers.New("api", breakers.Settings{ConsecutiveFailures: 2, Timeout: time.Hour})
	c := &http.Client{Transport: NewWrapper(WrapperConfig{Name: "api", Breaker: b}, nil)}

	for i := 0; i < 2; i++ {
		_, err := c.Get(srv.URL)
		var te *TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "http_error", te.Type)
		assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	}

	_, err := c.Get(srv.URL)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.True(t, te.IsCircuitOpen())
	assert.Equal(t, int32(2), hits.Load())
}

func TestWrapperSetsUserAgent(t *testing.T) {
	var ua atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.UserAgent())
	}))
	defer srv.Close()

	c := &http.Client{Transport: NewWrapper(WrapperConfig{UserAgent: "burgersocial/test"}, nil)}
	_, _ = get(t, c, srv.URL)
	assert.Equal(t, "burgersocial/test", ua.Load())
}
