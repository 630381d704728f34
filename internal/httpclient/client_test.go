package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowlab/guildsim/internal/httpclient"
)

func newTestClient(t *testing.T, cfg httpclient.Config) *httpclient.Client {
	t.Helper()
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Millisecond
	}
	c, err := httpclient.New(cfg)
	require.NoError(t, err)
	return c
}

func TestDo_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := newTestClient(t, httpclient.Config{MaxRetries: 3})

	resp, err := c.Do(context.Background(), httpclient.Request{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestDo_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, httpclient.Config{MaxRetries: 3})

	_, err := c.Do(context.Background(), httpclient.Request{Method: http.MethodGet, URL: srv.URL})
	require.Error(t, err)

	var apiErr *httpclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, httpclient.KindClient, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.False(t, apiErr.Retryable())
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_RateLimitCarriesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, httpclient.Config{MaxRetries: 0})

	_, err := c.Do(context.Background(), httpclient.Request{Method: http.MethodGet, URL: srv.URL})
	require.Error(t, err)

	var apiErr *httpclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, httpclient.KindRateLimited, apiErr.Kind)
	assert.Equal(t, 2*time.Second, apiErr.RetryAfter)
	assert.True(t, apiErr.Retryable())
}

func TestDo_TimeoutClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestClient(t, httpclient.Config{Timeout: 20 * time.Millisecond, MaxRetries: 0})

	_, err := c.Do(context.Background(), httpclient.Request{Method: http.MethodGet, URL: srv.URL})
	require.Error(t, err)

	var apiErr *httpclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, httpclient.KindTimeout, apiErr.Kind)
}

func TestDo_CancellationDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, httpclient.Config{MaxRetries: 3, RetryDelay: 50 * time.Millisecond})

	_, err := c.Do(ctx, httpclient.Request{Method: http.MethodGet, URL: srv.URL})
	require.Error(t, err)
	assert.LessOrEqual(t, calls.Load(), int32(1))
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "80", r.URL.Query().Get("level"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"name":"Shadowstep","realm":"malganis"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, httpclient.Config{})

	var out struct {
		Name  string `json:"name"`
		Realm string `json:"realm"`
	}
	err := c.GetJSON(context.Background(), srv.URL,
		map[string][]string{"level": {"80"}},
		http.Header{"Authorization": {"Bearer token"}},
		&out)
	require.NoError(t, err)
	assert.Equal(t, "Shadowstep", out.Name)
	assert.Equal(t, "malganis", out.Realm)
}

func TestGetCached_CoalescesConcurrentRequests(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte("shared"))
	}))
	defer srv.Close()

	c := newTestClient(t, httpclient.Config{})
	req := httpclient.Request{Method: http.MethodGet, URL: srv.URL}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := c.GetCached(context.Background(), req, time.Minute)
			assert.NoError(t, err)
			assert.Equal(t, "shared", string(resp.Body))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestGetCached_ServesFromCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("cached"))
	}))
	defer srv.Close()

	c := newTestClient(t, httpclient.Config{})
	req := httpclient.Request{Method: http.MethodGet, URL: srv.URL}

	for i := 0; i < 3; i++ {
		resp, err := c.GetCached(context.Background(), req, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "cached", string(resp.Body))
	}
	assert.Equal(t, int32(1), calls.Load())

	// Invalidation forces a refetch.
	c.InvalidateCached(req)
	_, err := c.GetCached(context.Background(), req, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetCached_ErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	c := newTestClient(t, httpclient.Config{})
	req := httpclient.Request{Method: http.MethodGet, URL: srv.URL}

	_, err := c.GetCached(context.Background(), req, time.Minute)
	require.Error(t, err)

	resp, err := c.GetCached(context.Background(), req, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "recovered", string(resp.Body))
}
