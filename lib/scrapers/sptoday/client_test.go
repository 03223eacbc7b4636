package sptoday

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sptoday-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, attempts int, backoff time.Duration) *Client {
	client, err := NewClient(ClientOptions{
		Timeout:  time.Second * 5,
		Attempts: attempts,
		Backoff:  backoff,
	})
	require.NoError(t, err)
	return client
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, 3, time.Millisecond*10)

	started := time.Now()
	markup, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "<html>ok</html>", markup)
	require.EqualValues(t, 3, hits.Load())
	// two waits: backoff then doubled backoff
	require.GreaterOrEqual(t, time.Since(started), time.Millisecond*30)
}

func TestFetchExhaustsAttempts(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, 3, time.Millisecond)

	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAllAttemptsFailed))
	require.EqualValues(t, 3, hits.Load())
}

func TestFetchEmptyBodyIsNotRetried(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, 3, time.Millisecond)

	markup, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "", markup)
	require.EqualValues(t, 1, hits.Load(), "an empty 2xx body is valid extraction input")
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, 3, time.Second*10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*50)
	defer cancel()

	started := time.Now()
	_, err := client.Fetch(ctx, server.URL)
	require.Error(t, err)
	require.Less(t, time.Since(started), time.Second, "backoff waits must abort with the context")
}

func TestBrowserHeaders(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := newTestClient(t, 1, time.Millisecond)
	_, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Contains(t, gotUserAgent, "Mozilla/5.0")
}
