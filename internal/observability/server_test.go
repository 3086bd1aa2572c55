// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package observability

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, ready ReadinessChecker) *Server {
	t.Helper()
	s := NewServer("127.0.0.1:0", ready)
	_, err := s.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // local test server
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestLivenessEndpoint(t *testing.T) {
	s := startServer(t, nil)
	code, body := get(t, "http://"+s.Addr()+"/healthz/liveness")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", body)
}

func TestReadinessEndpoint(t *testing.T) {
	ready := false
	s := startServer(t, func() bool { return ready })

	code, body := get(t, "http://"+s.Addr()+"/healthz/readiness")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready\n", body)

	ready = true
	code, body = get(t, "http://"+s.Addr()+"/healthz/readiness")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", body)
}

func TestMetricsEndpoint(t *testing.T) {
	s := startServer(t, nil)
	code, body := get(t, "http://"+s.Addr()+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, "mudforge_actors")
}

func TestStartTwiceFails(t *testing.T) {
	s := startServer(t, nil)
	_, err := s.Start()
	assert.Error(t, err)
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewServer("127.0.0.1:0", nil)
	_, err := s.Start()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}
