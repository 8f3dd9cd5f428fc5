package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ringq/internal/httpapi"
	"github.com/arloliu/ringq/logger"
)

func TestNewServerConfig(t *testing.T) {
	require := require.New(t)

	cfg, err := newServerConfig(":0", 8, 2, 1024, "30s", 16, "1s", "debug", true)
	require.NoError(err)
	require.Equal(8, cfg.initialCapacity)
	require.Equal(30*time.Second, cfg.reclaimInterval)
	require.Equal(time.Second, cfg.shutdownTimeout)
	require.Equal(logger.DebugLevel, cfg.logLevel)
	require.True(cfg.consoleLog)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"empty addr", func() error { _, err := newServerConfig("", 1, 1, 0, "0", 0, "1s", "info", false); return err }},
		{"negative capacity", func() error { _, err := newServerConfig(":0", -1, 1, 0, "0", 0, "1s", "info", false); return err }},
		{"zero grow floor", func() error { _, err := newServerConfig(":0", 1, 0, 0, "0", 0, "1s", "info", false); return err }},
		{"negative message size", func() error { _, err := newServerConfig(":0", 1, 1, -1, "0", 0, "1s", "info", false); return err }},
		{"bad interval", func() error { _, err := newServerConfig(":0", 1, 1, 0, "soon", 0, "1s", "info", false); return err }},
		{"bad timeout", func() error { _, err := newServerConfig(":0", 1, 1, 0, "0", 0, "x", "info", false); return err }},
		{"bad level", func() error { _, err := newServerConfig(":0", 1, 1, 0, "0", 0, "1s", "loud", false); return err }},
		{"negative slack", func() error { _, err := newServerConfig(":0", 1, 1, 0, "0", -1, "1s", "info", false); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(tt.fn())
		})
	}
}

func TestServe(t *testing.T) {
	require := require.New(t)

	l := logger.NewMockLogger().AllowAll()
	cfg, err := newServerConfig("127.0.0.1:0", 2, 2, 1024, "10ms", 1, "1s", "info", false)
	require.NoError(err)

	reg, err := newRegistry(cfg, l)
	require.NoError(err)

	ln, err := net.Listen("tcp", cfg.addr)
	require.NoError(err)

	h := httpapi.NewHandler(reg, l)
	server := &http.Server{Handler: httpapi.NewServer(h), ReadHeaderTimeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, server, ln, reg, cfg, l) }()

	base := "http://" + ln.Addr().String()
	for _, msg := range []string{"a", "b", "c"} {
		resp, err := http.Post(base+"/queues/jobs/messages", "application/octet-stream", bytes.NewBufferString(msg))
		require.NoError(err)
		_ = resp.Body.Close()
		require.Equal(http.StatusAccepted, resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodDelete, base+"/queues/jobs/messages/head", nil)
	require.NoError(err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(http.StatusOK, resp.StatusCode)
	require.Equal("a", string(body))

	// the reclaim loop shrinks the queue down to its two remaining messages
	require.Eventually(func() bool {
		stats, err := reg.Stats("jobs")
		return err == nil && stats.Capacity == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
