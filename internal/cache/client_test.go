package cache_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardcser/spc-cache/internal/cache"
)

// startDaemon serves a raw-codec FileCache on a socket in a temp directory.
func startDaemon(t *testing.T) (*cache.Client, *cache.FileCache) {
	t.Helper()
	sockDir, err := os.MkdirTemp("", "spc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(sockDir) })
	sock := filepath.Join(sockDir, "cache.sock")

	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)

	backend := cache.NewFileCache(t.TempDir(), cache.WithCodec(cache.RawCodec{}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cache.Serve(ctx, ln, backend) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return cache.NewClient(sock, cache.JSONCodec{}), backend
}

func TestClient_RoundTrip(t *testing.T) {
	client, backend := startDaemon(t)

	ok, err := client.Set("user-42", map[string]string{"name": "a"}, cache.Seconds(10))
	require.NoError(t, err)
	require.True(t, ok)

	got, err := cache.GetOr(client, "user-42", map[string]string(nil))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "a"}, got)

	var raw string
	ok, err = backend.Get("user-42", &raw)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"a"}`, raw)

	ok, err = client.Delete("user-42")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = cache.GetOr(client, "user-42", map[string]string(nil))
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = client.Delete("user-42")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_ExpiredTTL(t *testing.T) {
	client, _ := startDaemon(t)

	ok, err := client.Set("gone", "v", cache.Seconds(-1))
	require.NoError(t, err)
	require.True(t, ok)

	got, err := cache.GetOr(client, "gone", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
}

func TestClient_LargeTTL(t *testing.T) {
	client, _ := startDaemon(t)

	ok, err := client.Set("far", "v", cache.Seconds(10_000_000_000))
	require.NoError(t, err)
	require.True(t, ok)

	got, err := cache.GetOr(client, "far", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestClient_Errors(t *testing.T) {
	client, _ := startDaemon(t)

	_, err := client.Set("user:42", "v", cache.TTL{})
	assert.ErrorIs(t, err, cache.ErrInvalidKey)
	var dst string
	_, err = client.Get("", &dst)
	assert.ErrorIs(t, err, cache.ErrInvalidKey)

	_, err = client.Has("k")
	assert.ErrorIs(t, err, cache.ErrNotImplemented)
	assert.ErrorIs(t, client.Clear(), cache.ErrNotImplemented)
	_, err = client.GetMultiple([]string{"k"}, nil)
	assert.ErrorIs(t, err, cache.ErrNotImplemented)
}

func TestClient_DaemonDown(t *testing.T) {
	client := cache.NewClient(filepath.Join(t.TempDir(), "missing.sock"), nil)

	ok, err := client.Set("k", "v", cache.TTL{})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := cache.GetOr(client, "k", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)

	ok, err = client.Delete("k")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, client.Clear(), cache.ErrNotImplemented)
	_, err = client.Has("k")
	assert.ErrorIs(t, err, cache.ErrNotImplemented)
}

func TestClient_UnresponsiveDaemon(t *testing.T) {
	sockDir, err := os.MkdirTemp("", "spc")
	require.NoError(t, err)
	defer os.RemoveAll(sockDir)
	sock := filepath.Join(sockDir, "cache.sock")

	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	defer ln.Close()

	// Accept connections but never answer.
	var held []net.Conn
	accepted := make(chan struct{})
	go func() {
		defer close(accepted)
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			held = append(held, conn)
		}
	}()
	defer func() {
		_ = ln.Close()
		<-accepted
		for _, c := range held {
			_ = c.Close()
		}
	}()

	client := cache.NewClient(sock, nil)
	start := time.Now()

	ok, err := client.Set("k", "v", cache.TTL{})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := cache.GetOr(client, "k", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)

	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestServe_UnknownOp(t *testing.T) {
	sockDir, err := os.MkdirTemp("", "spc")
	require.NoError(t, err)
	defer os.RemoveAll(sockDir)
	sock := filepath.Join(sockDir, "cache.sock")

	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = cache.Serve(ctx, ln, cache.NewFileCache(t.TempDir(), cache.WithCodec(cache.RawCodec{}))) }()

	conn, err := net.Dial("unix", sock)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(`{"id":"1","op":"flush"}` + "\n"))
	require.NoError(t, err)
	buf := make([]byte, 512)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","ok":false,"error":"unknown op","code":"bad_request"}`, string(buf[:n-1]))
}
