package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardcser/spc-cache/internal/cache"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestCLI_SetGetDelete(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "--dir", dir, "set", "feed-42", `{"title":"news"}`, "--ttl", "10m")
	require.NoError(t, err)
	assert.Equal(t, "stored feed-42 (ttl: 10m0s)", out)
	assert.FileExists(t, filepath.Join(dir, "feed-42.spc"))
	assert.FileExists(t, filepath.Join(dir, "feed-42.spc.meta"))

	out, err = execute(t, "--dir", dir, "get", "feed-42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"news"}`, out)

	out, err = execute(t, "--dir", dir, "delete", "feed-42")
	require.NoError(t, err)
	assert.Equal(t, "deleted feed-42", out)

	_, err = execute(t, "--dir", dir, "get", "feed-42")
	assert.Error(t, err)

	out, err = execute(t, "--dir", dir, "get", "feed-42", "--default", "{}")
	require.NoError(t, err)
	assert.Equal(t, "{}", out)

	_, err = execute(t, "--dir", dir, "delete", "feed-42")
	assert.Error(t, err)
}

func TestCLI_RawCodec(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "--dir", dir, "--codec", "raw", "set", "note", "plain text")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "note.spc"))
	require.NoError(t, err)
	assert.Equal(t, "plain text", string(data))

	out, err := execute(t, "--dir", dir, "--codec", "raw", "get", "note")
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)
}

func TestCLI_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "--dir", dir, "set", "user:42", "1")
	assert.ErrorIs(t, err, cache.ErrInvalidKey)

	_, err = execute(t, "--dir", dir, "set", "k", "{not json")
	assert.Error(t, err)

	_, err = execute(t, "--dir", dir, "set", "k", "1", "--ttl", "soon")
	assert.Error(t, err)

	_, err = execute(t, "--dir", dir, "--codec", "proto", "get", "k")
	assert.Error(t, err)
}

func TestCLI_Prune(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "--dir", dir, "set", "stale", "1", "--ttl=-10")
	require.NoError(t, err)
	_, err = execute(t, "--dir", dir, "set", "fresh", "1")
	require.NoError(t, err)

	out, err := execute(t, "--dir", dir, "prune")
	require.NoError(t, err)
	assert.Equal(t, "removed 1 entries", out)
	assert.NoFileExists(t, filepath.Join(dir, "stale.spc"))
	assert.FileExists(t, filepath.Join(dir, "fresh.spc"))
}

func TestCLI_PruneRemote(t *testing.T) {
	_, err := execute(t, "--dir", t.TempDir(), "--socket", filepath.Join(t.TempDir(), "none.sock"), "prune")
	assert.Error(t, err)
}
