package main

import (
	"crypto/tls"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitHosts(t *testing.T) {
	assert.Equal(t, []string{"localhost", "127.0.0.1"}, splitHosts(" localhost, ,127.0.0.1 "))
	assert.Nil(t, splitHosts(""))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "certs", "server.crt")
	keyPath := filepath.Join(dir, "certs", "server.key")

	require.NoError(t, run([]string{"localhost"}, certPath, keyPath, time.Hour))

	_, err := tls.LoadX509KeyPair(certPath, keyPath)
	assert.NoError(t, err)
}

func TestRun_NoHosts(t *testing.T) {
	dir := t.TempDir()
	err := run(nil, filepath.Join(dir, "c"), filepath.Join(dir, "k"), time.Hour)
	assert.Error(t, err)
}
