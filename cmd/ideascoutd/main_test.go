package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setStartupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("JOB_STORE", "memory")
	t.Setenv("HTTP_ADDR", "127.0.0.1:0")
}

func TestRun_InvalidConfigReturnsError(t *testing.T) {
	setStartupEnv(t)
	t.Setenv("LLM_PROVIDER", "bogus")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRun_GRPCListenFailureReturnsError(t *testing.T) {
	setStartupEnv(t)
	t.Setenv("GRPC_ADDR", "256.256.256.256:-1")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on 256.256.256.256:-1")
}
