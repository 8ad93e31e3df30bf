package server

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.HTTPAddr = "127.0.0.1:0"
	c.ShutdownTimeout = time.Second
	return c
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := logOutput
	logOutput = &buf
	t.Cleanup(func() { logOutput = old })
	return &buf
}

func TestNewApp_MemoryDefaults(t *testing.T) {
	logs := captureLogs(t)

	app, err := NewApp(testConfig())
	require.NoError(t, err)
	assert.False(t, app.manager.Durable())
	assert.Nil(t, app.rdb)
	assert.Contains(t, logs.String(), `"durable":false`)
}

func TestNewApp_UnknownLogFormat(t *testing.T) {
	captureLogs(t)
	c := testConfig()
	c.LogFormat = "xml"

	_, err := NewApp(c)
	assert.Error(t, err)
}

func TestNewApp_SQLite(t *testing.T) {
	captureLogs(t)
	c := testConfig()
	c.DatabaseDSN = "sqlite:file:" + t.Name() + "?mode=memory&cache=shared"

	app, err := NewApp(c)
	require.NoError(t, err)
	assert.True(t, app.manager.Durable())
	require.NoError(t, app.manager.Close())
}

func TestNewApp_RedisCounter(t *testing.T) {
	captureLogs(t)
	c := testConfig()
	c.RedisAddr = "127.0.0.1:6390"

	app, err := NewApp(c)
	require.NoError(t, err)
	require.NotNil(t, app.rdb)
	assert.NoError(t, app.rdb.Close())
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	logs := captureLogs(t)
	app, err := NewApp(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Contains(t, logs.String(), "App stopped")
}
