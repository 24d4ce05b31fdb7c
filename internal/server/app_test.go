package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/blogauth/internal/logging"
	"github.com/dmitrijs2005/blogauth/internal/server/auth"
	"github.com/dmitrijs2005/blogauth/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.EndpointAddrHTTP = "127.0.0.1:0"
	return c
}

func TestNewApp_InMemoryDefaults(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), logging.Nop{})
	require.NoError(t, err)

	assert.Nil(t, app.redis)
	assert.NotNil(t, app.sessions)
	assert.Len(t, app.servers, 2)
}

func TestNewApp_EmptySecret(t *testing.T) {
	c := testConfig()
	c.SecretKey = ""

	app, err := NewApp(context.Background(), c, logging.Nop{})
	require.Error(t, err)
	assert.Nil(t, app)
	assert.ErrorIs(t, err, auth.ErrEmptySecret)
}

func TestNewApp_BadDSN(t *testing.T) {
	c := testConfig()
	c.DatabaseDSN = "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewApp(ctx, c, logging.Nop{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestNewApp_WithRedisAndSMTP(t *testing.T) {
	c := testConfig()
	c.RedisURL = "redis://127.0.0.1:1/0"
	c.SMTPHost = "127.0.0.1"

	app, err := NewApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)
	assert.NotNil(t, app.redis)
	app.close(context.Background())
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), logging.Nop{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRun_TransportFailureStopsApp(t *testing.T) {
	c := testConfig()
	c.EndpointAddrHTTP = "127.0.0.1:99999"

	app, err := NewApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http")
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after transport failure")
	}
}
