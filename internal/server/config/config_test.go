package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, time.Hour, c.ResetTokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
	assert.False(t, c.RevokeOnPasswordReset)
	assert.Equal(t, 5, c.LoginAttemptLimit)
	assert.Equal(t, 15*time.Minute, c.LoginAttemptWindow)
}

func TestLoad_NoSources(t *testing.T) {
	c, err := load(nil, noEnv)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), c))
}

func TestLoad_Env(t *testing.T) {
	env := map[string]string{
		"BLOGAUTH_SECRET_KEY":    "from-env",
		"BLOGAUTH_DATABASE_DSN":  "postgres://env",
		"BLOGAUTH_SMTP_PASSWORD": "smtp-pass",
		"BLOGAUTH_REDIS_URL":     "redis://env:6379/0",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	c, err := load(nil, lookup)
	require.NoError(t, err)

	want := defaults()
	want.SecretKey = "from-env"
	want.DatabaseDSN = "postgres://env"
	want.SMTPPassword = "smtp-pass"
	want.RedisURL = "redis://env:6379/0"
	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "BLOGAUTH_SECRET_KEY" {
			return "from-env", true
		}
		return "", false
	}

	c, err := load([]string{"-s", "from-flag"}, lookup)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", c.SecretKey)
}

func TestLoad_BadFlag(t *testing.T) {
	_, err := load([]string{"-t", "soon"}, noEnv)
	assert.Error(t, err)
}
