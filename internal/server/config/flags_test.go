package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected func(c *Config)
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-l", "127.0.0.1:8081", "-d", "db", "-s", "secret",
				"-t", "1", "-r", "3", "-x", "5", "-k", "12", "-u", "https://blog.example/reset", "-R", "redis://r:6379/1",
			},
			expected: func(c *Config) {
				c.EndpointAddrGRPC = "127.0.0.1:9090"
				c.EndpointAddrHTTP = "127.0.0.1:8081"
				c.DatabaseDSN = "db"
				c.SecretKey = "secret"
				c.AccessTokenValidityDuration = time.Minute
				c.RefreshTokenValidityDuration = 3 * time.Minute
				c.ResetTokenValidityDuration = 5 * time.Minute
				c.BcryptCost = 12
				c.ResetPasswordURL = "https://blog.example/reset"
				c.RedisURL = "redis://r:6379/1"
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"-c", "cfg.json", "-zzz", "-s=abc"},
			expected: func(c *Config) { c.SecretKey = "abc" },
		},
		{
			name:     "durations untouched when not given",
			args:     []string{"-a", ":1"},
			expected: func(c *Config) { c.EndpointAddrGRPC = ":1" },
		},
		{
			name:    "non-numeric duration",
			args:    []string{"-r", "week"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaults()
			err := parseFlags(got, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.expected(want)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}
