package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func defaults() Config {
	c := Config{}
	c.LoadDefaults()
	return c
}

func writeJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authctl.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	jsonPath := writeJSON(t, `{"server_endpoint_addr":"json:1","request_timeout":"3s"}`)

	tests := []struct {
		name     string
		args     []string
		env      func(string) (string, bool)
		want     func(c *Config)
		wantRest []string
	}{
		{
			name:     "defaults",
			args:     []string{"whoami"},
			env:      noEnv,
			want:     func(*Config) {},
			wantRest: []string{"whoami"},
		},
		{
			name: "flags before command",
			args: []string{"-a", "srv:9", "-f", "/tmp/s.db", "-t", "2s", "login", "-email", "a@x.io"},
			env:  noEnv,
			want: func(c *Config) {
				c.ServerEndpointAddr = "srv:9"
				c.DatabasePath = "/tmp/s.db"
				c.RequestTimeout = 2 * time.Second
			},
			wantRest: []string{"login", "-email", "a@x.io"},
		},
		{
			name: "json then env then flags",
			args: []string{"-c", jsonPath, "-t", "5s", "logout"},
			env: func(k string) (string, bool) {
				if k == "AUTHCTL_SERVER_ADDR" {
					return "env:2", true
				}
				return "", false
			},
			want: func(c *Config) {
				c.ServerEndpointAddr = "env:2"
				c.RequestTimeout = 5 * time.Second
			},
			wantRest: []string{"logout"},
		},
		{
			name: "json only",
			args: []string{"-config", jsonPath},
			env:  noEnv,
			want: func(c *Config) {
				c.ServerEndpointAddr = "json:1"
				c.RequestTimeout = 3 * time.Second
			},
			wantRest: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest, err := load(tt.args, tt.env)
			require.NoError(t, err)

			want := defaults()
			tt.want(&want)
			if diff := cmp.Diff(want, *got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
			if len(tt.wantRest) == 0 {
				assert.Empty(t, rest)
				return
			}
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, _, err := load([]string{"-t", "soon"}, noEnv)
	assert.Error(t, err)

	_, _, err = load([]string{"-c", filepath.Join(t.TempDir(), "missing.json")}, noEnv)
	assert.Error(t, err)

	_, _, err = load([]string{"-c", writeJSON(t, `{`)}, noEnv)
	assert.Error(t, err)
}
