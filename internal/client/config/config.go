// Package config loads the authctl settings: defaults, then an optional JSON
// file, then the AUTHCTL_SERVER_ADDR environment variable, then global
// command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the authctl CLI.
type Config struct {
	ServerEndpointAddr string
	DatabasePath       string
	RequestTimeout     time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DatabasePath = "~/.authctl/session.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig parses the process arguments. It returns the config and the
// arguments left after the global flags, starting with the command name.
func LoadConfig() (*Config, []string, error) {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookupEnv func(string) (string, bool)) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	g, rest, err := parseFlags(args)
	if err != nil {
		return nil, nil, err
	}

	if g.configPath != "" {
		if err := parseJson(cfg, g.configPath); err != nil {
			return nil, nil, err
		}
	}
	if v, ok := lookupEnv("AUTHCTL_SERVER_ADDR"); ok && v != "" {
		cfg.ServerEndpointAddr = v
	}
	g.apply(cfg)

	return cfg, rest, nil
}
