// Package config handles configuration for the server: defaults, then an
// optional JSON file, then environment variables, then command-line flags.
package config

import (
	"os"
	"time"
)

// DefaultSecretKey is the development signing secret set by LoadDefaults.
const DefaultSecretKey = "secretKey"

// Config holds runtime settings for the auth server.
//
// An empty DatabaseDSN selects the in-memory store, an empty RedisURL
// disables login throttling and an empty SMTPHost makes reset emails go to
// the log instead of a mail server.
type Config struct {
	EndpointAddrGRPC string
	EndpointAddrHTTP string
	DatabaseDSN      string
	SecretKey        string

	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	ResetTokenValidityDuration   time.Duration

	BcryptCost            int
	ResetPasswordURL      string
	RevokeOnPasswordReset bool

	RedisURL           string
	LoginAttemptLimit  int
	LoginAttemptWindow time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = DefaultSecretKey
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.ResetTokenValidityDuration = time.Hour
	c.BcryptCost = 10
	c.ResetPasswordURL = "http://localhost:3000/reset-password"
	c.RevokeOnPasswordReset = false
	c.LoginAttemptLimit = 5
	c.LoginAttemptWindow = 15 * time.Minute
	c.SMTPPort = 587
	c.MailFrom = "no-reply@localhost"
}

// LoadConfig builds a Config from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg, lookupEnv)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
