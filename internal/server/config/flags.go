package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/blogauth/internal/flagx"
)

var allowedFlags = []string{"-a", "-l", "-d", "-s", "-t", "-r", "-x", "-k", "-u", "-R"}

// parseFlags overlays command-line flags onto config.
//
//	-a string   gRPC bind address (":50051")
//	-l string   HTTP bind address (":8080")
//	-d string   PostgreSQL DSN; empty selects the in-memory store
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-x int      password reset token validity, minutes
//	-k int      bcrypt cost
//	-u string   password reset page URL
//	-R string   Redis URL for login throttling
//
// Arguments not in the list above are ignored.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "l", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	access := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refresh := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")
	reset := fs.Int("x", int(config.ResetTokenValidityDuration.Minutes()), "password reset token validity (in minutes)")

	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.ResetPasswordURL, "u", config.ResetPasswordURL, "password reset page URL")
	fs.StringVar(&config.RedisURL, "R", config.RedisURL, "redis URL")

	if err := fs.Parse(flagx.FilterArgs(args, allowedFlags)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*access) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refresh) * time.Minute
		case "x":
			config.ResetTokenValidityDuration = time.Duration(*reset) * time.Minute
		}
	})
	return nil
}
