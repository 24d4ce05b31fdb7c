package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/blogauth/internal/flagx"
	"github.com/dmitrijs2005/blogauth/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept strings such
// as "15m" or integer nanoseconds. Absent fields keep their current value.
type JsonConfig struct {
	EndpointAddrGRPC             string          `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP             string          `json:"endpoint_addr_http"`
	DatabaseDSN                  string          `json:"database_dsn"`
	SecretKey                    string          `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	ResetTokenValidityDuration   *timex.Duration `json:"reset_token_validity_duration"`
	BcryptCost                   *int            `json:"bcrypt_cost"`
	ResetPasswordURL             string          `json:"reset_password_url"`
	RevokeOnPasswordReset        *bool           `json:"revoke_on_password_reset"`
	RedisURL                     string          `json:"redis_url"`
	LoginAttemptLimit            *int            `json:"login_attempt_limit"`
	LoginAttemptWindow           *timex.Duration `json:"login_attempt_window"`
	SMTPHost                     string          `json:"smtp_host"`
	SMTPPort                     *int            `json:"smtp_port"`
	SMTPUsername                 string          `json:"smtp_username"`
	SMTPPassword                 string          `json:"smtp_password"`
	MailFrom                     string          `json:"mail_from"`
}

// parseJson overlays the file named by -c/-config, if any, onto config.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.ResetPasswordURL, c.ResetPasswordURL)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPUsername, c.SMTPUsername)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.MailFrom, c.MailFrom)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.ResetTokenValidityDuration != nil {
		config.ResetTokenValidityDuration = c.ResetTokenValidityDuration.Duration
	}
	if c.LoginAttemptWindow != nil {
		config.LoginAttemptWindow = c.LoginAttemptWindow.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.LoginAttemptLimit != nil {
		config.LoginAttemptLimit = *c.LoginAttemptLimit
	}
	if c.SMTPPort != nil {
		config.SMTPPort = *c.SMTPPort
	}
	if c.RevokeOnPasswordReset != nil {
		config.RevokeOnPasswordReset = *c.RevokeOnPasswordReset
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
