package config

// Secrets and connection strings may come from the environment so they stay
// out of config files and process listings.
const (
	envSecretKey    = "BLOGAUTH_SECRET_KEY"
	envDatabaseDSN  = "BLOGAUTH_DATABASE_DSN"
	envSMTPPassword = "BLOGAUTH_SMTP_PASSWORD"
	envRedisURL     = "BLOGAUTH_REDIS_URL"
)

func parseEnv(config *Config, lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(envSecretKey); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := lookupEnv(envDatabaseDSN); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookupEnv(envSMTPPassword); ok && v != "" {
		config.SMTPPassword = v
	}
	if v, ok := lookupEnv(envRedisURL); ok && v != "" {
		config.RedisURL = v
	}
}
