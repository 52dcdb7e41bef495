package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the server reads.
const EnvPrefix = "GOPHBUDGET_"

// dotenvFiles is a test seam; a missing file is not an error.
var dotenvFiles = []string{".env"}

// parseEnv loads .env (without overriding variables already set) and then
// overlays Config with every GOPHBUDGET_* variable that is set. Invalid
// durations panic, like a malformed config file does.
func parseEnv(cfg *Config) {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			panic(err)
		}
	}

	envString(&cfg.EndpointAddrGRPC, "ENDPOINT_ADDR_GRPC")
	envString(&cfg.DatabaseDSN, "DATABASE_DSN")
	envString(&cfg.SecretKey, "SECRET_KEY")
	envDuration(&cfg.AccessTokenValidityDuration, "ACCESS_TOKEN_VALIDITY_DURATION")
	envDuration(&cfg.RefreshTokenValidityDuration, "REFRESH_TOKEN_VALIDITY_DURATION")
	envString(&cfg.S3RootUser, "S3_ROOT_USER")
	envString(&cfg.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&cfg.S3Bucket, "S3_BUCKET")
	envString(&cfg.S3Region, "S3_REGION")
	envString(&cfg.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&cfg.GoogleClientID, "GOOGLE_CLIENT_ID")
	envString(&cfg.LogLevel, "LOG_LEVEL")
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
