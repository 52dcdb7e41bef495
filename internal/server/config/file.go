package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/flagx"
	"github.com/dmitrijs2005/gophbudget/internal/timex"
)

// FileConfig is a DTO used only for config file decoding. Token lifetimes
// use timex.Duration, so both "15m" and integer nanoseconds are accepted.
type FileConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc" toml:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn" yaml:"database_dsn" toml:"database_dsn"`
	SecretKey                    string         `json:"secret_key" yaml:"secret_key" toml:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration" toml:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration" toml:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user" yaml:"s3_root_user" toml:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password" yaml:"s3_root_password" toml:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket"`
	S3Region                     string         `json:"s3_region" yaml:"s3_region" toml:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint" toml:"s3_base_endpoint"`
	GoogleClientID               string         `json:"google_client_id" yaml:"google_client_id" toml:"google_client_id"`
	LogLevel                     string         `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// parseFile overlays Config with the file named by -c or -config. Keys
// missing from the file keep their current value; read or decode errors
// panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	var fc FileConfig
	if err := flagx.DecodeConfigFile(path, &fc); err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	setDuration(&cfg.AccessTokenValidityDuration, fc.AccessTokenValidityDuration)
	setDuration(&cfg.RefreshTokenValidityDuration, fc.RefreshTokenValidityDuration)
	setString(&cfg.S3RootUser, fc.S3RootUser)
	setString(&cfg.S3RootPassword, fc.S3RootPassword)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.GoogleClientID, fc.GoogleClientID)
	setString(&cfg.LogLevel, fc.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
