package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/flagx"
	"github.com/dmitrijs2005/gophbudget/internal/timex"
)

// FileConfig is a DTO used exclusively for config file decoding. Intervals
// use timex.Duration so they may be written as "3s" or as nanoseconds.
type FileConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr" toml:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval" toml:"online_check_interval"`
	DatabasePath        string         `json:"database_path" yaml:"database_path" toml:"database_path"`
	OfflineWrites       string         `json:"offline_writes" yaml:"offline_writes" toml:"offline_writes"`
	SyncInterval        timex.Duration `json:"sync_interval" yaml:"sync_interval" toml:"sync_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
	LogLevel            string         `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// parseFile overlays Config with the values set in the file named by -c or
// -config. Keys missing from the file keep their current value. Read or
// decode errors panic.
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
	setString(&cfg.ServerEndpointAddr, fc.ServerEndpointAddr)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.OfflineWrites, fc.OfflineWrites)
	setString(&cfg.LogLevel, fc.LogLevel)
	setDuration(&cfg.OnlineCheckInterval, fc.OnlineCheckInterval)
	setDuration(&cfg.SyncInterval, fc.SyncInterval)
	setDuration(&cfg.RequestTimeout, fc.RequestTimeout)
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
