package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the gophbudget CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DatabasePath: location of the local SQLite database.
//   - OfflineWrites: "outbox" queues writes made offline, "drop" keeps them local only.
//   - SyncInterval: how often queued writes are retried while online.
//   - RequestTimeout: upper bound for a single remote read.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DatabasePath        string
	OfflineWrites       string
	SyncInterval        time.Duration
	RequestTimeout      time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = "gophbudget.db"
	c.OfflineWrites = "outbox"
	c.SyncInterval = 30 * time.Second
	c.RequestTimeout = 5 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
//
// It panics when the result is unusable, like the other parsing steps.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects intervals the client cannot run with. A zero SyncInterval
// is allowed and disables periodic draining.
func (c *Config) Validate() error {
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.SyncInterval < 0 {
		return fmt.Errorf("sync interval must not be negative, got %s", c.SyncInterval)
	}
	return nil
}
