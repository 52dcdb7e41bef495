// Package config loads runtime configuration for the gophbudget CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config; .json, .yaml/.yml
//     and .toml are understood.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # File schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_path": "gophbudget.db",
//	  "offline_writes": "outbox",
//	  "sync_interval": "30s",
//	  "request_timeout": "5s",
//	  "log_level": "warn"
//	}
//
// The package does not read environment variables.
package config
