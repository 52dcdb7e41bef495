package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the backend server
//	-i int      online check interval (in seconds)
//	-d string   path to the local database
//	-w string   offline writes: outbox or drop
//	-s int      outbox sync interval (in seconds)
//	-t int      remote request timeout (in seconds)
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first so foreign flags do not
// break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-d", "-w", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.OfflineWrites, "w", cfg.OfflineWrites, "offline writes: outbox or drop")
	syncInterval := fs.Int("s", int(cfg.SyncInterval.Seconds()), "outbox sync interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "remote request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only flags given on the command line replace file values, which may be
	// finer than a second
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		case "s":
			cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		}
	})
}
