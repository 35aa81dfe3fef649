package config

import (
	"flag"
	"os"
	"time"

	"github.com/pavelgris/erpadmin/internal/flagx"
)

// parseFlags overlays selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend API
//	-d string   path to the local client database
//	-i int      session check interval in seconds
//	-p int      default page size for lists
//	-legacy-order  use the legacy todo order endpoint
//
// os.Args is filtered to the flags handled here so this parser does not
// interfere with flags owned by other components (such as -c/-config).
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-i", "-p", "-legacy-order"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local client database")
	interval := fs.Int("i", int(cfg.SessionCheckInterval.Seconds()), "session check interval (in seconds)")
	fs.IntVar(&cfg.PerPage, "p", cfg.PerPage, "default page size for lists")
	fs.BoolVar(&cfg.LegacyOrderEndpoint, "legacy-order", cfg.LegacyOrderEndpoint, "use the legacy todo order endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionCheckInterval = time.Duration(*interval) * time.Second
}
