package config

import (
	"flag"
	"os"

	"github.com/avolkov/qrforge/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-s string   bearer-token HMAC secret (empty disables auth)
//	-w int      batch worker-pool size
//	-l int      batch item ceiling
//	-e string   default error-correction level (L/M/Q/H)
//	-p int      default rendered image size, pixels
//	-v          enable debug logging
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-w", "-l", "-e", "-p", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key for bearer tokens")
	fs.IntVar(&config.Workers, "w", config.Workers, "batch worker pool size")
	fs.IntVar(&config.BatchLimit, "l", config.BatchLimit, "maximum items per batch")
	fs.StringVar(&config.DefaultECLevel, "e", config.DefaultECLevel, "default error-correction level")
	fs.IntVar(&config.DefaultSizePx, "p", config.DefaultSizePx, "default image size in pixels")
	fs.BoolVar(&config.Debug, "v", config.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
