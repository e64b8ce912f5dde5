// Package cli implements the batch command-line tool: CSV rows in, ZIP
// archive out.
package cli

import (
	"flag"
	"os"

	"github.com/avolkov/qrforge/internal/flagx"
)

// Config holds the CLI run settings.
type Config struct {
	InputPath     string
	OutputPath    string
	Workers       int
	BatchLimit    int
	Format        string // "text" or "png"
	ECLevel       string
	SizePx        int
	WriteTemplate bool
	Debug         bool
}

func (c *Config) LoadDefaults() {
	c.OutputPath = "qrforge_batch.zip"
	c.Workers = 3
	c.BatchLimit = 100
	c.Format = "png"
	c.ECLevel = "M"
	c.SizePx = 256
}

// LoadConfig applies defaults and then the command-line flags.
//
// Supported flags:
//
//	-i string   input CSV path (required unless -template)
//	-o string   output archive path
//	-w int      worker pool size
//	-l int      batch item ceiling
//	-f string   artifact format: png or text
//	-e string   error-correction level (L/M/Q/H)
//	-p int      image size, pixels
//	-template   write the sample CSV to -o and exit
//	-v          debug logging
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)
	return cfg
}

func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-i", "-o", "-w", "-l", "-f", "-e", "-p", "-template", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.InputPath, "i", config.InputPath, "input CSV file")
	fs.StringVar(&config.OutputPath, "o", config.OutputPath, "output archive file")
	fs.IntVar(&config.Workers, "w", config.Workers, "worker pool size")
	fs.IntVar(&config.BatchLimit, "l", config.BatchLimit, "maximum items per batch")
	fs.StringVar(&config.Format, "f", config.Format, "artifact format: png or text")
	fs.StringVar(&config.ECLevel, "e", config.ECLevel, "error-correction level")
	fs.IntVar(&config.SizePx, "p", config.SizePx, "image size in pixels")
	fs.BoolVar(&config.WriteTemplate, "template", config.WriteTemplate, "write the sample CSV and exit")
	fs.BoolVar(&config.Debug, "v", config.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
