package config

import (
	"encoding/json"
	"os"

	"github.com/avolkov/qrforge/internal/flagx"
)

// jsonConfig is the DTO for the optional JSON configuration file. After
// unmarshalling, non-zero fields are copied into the runtime Config.
type jsonConfig struct {
	EndpointAddr   string `json:"endpoint_addr"`
	SecretKey      string `json:"secret_key"`
	Workers        int    `json:"workers"`
	BatchLimit     int    `json:"batch_limit"`
	DefaultECLevel string `json:"default_ec_level"`
	DefaultSizePx  int    `json:"default_size_px"`
	Debug          bool   `json:"debug"`
}

// parseJSON loads configuration values from the JSON file named by the
// -c/-config flags, if any. An unreadable or invalid file panics: a config
// file that is present but broken should stop startup, not be skipped.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.Workers != 0 {
		config.Workers = c.Workers
	}
	if c.BatchLimit != 0 {
		config.BatchLimit = c.BatchLimit
	}
	if c.DefaultECLevel != "" {
		config.DefaultECLevel = c.DefaultECLevel
	}
	if c.DefaultSizePx != 0 {
		config.DefaultSizePx = c.DefaultSizePx
	}
	if c.Debug {
		config.Debug = true
	}
}
