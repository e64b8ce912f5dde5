// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the QRForge server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP API.
//   - SecretKey: HMAC secret for verifying bearer tokens (HS256). Empty
//     disables authentication entirely.
//   - Workers: encode worker-pool size for batch requests.
//   - BatchLimit: hard ceiling on items per batch request.
//   - DefaultECLevel: QR error-correction level used when a request does not
//     specify one ("L", "M", "Q" or "H").
//   - DefaultSizePx: rendered image edge length when unspecified.
//   - Debug: enables debug-level logging.
type Config struct {
	EndpointAddr   string
	SecretKey      string
	Workers        int
	BatchLimit     int
	DefaultECLevel string
	DefaultSizePx  int
	Debug          bool
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.SecretKey = ""
	c.Workers = 3
	c.BatchLimit = 100
	c.DefaultECLevel = "M"
	c.DefaultSizePx = 256
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
