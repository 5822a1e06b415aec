package config

import "time"

// Config holds runtime settings for the portal terminal client.
//
// Units: RedirectDelay and RequestTimeout are time.Duration values; on the
// command line they are given in milliseconds and seconds respectively.
type Config struct {
	APIBaseURL        string
	LogoutURL         string
	RedirectDelay     time.Duration
	RequestTimeout    time.Duration
	SessionDSN        string
	DeviceType        string
	TokenVerifySecret string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/"
	c.LogoutURL = "http://127.0.0.1:8080/login"
	c.RedirectDelay = 500 * time.Millisecond
	c.RequestTimeout = 15 * time.Second
	c.SessionDSN = ""
	c.DeviceType = "web"
	c.TokenVerifySecret = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
