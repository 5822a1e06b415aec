package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/residentportal/internal/flagx"
	"github.com/dmitrijs2005/residentportal/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept "90s" style strings or integer nanoseconds (timex.Duration).
// Pointer fields tell "absent" apart from "empty".
type JsonConfig struct {
	EndpointAddr                *string         `json:"endpoint_addr"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	OTPValidityDuration         *timex.Duration `json:"otp_validity_duration"`
	RedisURL                    *string         `json:"redis_url"`
	OTPRateLimit                *int            `json:"otp_rate_limit"`
	OTPRateWindow               *timex.Duration `json:"otp_rate_window"`
}

// parseJson overlays config with the file named by -c/-config. When neither
// flag is given nothing is loaded. It panics on read or unmarshal errors.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.OTPValidityDuration != nil {
		config.OTPValidityDuration = c.OTPValidityDuration.Duration
	}
	if c.RedisURL != nil {
		config.RedisURL = *c.RedisURL
	}
	if c.OTPRateLimit != nil {
		config.OTPRateLimit = *c.OTPRateLimit
	}
	if c.OTPRateWindow != nil {
		config.OTPRateWindow = c.OTPRateWindow.Duration
	}
}
