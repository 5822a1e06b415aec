package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names read by parseEnv.
const (
	EnvEndpointAddr   = "PORTAL_ENDPOINT_ADDR"
	EnvDatabaseDSN    = "PORTAL_DATABASE_DSN"
	EnvSecretKey      = "PORTAL_SECRET_KEY"
	EnvAccessTokenTTL = "PORTAL_ACCESS_TOKEN_VALIDITY_DURATION"
	EnvOTPValidity    = "PORTAL_OTP_VALIDITY_DURATION"
	EnvRedisURL       = "PORTAL_REDIS_URL"
	EnvOTPRateLimit   = "PORTAL_OTP_RATE_LIMIT"
	EnvOTPRateWindow  = "PORTAL_OTP_RATE_WINDOW"
)

// envFile is loaded into the process environment when present. Variables
// already set in the environment win over the file.
var envFile = ".env"

// parseEnv overlays cfg with PORTAL_* environment variables. Durations use
// time.ParseDuration syntax. It panics on malformed values or an unreadable
// .env file.
func parseEnv(cfg *Config) {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	lookupString(EnvEndpointAddr, &cfg.EndpointAddr)
	lookupString(EnvDatabaseDSN, &cfg.DatabaseDSN)
	lookupString(EnvSecretKey, &cfg.SecretKey)
	lookupString(EnvRedisURL, &cfg.RedisURL)
	lookupDuration(EnvAccessTokenTTL, &cfg.AccessTokenValidityDuration)
	lookupDuration(EnvOTPValidity, &cfg.OTPValidityDuration)
	lookupDuration(EnvOTPRateWindow, &cfg.OTPRateWindow)

	if v, ok := os.LookupEnv(EnvOTPRateLimit); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.OTPRateLimit = n
	}
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func lookupDuration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
