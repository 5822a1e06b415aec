package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/residentportal/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   REST bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-o int      OTP validity, minutes
//	-r string   Redis URL for the OTP rate limiter
//	-n int      OTP issuances allowed per flat per window
//	-w int      OTP rate limit window, minutes
//
// Only the flags listed above are kept from os.Args (flagx.FilterArgs), so
// -c/-config and foreign flags do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-o", "-r", "-n", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	otpValidityDuration := fs.Int("o", int(config.OTPValidityDuration.Minutes()), "otp_validity_duration (in minutes)")

	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL")
	fs.IntVar(&config.OTPRateLimit, "n", config.OTPRateLimit, "otp_rate_limit (requests per window)")
	otpRateWindow := fs.Int("w", int(config.OTPRateWindow.Minutes()), "otp_rate_window (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.OTPValidityDuration = time.Duration(*otpValidityDuration) * time.Minute
	config.OTPRateWindow = time.Duration(*otpRateWindow) * time.Minute
}
