package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/residentportal/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. os.Args is
// filtered first so flags owned by other loaders do not break parsing.
// It panics on malformed values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-r", "-t", "-s", "-d", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.LogoutURL, "l", cfg.LogoutURL, "logout redirect URL")
	redirectDelay := fs.Int("r", int(cfg.RedirectDelay.Milliseconds()), "logout redirect delay (in milliseconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionDSN, "s", cfg.SessionDSN, "session store DSN (empty for in-memory)")
	fs.StringVar(&cfg.DeviceType, "d", cfg.DeviceType, "DeviceType header value")
	fs.StringVar(&cfg.TokenVerifySecret, "k", cfg.TokenVerifySecret, "token verification secret")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RedirectDelay = time.Duration(*redirectDelay) * time.Millisecond
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
