package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/residentportal/internal/flagx"
	"github.com/dmitrijs2005/residentportal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell "absent" apart from "empty".
type JsonConfig struct {
	APIBaseURL        *string         `json:"api_base_url"`
	LogoutURL         *string         `json:"logout_url"`
	RedirectDelay     *timex.Duration `json:"redirect_delay"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	SessionDSN        *string         `json:"session_dsn"`
	DeviceType        *string         `json:"device_type"`
	TokenVerifySecret *string         `json:"token_verify_secret"`
}

// parseJson overlays cfg with the file named by -c/-config. It panics on
// read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.LogoutURL, jc.LogoutURL)
	setString(&cfg.SessionDSN, jc.SessionDSN)
	setString(&cfg.DeviceType, jc.DeviceType)
	setString(&cfg.TokenVerifySecret, jc.TokenVerifySecret)
	if jc.RedirectDelay != nil {
		cfg.RedirectDelay = jc.RedirectDelay.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
