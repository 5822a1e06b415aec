// Package config loads runtime configuration for the portal terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-l string   external logout URL used after a forced sign-out
//	-r int      delay before the logout redirect (milliseconds)
//	-t int      per-request timeout (seconds)
//	-s string   SQLite DSN for the session store; empty keeps it in memory
//	-d string   value of the DeviceType header
//	-k string   HS256 secret; when set, tokens are verified before use
//
// # JSON schema
//
// Durations accept strings like "500ms" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://portal.example/",
//	  "logout_url": "https://portal.example/login",
//	  "redirect_delay": "500ms",
//	  "request_timeout": "15s",
//	  "session_dsn": "session.db",
//	  "device_type": "web",
//	  "token_verify_secret": ""
//	}
//
// Keys missing from the file keep their earlier value.
package config
