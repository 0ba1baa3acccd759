// Package config loads runtime configuration for the resumematch CLI.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (the `default` struct tags on Config).
//  2. Environment variables prefixed RESUMEMATCH_ (read with envconfig;
//     cmd/client loads a .env file first).
//  3. Optional JSON file selected with -c / --config.
//  4. Command-line flags that were explicitly set.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "60s" or
// integer nanoseconds:
//
//	{
//	  "api_url": "https://api.example.com",
//	  "data_dir": "/home/me/.config/resumematch",
//	  "request_timeout": "60s",
//	  "unauthorized_policy": "surface",
//	  "oauth_callback_addr": "127.0.0.1:5173",
//	  "session_key": "",
//	  "log_level": "warn"
//	}
//
// session_key has no flag so it does not end up in shell history.
package config
