package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags binds the configuration flags to a flag set. Only flags the user
// actually set override lower-precedence sources.
type Flags struct {
	ConfigFile string

	fs                 *pflag.FlagSet
	apiURL             string
	dataDir            string
	timeout            time.Duration
	unauthorizedPolicy string
	oauthAddr          string
	logLevel           string
}

// BindFlags registers the flags on fs (typically a cobra command's
// persistent flags).
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "path to a JSON config file")
	fs.StringVarP(&f.apiURL, "api-url", "a", "", "backend origin, e.g. https://api.example.com")
	fs.StringVar(&f.dataDir, "data-dir", "", "directory for the local session database")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "per-request timeout")
	fs.StringVar(&f.unauthorizedPolicy, "on-401", "", `what to do on a 401: "surface" or "clear"`)
	fs.StringVar(&f.oauthAddr, "oauth-addr", "", "host:port for the OAuth callback listener")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	return f
}

func (f *Flags) apply(cfg *Config) {
	if f.fs == nil {
		return
	}
	if f.fs.Changed("api-url") {
		cfg.APIURL = f.apiURL
	}
	if f.fs.Changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if f.fs.Changed("timeout") {
		cfg.RequestTimeout = f.timeout
	}
	if f.fs.Changed("on-401") {
		cfg.UnauthorizedPolicy = f.unauthorizedPolicy
	}
	if f.fs.Changed("oauth-addr") {
		cfg.OAuthCallbackAddr = f.oauthAddr
	}
	if f.fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}
