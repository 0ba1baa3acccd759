package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/resumematch/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	APIURL             *string         `json:"api_url"`
	DataDir            *string         `json:"data_dir"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	UnauthorizedPolicy *string         `json:"unauthorized_policy"`
	OAuthCallbackAddr  *string         `json:"oauth_callback_addr"`
	SessionKey         *string         `json:"session_key"`
	LogLevel           *string         `json:"log_level"`
}

// loadJSON overlays cfg with the values present in the file at path.
func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.APIURL, jc.APIURL)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.UnauthorizedPolicy, jc.UnauthorizedPolicy)
	setString(&cfg.OAuthCallbackAddr, jc.OAuthCallbackAddr)
	setString(&cfg.SessionKey, jc.SessionKey)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
