package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/resumematch/internal/client/api"
	"github.com/dmitrijs2005/resumematch/internal/filex"
	"github.com/dmitrijs2005/resumematch/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// AppName names the data directory and the environment prefix.
const AppName = "resumematch"

const envPrefix = "RESUMEMATCH"

// Config holds runtime settings for the CLI.
type Config struct {
	APIURL             string        `envconfig:"API_URL" default:"http://localhost:5000" validate:"required,http_url"`
	DataDir            string        `envconfig:"DATA_DIR"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s" validate:"gt=0"`
	UnauthorizedPolicy string        `envconfig:"UNAUTHORIZED_POLICY" default:"surface"`
	OAuthCallbackAddr  string        `envconfig:"OAUTH_CALLBACK_ADDR" default:"127.0.0.1:5173" validate:"required,listen_addr"`
	SessionKey         string        `envconfig:"SESSION_KEY"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"warn"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("listen_addr", isListenAddr)
	return v
}

// isListenAddr accepts host:port with a port in 0-65535. Port 0 asks the
// OS for a free port.
func isListenAddr(fl validator.FieldLevel) bool {
	host, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 0 && n <= 65535
}

// Policy returns the parsed 401 policy. Only valid after Validate.
func (c *Config) Policy() api.UnauthorizedPolicy {
	p, _ := api.ParsePolicy(c.UnauthorizedPolicy)
	return p
}

// loadEnv applies the tag defaults and then the environment.
func loadEnv(c *Config) error {
	if err := envconfig.Process(envPrefix, c); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}

// Validate checks every field and fills DataDir when it is still empty.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	c.UnauthorizedPolicy = strings.ToLower(strings.TrimSpace(c.UnauthorizedPolicy))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.DataDir == "" {
		c.DataDir = filex.DefaultDataDir(AppName)
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := api.ParsePolicy(c.UnauthorizedPolicy); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load builds a Config from defaults, the environment, the JSON file named
// by --config (if any) and explicitly set flags, in that order, then
// validates it. f may be nil when there are no flags.
func Load(f *Flags) (*Config, error) {
	cfg := &Config{}
	if err := loadEnv(cfg); err != nil {
		return nil, err
	}

	if f != nil && f.ConfigFile != "" {
		if err := loadJSON(f.ConfigFile, cfg); err != nil {
			return nil, err
		}
	}
	if f != nil {
		f.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
