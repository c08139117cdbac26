package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	perrors "storefront-go/internal/platform/errors"
)

const defaultConfigFile = ".config.yaml"

// Loader reads configuration from a YAML file layered over the defaults,
// with a handful of environment overrides on top.
type Loader struct {
	path      string
	useDotEnv bool
}

// NewLoader creates a loader that reads the default config file from the
// working directory.
func NewLoader() *Loader {
	return &Loader{
		path:      defaultConfigFile,
		useDotEnv: true,
	}
}

// WithPath overrides the config file location.
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// Result captures the loaded configuration and its origin path. Path is
// empty when the defaults were used.
type Result struct {
	Config *Config
	Path   string
}

// Load assembles the effective configuration. A missing config file is not
// an error; a malformed one is.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using system environment")
		}
	}

	cfg := DefaultConfig()
	path := ""

	data, err := os.ReadFile(l.path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, perrors.Wrap(perrors.KindConfig, "load", "malformed config file "+l.path, err)
		}
		path = l.path
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return nil, perrors.Wrap(perrors.KindConfig, "load", "reading config file "+l.path, err)
	}

	l.applyEnv(cfg)

	if err := l.validate(cfg); err != nil {
		return nil, err
	}

	return &Result{Config: cfg, Path: path}, nil
}

// applyEnv lets deployment environments override the fields that change
// between installs without editing the file.
func (l *Loader) applyEnv(cfg *Config) {
	if v := os.Getenv("STOREFRONT_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("STOREFRONT_REDIS_ADDR"); v != "" {
		cfg.Session.Store.Redis.Addr = v
	}
	if v := os.Getenv("STOREFRONT_REDIS_PASSWORD"); v != "" {
		cfg.Session.Store.Redis.Password = v
	}
}

func (l *Loader) validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return perrors.New(perrors.KindConfig, "validate", "api.base_url is required")
	}
	if cfg.API.Timeout < 0 {
		return perrors.New(perrors.KindConfig, "validate", "api.timeout must not be negative")
	}
	if cfg.Watchdog.Margin < 0 {
		return perrors.New(perrors.KindConfig, "validate", "watchdog.margin must not be negative")
	}
	switch cfg.Session.Store.Driver {
	case "", "memory", "file", "sqlite", "redis":
	default:
		return perrors.New(perrors.KindConfig, "validate",
			"unknown session store driver "+cfg.Session.Store.Driver)
	}
	if cfg.Session.Store.Driver == "redis" && cfg.Session.Store.Redis.Addr == "" {
		return perrors.New(perrors.KindConfig, "validate", "redis store requires an addr")
	}
	return nil
}
