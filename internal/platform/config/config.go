package config

import (
	"time"
)

// Config is the full client configuration tree.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Session  SessionConfig  `yaml:"session"`
	Watchdog WatchdogConfig `yaml:"watchdog"`
	Log      LogConfig      `yaml:"log"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Routes  RoutesConfig  `yaml:"routes"`
}

// RoutesConfig names the endpoints with special credential handling. Paths
// listed under otp_authorized go out under the OTP verification token
// instead of the session access token.
type RoutesConfig struct {
	Register      string   `yaml:"register"`
	PasswordReset string   `yaml:"password_reset"`
	OTPAuthorized []string `yaml:"otp_authorized"`
}

// SessionConfig selects and configures the durable session store.
type SessionConfig struct {
	Store StoreConfig `yaml:"store"`
}

type StoreConfig struct {
	Driver    string            `yaml:"driver"`
	Namespace string            `yaml:"namespace"`
	File      FileStoreConfig   `yaml:"file,omitempty"`
	SQLite    SQLiteStoreConfig `yaml:"sqlite,omitempty"`
	Redis     RedisStoreConfig  `yaml:"redis,omitempty"`
}

type FileStoreConfig struct {
	Path string `yaml:"path"`
}

type SQLiteStoreConfig struct {
	DSN string `yaml:"dsn,omitempty"`
}

type RedisStoreConfig struct {
	Addr     string        `yaml:"addr"`
	Username string        `yaml:"username,omitempty"`
	Password string        `yaml:"password,omitempty"`
	DB       int           `yaml:"db,omitempty"`
	Prefix   string        `yaml:"prefix,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// WatchdogConfig tunes the token expiry watchdog.
type WatchdogConfig struct {
	Margin time.Duration `yaml:"margin"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}
