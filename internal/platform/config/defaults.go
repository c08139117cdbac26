package config

import "time"

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 30 * time.Second,
			Routes: RoutesConfig{
				Register:      "/api/v1/auth/register",
				PasswordReset: "/api/v1/auth/password/reset",
				OTPAuthorized: []string{
					"/api/v1/auth/register",
					"/api/v1/auth/password/reset",
				},
			},
		},
		Session: SessionConfig{
			Store: StoreConfig{
				Driver:    "file",
				Namespace: "default",
				File: FileStoreConfig{
					Path: "data/session.json",
				},
			},
		},
		Watchdog: WatchdogConfig{
			Margin: 5 * time.Second,
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "storefront.log",
		},
	}
}
