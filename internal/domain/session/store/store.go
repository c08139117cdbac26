package store

import (
	"context"
	"time"

	"storefront-go/internal/domain/session/model"
)

// Durable key names. These mirror the on-disk representation the UI layer
// historically used, so a state directory written by an older build stays
// readable.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	KeyOTPToken     = "otpVerificationToken"
)

// Record holds the durable fields of the main session. The OTP verification
// token is persisted independently of the token pair and therefore lives
// outside the record.
type Record struct {
	AccessToken  string      `json:"accessToken,omitempty"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	User         *model.User `json:"user,omitempty"`
}

// Empty reports whether the record carries no session.
func (r Record) Empty() bool {
	return r.AccessToken == "" && r.RefreshToken == "" && r.User == nil
}

// Store is the durable backing of the session manager. Loading from an
// empty store returns zero values, not errors.
type Store interface {
	SaveSession(ctx context.Context, rec Record) error
	LoadSession(ctx context.Context) (Record, error)
	ClearSession(ctx context.Context) error
	SaveOTPToken(ctx context.Context, token string) error
	LoadOTPToken(ctx context.Context) (string, error)
	ClearOTPToken(ctx context.Context) error
	Close(ctx context.Context) error
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver    string
	Namespace string
	File      *FileConfig
	SQLite    *SQLiteConfig
	Redis     *RedisConfig
}

// FileConfig locates the JSON state file.
type FileConfig struct {
	Path string
}

// SQLiteConfig provides the database dependency.
type SQLiteConfig struct {
	DSN string
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
	Timeout  time.Duration
}
