package storage

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SessionRecord is the single-row durable representation of a session.
// Namespace separates multiple logical profiles sharing one database.
type SessionRecord struct {
	ID           uint   `gorm:"primarykey"`
	Namespace    string `gorm:"uniqueIndex;size:64"`
	AccessToken  string
	RefreshToken string
	User         datatypes.JSON
	OTPToken     string `gorm:"column:otp_verification_token"`
	UpdatedAt    time.Time
}

// OpenSessionDB opens the SQLite database backing the session store and
// runs its migration.
func OpenSessionDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("session db requires a dsn")
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := db.AutoMigrate(&SessionRecord{}); err != nil {
		return nil, fmt.Errorf("migrate session db: %w", err)
	}
	return db, nil
}
